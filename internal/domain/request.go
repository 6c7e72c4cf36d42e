package domain

// ExtractRequest asks for one utterance to be turned into an order.
// Products, when present, is the catalog snapshot to match against;
// otherwise the snapshot stored for MerchantID is used.
type ExtractRequest struct {
	Utterance  string    `json:"utterance"`
	MerchantID string    `json:"merchantId,omitempty"`
	Products   []Product `json:"products,omitempty" binding:"omitempty,dive"`
}

// MatchRequest asks for a catalog entry by exact name or alias
type MatchRequest struct {
	Name       string    `json:"name" binding:"required"`
	MerchantID string    `json:"merchantId,omitempty"`
	Products   []Product `json:"products,omitempty" binding:"omitempty,dive"`
}

// CatalogRequest replaces the stored catalog snapshot of a merchant
type CatalogRequest struct {
	Products []Product `json:"products" binding:"required,dive"`
}
