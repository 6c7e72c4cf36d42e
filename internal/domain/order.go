package domain

// ExtractedItem is one order line recognised in an utterance
type ExtractedItem struct {
	Name             string  `json:"name"`
	Quantity         int     `json:"quantity"`
	MatchedProductID *string `json:"matchedProductId"`
	Price            *int64  `json:"price,omitempty"`
}

// Matched reports whether the item resolved to a catalog product
func (i ExtractedItem) Matched() bool {
	return i.MatchedProductID != nil && *i.MatchedProductID != ""
}

// ExtractionResult is the structured outcome of one extraction call.
//
// Items keep extraction order. NewProducts lists names of unmatched items,
// without duplicates. Note is reserved and currently always nil.
type ExtractionResult struct {
	Items       []ExtractedItem `json:"items"`
	Table       *string         `json:"table"`
	Note        *string         `json:"note"`
	NewProducts []string        `json:"newProducts"`
}

// NewExtractionResult returns an empty result with non-nil slices so it
// serializes as [] rather than null.
func NewExtractionResult() ExtractionResult {
	return ExtractionResult{
		Items:       []ExtractedItem{},
		NewProducts: []string{},
	}
}

// Total sums price x quantity over every priced item
func (r ExtractionResult) Total() int64 {
	var total int64
	for _, item := range r.Items {
		if item.Price == nil {
			continue
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += *item.Price * int64(qty)
	}
	return total
}

// StringPtr returns a pointer to a copy of s
func StringPtr(s string) *string { return &s }

// Int64Ptr returns a pointer to a copy of v
func Int64Ptr(v int64) *int64 { return &v }
