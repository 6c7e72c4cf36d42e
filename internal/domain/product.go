package domain

// Product is a known sellable item in a merchant's catalog.
// The extraction core only ever reads a snapshot of these.
type Product struct {
	ID      string   `json:"id" binding:"required"`
	Name    string   `json:"name" binding:"required"`
	Aliases []string `json:"aliases"`
	Price   int64    `json:"price" binding:"min=0"` // smallest currency unit (VND)
}

// CloneProducts returns a deep copy of a catalog so callers can hand out
// snapshots without sharing the alias slices.
func CloneProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p
		if p.Aliases != nil {
			out[i].Aliases = append([]string(nil), p.Aliases...)
		}
	}
	return out
}
