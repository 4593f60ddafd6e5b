package dto

// Query echoes the filter a listing was fetched with. Absent bounds and the
// "all" category are omitted, as on the wire.
type Query struct {
	MinPrice *int   `json:"min_price,omitempty"`
	MaxPrice *int   `json:"max_price,omitempty"`
	Category string `json:"category,omitempty"`
}
