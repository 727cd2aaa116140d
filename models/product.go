package models

// Product rows are owned by the remote catalog resource; local copies are
// cache entries, never authoritative.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"` // Men, Women, Unisex, ...
	Description string  `json:"description"`
	ScentNotes  string  `json:"scent_notes"`
	ImageURL    string  `json:"image_url"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// Categories lists the catalog categories the storefront renders.
var Categories = []string{"Men", "Women", "Unisex"}
