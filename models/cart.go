package models

// CartItem is one line of the profile-local cart: a point-in-time copy of
// the product fields the storefront needs, plus a quantity. The cart holds
// at most one line per product id.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
}
