package domain

// CartItem is one line of a shopping cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// Cart is a user's current selection. The badge shows the number of lines.
type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// Count returns the number of distinct products in the cart.
func (c *Cart) Count() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}
