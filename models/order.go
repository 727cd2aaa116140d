package models

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // order created, payment not confirmed
	OrderStatusPaid       OrderStatus = "paid"       // payment verified
	OrderStatusFailed     OrderStatus = "failed"     // payment declined or verification failed
	OrderStatusProcessing OrderStatus = "processing" // admin: being prepared
	OrderStatusShipped    OrderStatus = "shipped"    // admin: out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // admin: customer received it
	OrderStatusCancelled  OrderStatus = "cancelled"  // admin override, allowed from any state
)

// OrderStatuses lists every valid status value, for input validation.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusFailed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus maps a raw string to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Order headers live on the remote orders resource. TotalAmount is
// computed from the cart at creation time and never recomputed.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   string      `json:"created_at,omitempty"`
	UpdatedAt   string      `json:"updated_at,omitempty"`
}

// OrderItem is a point-in-time copy of a cart line. Price is frozen at
// order creation so historical orders survive catalog price changes.
type OrderItem struct {
	ID        string  `json:"id,omitempty"`
	OrderID   string  `json:"order_id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	CreatedAt string  `json:"created_at,omitempty"`
}
