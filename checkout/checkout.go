// Package checkout composes the session, cart and gateway into orders,
// drives the payment widget, and reconciles payment state through the
// server-side verification function.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muhammed1675/ScentsByMotun/cart"
	"github.com/muhammed1675/ScentsByMotun/errs"
	"github.com/muhammed1675/ScentsByMotun/gateway"
	"github.com/muhammed1675/ScentsByMotun/models"
	"github.com/muhammed1675/ScentsByMotun/payments"
	"github.com/muhammed1675/ScentsByMotun/session"
)

// ErrNotConfirmed means the verification function answered, but did not
// explicitly mark the payment successful. Never inferred as success.
var ErrNotConfirmed = errors.New("payment not confirmed")

// Manager is the order/checkout orchestrator.
type Manager struct {
	gw       *gateway.Client
	sessions *session.Manager
	carts    *cart.Manager
	widget   payments.Widget

	publicKey string
	currency  string
}

func New(gw *gateway.Client, sessions *session.Manager, carts *cart.Manager, widget payments.Widget, publicKey, currency string) *Manager {
	return &Manager{
		gw:        gw,
		sessions:  sessions,
		carts:     carts,
		widget:    widget,
		publicKey: publicKey,
		currency:  currency,
	}
}

// transitions lists the forward edges of the order status machine. An
// admin may force cancelled from any live state; nothing ever returns to
// pending.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusPaid, models.OrderStatusFailed, models.OrderStatusCancelled},
	models.OrderStatusPaid:       {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusCancelled},
	models.OrderStatusDelivered:  {models.OrderStatusCancelled},
	models.OrderStatusFailed:     {models.OrderStatusCancelled},
	models.OrderStatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CreateOrder persists an order header with the cart's current total,
// then one order-item row per cart line with a point-in-time price copy.
// The item writes carry no cross-step transaction: if one fails the order
// stays pending with a partial item set, and the created order is
// returned alongside the error so the caller can reconcile via
// OrderItems.
func (m *Manager) CreateOrder(ctx context.Context, extra map[string]any) (*models.Order, error) {
	if !m.sessions.IsAuthenticated() {
		return nil, errs.ErrAuthRequired
	}
	items := m.carts.Items()
	if len(items) == 0 {
		return nil, errs.Validation("cart", "cart is empty")
	}

	s := m.sessions.Current()
	payload := map[string]any{
		"user_id":      s.User.ID,
		"total_amount": m.carts.Total(),
		"status":       string(models.OrderStatusPending),
		"created_at":   time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range extra {
		payload[k] = v
	}

	var created []models.Order
	if err := m.gw.Create(ctx, "orders", payload, &created); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if len(created) == 0 || created[0].ID == "" {
		return nil, errors.New("platform returned no order")
	}
	order := created[0]

	for _, item := range items {
		row := models.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := m.gw.Create(ctx, "order_items", row, nil); err != nil {
			// The order header is valid; its item set is partial.
			return &order, fmt.Errorf("order %s created but item write failed: %w", order.ID, err)
		}
	}
	return &order, nil
}

// Order fetches one order header.
func (m *Manager) Order(ctx context.Context, orderID string) (*models.Order, error) {
	var orders []models.Order
	q := gateway.Query{Select: "*", Filter: "id=eq." + orderID}
	if err := m.gw.Read(ctx, "orders", q, &orders); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	return &orders[0], nil
}

// UserOrders lists a user's orders, newest first.
func (m *Manager) UserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	q := gateway.Query{Select: "*", Filter: "user_id=eq." + userID, Order: "created_at.desc"}
	if err := m.gw.Read(ctx, "orders", q, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderItems lists the item rows of one order. Also the reconciliation
// read for callers that hit a partial CreateOrder.
func (m *Manager) OrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	q := gateway.Query{Select: "*", Filter: "order_id=eq." + orderID}
	if err := m.gw.Read(ctx, "order_items", q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AllOrders lists every order, newest first. The admin aggregator gates
// access.
func (m *Manager) AllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	q := gateway.Query{Select: "*", Order: "created_at.desc"}
	if err := m.gw.Read(ctx, "orders", q, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order along the status machine.
func (m *Manager) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return errs.Validation("status", "unknown order status "+status)
	}

	order, err := m.Order(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(order.Status, next) {
		return errs.Validation("status", fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	patch := map[string]any{
		"status":     string(next),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	return m.gw.Update(ctx, "orders", patch, "id=eq."+orderID, nil)
}

// NewReference builds a locally unique payment reference. Time plus a
// random suffix; collision probability treated as negligible, not zero.
func NewReference() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("SBM-%d-%s", time.Now().UnixMilli(), suffix)
}

// VerifyResult is the verification function's answer.
type VerifyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CheckoutParams assembles what the payment widget needs: public key,
// payer email, amount in the minor currency unit, currency code and a
// fresh reference.
func (m *Manager) CheckoutParams(email string, amount float64) (payments.Checkout, error) {
	if email == "" {
		return payments.Checkout{}, errs.Validation("email", "must not be empty")
	}
	if amount <= 0 {
		return payments.Checkout{}, errs.Validation("amount", "must be positive")
	}
	return payments.Checkout{
		PublicKey:   m.publicKey,
		Email:       email,
		AmountMinor: int64(math.Round(amount * 100)),
		Currency:    m.currency,
		Reference:   NewReference(),
	}, nil
}

// InitializePayment hands a checkout to the payment widget and, on the
// widget's success callback, verifies the payment server-side. A closed
// window surfaces as payments.ErrWindowClosed, which is not a payment
// failure.
func (m *Manager) InitializePayment(ctx context.Context, orderID, email string, amount float64) (*VerifyResult, error) {
	co, err := m.CheckoutParams(email, amount)
	if err != nil {
		return nil, err
	}
	res, err := m.widget.Open(ctx, co)
	if err != nil {
		return nil, err
	}
	return m.VerifyPayment(ctx, res.Reference, orderID)
}

// Settle runs one prepared checkout to its end state: open the widget,
// verify on success, then move the order to paid or failed. A closed
// window settles nothing; the order stays pending and the cart is kept.
func (m *Manager) Settle(ctx context.Context, co payments.Checkout, orderID string) (*models.Order, error) {
	res, err := m.widget.Open(ctx, co)
	if errors.Is(err, payments.ErrWindowClosed) {
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if _, err := m.VerifyPayment(ctx, res.Reference, orderID); err != nil {
		if order, ferr := m.HandlePaymentFailure(ctx, orderID); ferr == nil {
			return order, err
		} else {
			log.Printf("[Checkout] failed to mark order %s failed: %v", orderID, ferr)
		}
		return nil, err
	}
	return m.HandlePaymentSuccess(ctx, orderID)
}

// VerifyPayment asks the server-side verification function about a
// reference. Only a response explicitly marked successful confirms the
// payment; anything else, however well-formed, does not.
func (m *Manager) VerifyPayment(ctx context.Context, reference, orderID string) (*VerifyResult, error) {
	var result VerifyResult
	payload := map[string]any{"reference": reference, "order_id": orderID}
	if err := m.gw.Invoke(ctx, "verify-payment", payload, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		if result.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrNotConfirmed, result.Message)
		}
		return nil, ErrNotConfirmed
	}
	return &result, nil
}

// HandlePaymentSuccess moves the order to paid and clears the cart. Cart
// clearing is coupled to confirmed payment, never to initiation, so an
// abandoned payment keeps the cart intact.
func (m *Manager) HandlePaymentSuccess(ctx context.Context, orderID string) (*models.Order, error) {
	if err := m.UpdateOrderStatus(ctx, orderID, string(models.OrderStatusPaid)); err != nil {
		return nil, err
	}
	if err := m.carts.Clear(); err != nil {
		log.Printf("[Checkout] failed to clear cart after payment: %v", err)
	}
	return m.Order(ctx, orderID)
}

// HandlePaymentFailure marks the order failed. The cart stays as it was.
func (m *Manager) HandlePaymentFailure(ctx context.Context, orderID string) (*models.Order, error) {
	if err := m.UpdateOrderStatus(ctx, orderID, string(models.OrderStatusFailed)); err != nil {
		return nil, err
	}
	return m.Order(ctx, orderID)
}
