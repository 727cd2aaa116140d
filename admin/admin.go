// Package admin is the privileged surface: product and order management
// plus the dashboard fold. Every operation re-checks the admin role at
// call time; a session can expire or be revoked between calls.
package admin

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/muhammed1675/ScentsByMotun/catalog"
	"github.com/muhammed1675/ScentsByMotun/checkout"
	"github.com/muhammed1675/ScentsByMotun/errs"
	"github.com/muhammed1675/ScentsByMotun/gateway"
	"github.com/muhammed1675/ScentsByMotun/models"
	"github.com/muhammed1675/ScentsByMotun/session"
)

// Manager gates and serves the admin operations. It holds no state of its
// own; everything is read through the catalog and checkout managers.
type Manager struct {
	sessions *session.Manager
	catalog  *catalog.Manager
	orders   *checkout.Manager
	gw       *gateway.Client
}

func New(sessions *session.Manager, cat *catalog.Manager, orders *checkout.Manager, gw *gateway.Client) *Manager {
	return &Manager{sessions: sessions, catalog: cat, orders: orders, gw: gw}
}

// ensure re-checks the role on every privileged call. Never cached.
func (m *Manager) ensure() error {
	if !m.sessions.IsAdmin() {
		return errs.ErrAdminRequired
	}
	return nil
}

// Products lists the full catalog for the management screens.
func (m *Manager) Products(ctx context.Context) ([]models.Product, error) {
	if err := m.ensure(); err != nil {
		return nil, err
	}
	return m.catalog.ListAll(ctx), nil
}

// CreateProduct validates and inserts a product.
func (m *Manager) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	if err := m.ensure(); err != nil {
		return nil, err
	}
	return m.catalog.Create(ctx, p)
}

// UpdateProduct patches the given fields of a product.
func (m *Manager) UpdateProduct(ctx context.Context, id string, patch map[string]any) error {
	if err := m.ensure(); err != nil {
		return err
	}
	patch["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	return m.catalog.Update(ctx, id, patch)
}

// DeleteProduct removes a product.
func (m *Manager) DeleteProduct(ctx context.Context, id string) error {
	if err := m.ensure(); err != nil {
		return err
	}
	return m.catalog.Delete(ctx, id)
}

// UploadProductImage stores an image under the product's namespace and
// returns its public URL.
func (m *Manager) UploadProductImage(ctx context.Context, productID, contentType string, content io.Reader) (string, error) {
	if err := m.ensure(); err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", errs.Validation("file", "must be an image")
	}
	ext := strings.TrimPrefix(contentType, "image/")
	path := fmt.Sprintf("products/%s-%d.%s", productID, time.Now().UnixMilli(), ext)
	return m.gw.Upload(ctx, "products", path, content, contentType)
}

// Orders lists every order, newest first.
func (m *Manager) Orders(ctx context.Context) ([]models.Order, error) {
	if err := m.ensure(); err != nil {
		return nil, err
	}
	return m.orders.AllOrders(ctx)
}

// OrderDetails is an order header joined with its item rows.
type OrderDetails struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}

// OrderDetails fetches one order with its items.
func (m *Manager) OrderDetails(ctx context.Context, orderID string) (*OrderDetails, error) {
	if err := m.ensure(); err != nil {
		return nil, err
	}
	order, err := m.orders.Order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := m.orders.OrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderDetails{Order: *order, Items: items}, nil
}

// UpdateOrderStatus moves an order along the status machine.
func (m *Manager) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	if err := m.ensure(); err != nil {
		return err
	}
	return m.orders.UpdateOrderStatus(ctx, orderID, status)
}

// Stats is the dashboard aggregate.
type Stats struct {
	TotalOrders   int     `json:"total_orders"`
	PaidOrders    int     `json:"paid_orders"`
	PendingOrders int     `json:"pending_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalProducts int     `json:"total_products"`
}

// DashboardStats is a full fold over the order and product lists: revenue
// sums paid orders, counts partition by status. Recomputed on every call.
// Fetch failures degrade to zeroes for the affected half.
func (m *Manager) DashboardStats(ctx context.Context) (Stats, error) {
	if err := m.ensure(); err != nil {
		return Stats{}, err
	}

	var stats Stats
	orders, err := m.orders.AllOrders(ctx)
	if err != nil {
		log.Printf("[Admin] failed to fetch orders for stats: %v", err)
		orders = nil
	}
	for _, o := range orders {
		stats.TotalOrders++
		switch o.Status {
		case models.OrderStatusPaid:
			stats.PaidOrders++
			stats.TotalRevenue += o.TotalAmount
		case models.OrderStatusPending:
			stats.PendingOrders++
		}
	}
	stats.TotalProducts = len(m.catalog.ListAll(ctx))
	return stats, nil
}
