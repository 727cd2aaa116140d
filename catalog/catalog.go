// Package catalog is the read path over the remote products resource,
// with a response cache keyed by query shape. The cache has no TTL and no
// cross-user invalidation; staleness across users is accepted.
package catalog

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/muhammed1675/ScentsByMotun/errs"
	"github.com/muhammed1675/ScentsByMotun/gateway"
	"github.com/muhammed1675/ScentsByMotun/models"
)

const resource = "products"

// Key identifies a cached query shape.
type Key struct {
	Kind string // "all", "category" or "product"
	Arg  string // category name or product id
}

func keyAll() Key             { return Key{Kind: "all"} }
func keyCategory(cat string) Key { return Key{Kind: "category", Arg: cat} }
func keyProduct(id string) Key   { return Key{Kind: "product", Arg: id} }

// Manager serves product reads through the cache and pushes admin writes
// through the gateway, invalidating affected entries.
type Manager struct {
	gw *gateway.Client

	mu    sync.Mutex
	lists map[Key][]models.Product
	items map[Key]models.Product
}

func New(gw *gateway.Client) *Manager {
	return &Manager{
		gw:    gw,
		lists: make(map[Key][]models.Product),
		items: make(map[Key]models.Product),
	}
}

func (m *Manager) cachedList(k Key) ([]models.Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.lists[k]
	return list, ok
}

// ListAll returns every product, name-ascending. Failures degrade to an
// empty list so the display layer always has something to render.
func (m *Manager) ListAll(ctx context.Context) []models.Product {
	if list, ok := m.cachedList(keyAll()); ok {
		return list
	}

	var products []models.Product
	q := gateway.Query{Select: "*", Order: "name.asc"}
	if err := m.gw.Read(ctx, resource, q, &products); err != nil {
		log.Printf("[Products] failed to fetch products: %v", err)
		return []models.Product{}
	}

	m.mu.Lock()
	m.lists[keyAll()] = products
	m.mu.Unlock()
	return products
}

// ListByCategory returns the products in one category, name-ascending.
func (m *Manager) ListByCategory(ctx context.Context, category string) []models.Product {
	if list, ok := m.cachedList(keyCategory(category)); ok {
		return list
	}

	var products []models.Product
	q := gateway.Query{Select: "*", Filter: "category=eq." + category, Order: "name.asc"}
	if err := m.gw.Read(ctx, resource, q, &products); err != nil {
		log.Printf("[Products] failed to fetch category %q: %v", category, err)
		return []models.Product{}
	}

	m.mu.Lock()
	m.lists[keyCategory(category)] = products
	m.mu.Unlock()
	return products
}

// GetByID returns one product, or nil when the fetch fails or nothing
// matches.
func (m *Manager) GetByID(ctx context.Context, id string) *models.Product {
	m.mu.Lock()
	if p, ok := m.items[keyProduct(id)]; ok {
		m.mu.Unlock()
		return &p
	}
	m.mu.Unlock()

	var products []models.Product
	q := gateway.Query{Select: "*", Filter: "id=eq." + id, Limit: 1}
	if err := m.gw.Read(ctx, resource, q, &products); err != nil {
		log.Printf("[Products] failed to fetch product %s: %v", id, err)
		return nil
	}
	if len(products) == 0 {
		return nil
	}

	p := products[0]
	m.mu.Lock()
	m.items[keyProduct(id)] = p
	m.mu.Unlock()
	return &p
}

// Search runs a case-insensitive substring match over name and
// description. It only sees what ListAll has loaded; it is not a remote
// full-text query.
func (m *Manager) Search(ctx context.Context, query string) []models.Product {
	lower := strings.ToLower(query)
	matches := []models.Product{}
	for _, p := range m.ListAll(ctx) {
		if strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(strings.ToLower(p.Description), lower) {
			matches = append(matches, p)
		}
	}
	return matches
}

// Featured returns the first limit products of the full catalog.
func (m *Manager) Featured(ctx context.Context, limit int) []models.Product {
	if limit <= 0 {
		limit = 6
	}
	all := m.ListAll(ctx)
	if len(all) > limit {
		return all[:limit]
	}
	return all
}

// invalidate drops the item entry for id plus every list entry. Coarse on
// purpose: over-invalidating beats serving a stale aggregate.
func (m *Manager) invalidate(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != "" {
		delete(m.items, keyProduct(id))
	}
	m.lists = make(map[Key][]models.Product)
}

// Create inserts a product and returns the created row.
func (m *Manager) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	if p.Name == "" {
		return nil, errs.Validation("name", "must not be empty")
	}
	if p.Price <= 0 {
		return nil, errs.Validation("price", "must be positive")
	}
	if p.Category == "" {
		return nil, errs.Validation("category", "must not be empty")
	}

	var created []models.Product
	if err := m.gw.Create(ctx, resource, p, &created); err != nil {
		return nil, err
	}
	m.invalidate("")
	if len(created) == 0 {
		return &p, nil
	}
	return &created[0], nil
}

// Update patches the product with id.
func (m *Manager) Update(ctx context.Context, id string, patch map[string]any) error {
	if id == "" {
		return errs.Validation("id", "must not be empty")
	}
	if err := m.gw.Update(ctx, resource, patch, "id=eq."+id, nil); err != nil {
		return err
	}
	m.invalidate(id)
	return nil
}

// Delete removes the product with id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errs.Validation("id", "must not be empty")
	}
	if err := m.gw.Delete(ctx, resource, "id=eq."+id); err != nil {
		return err
	}
	m.invalidate(id)
	return nil
}
