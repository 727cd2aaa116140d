// Package cart is the profile-local shopping cart: an ordered list of
// product lines persisted as a unit, with at most one line per product.
// Nothing upstream sees the cart before checkout.
package cart

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/muhammed1675/ScentsByMotun/errs"
	"github.com/muhammed1675/ScentsByMotun/events"
	"github.com/muhammed1675/ScentsByMotun/models"
	"github.com/muhammed1675/ScentsByMotun/store"
)

// Manager owns the cart. Every mutation persists the whole list and ends
// with a cart_updated event carrying the authoritative item list.
type Manager struct {
	st  *store.Store
	bus *events.Bus

	mu    sync.Mutex
	items []models.CartItem

	unsub func()
}

// New builds a Manager, restoring any persisted cart. A record that fails
// to parse is discarded and the cart starts empty.
func New(st *store.Store, bus *events.Bus) *Manager {
	m := &Manager{st: st, bus: bus}

	if value, ok, err := st.Get(store.KeyCart); err != nil {
		log.Printf("[Cart] failed to load cart: %v", err)
	} else if ok {
		var items []models.CartItem
		if err := json.Unmarshal([]byte(value), &items); err != nil {
			log.Printf("[Cart] discarding corrupt cart record: %v", err)
			if err := st.Delete(store.KeyCart); err != nil {
				log.Printf("[Cart] failed to discard cart record: %v", err)
			}
		} else {
			m.items = items
		}
	}

	m.unsub = st.Subscribe(store.KeyCart, m.applyStored)
	return m
}

// Dispose detaches the manager from the profile store.
func (m *Manager) Dispose() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

// applyStored reloads from a changed stored record and broadcasts the new
// list. Sign-out clears the cart through this path too: the session
// manager deletes the record, the subscription lands here with ok=false.
func (m *Manager) applyStored(value string, ok bool) {
	var items []models.CartItem
	if ok {
		if err := json.Unmarshal([]byte(value), &items); err != nil {
			log.Printf("[Cart] discarding corrupt cart record: %v", err)
			if derr := m.st.Delete(store.KeyCart); derr != nil {
				log.Printf("[Cart] failed to discard cart record: %v", derr)
			}
			return
		}
	}

	m.mu.Lock()
	m.items = items
	snapshot := append([]models.CartItem(nil), items...)
	m.mu.Unlock()

	m.bus.Publish(events.TopicCartUpdated, snapshot)
}

// persist writes the full list. The store subscription then updates
// in-memory state and publishes cart_updated.
func (m *Manager) persist(items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return m.st.Put(store.KeyCart, string(data))
}

// Add merges quantity into an existing line for the product, or appends a
// new line holding a point-in-time copy of the product fields.
func (m *Manager) Add(p models.Product, quantity int) error {
	if p.ID == "" {
		return errs.Validation("product", "missing product id")
	}
	if quantity < 1 {
		return errs.Validation("quantity", "must be at least 1")
	}

	m.mu.Lock()
	items := append([]models.CartItem(nil), m.items...)
	m.mu.Unlock()

	merged := false
	for i := range items {
		if items[i].ProductID == p.ID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, models.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Quantity:  quantity,
		})
	}
	return m.persist(items)
}

// Remove drops the line for productID. Removing an absent product is a
// no-op that still rewrites the cart.
func (m *Manager) Remove(productID string) error {
	m.mu.Lock()
	items := make([]models.CartItem, 0, len(m.items))
	for _, it := range m.items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	m.mu.Unlock()
	return m.persist(items)
}

// SetQuantity replaces the quantity of an existing line. A quantity of
// zero or less removes the line.
func (m *Manager) SetQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		return m.Remove(productID)
	}

	m.mu.Lock()
	items := append([]models.CartItem(nil), m.items...)
	m.mu.Unlock()

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return m.persist(items)
		}
	}
	return nil
}

// Items returns a copy of the current lines.
func (m *Manager) Items() []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CartItem(nil), m.items...)
}

// Count is the total quantity across all lines.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, it := range m.items {
		n += it.Quantity
	}
	return n
}

// Total is the sum of price x quantity across all lines.
func (m *Manager) Total() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0.0
	for _, it := range m.items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// Clear empties the cart.
func (m *Manager) Clear() error {
	return m.persist([]models.CartItem{})
}

// Has reports whether the cart holds a line for productID.
func (m *Manager) Has(productID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
