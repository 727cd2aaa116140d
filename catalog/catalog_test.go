package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/muhammed1675/ScentsByMotun/gateway"
	"github.com/muhammed1675/ScentsByMotun/models"
)

// fakeCatalog serves a products resource and counts GET requests.
type fakeCatalog struct {
	products []models.Product
	reads    int
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/rest/v1/products") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		f.reads++
		out := f.products
		if filter := r.URL.Query().Get("id"); filter != "" {
			id := strings.TrimPrefix(filter, "eq.")
			out = nil
			for _, p := range f.products {
				if p.ID == id {
					out = []models.Product{p}
				}
			}
		} else if filter := r.URL.Query().Get("category"); filter != "" {
			cat := strings.TrimPrefix(filter, "eq.")
			out = nil
			for _, p := range f.products {
				if p.Category == cat {
					out = append(out, p)
				}
			}
		}
		json.NewEncoder(w).Encode(out)
	case http.MethodPost:
		var p models.Product
		json.NewDecoder(r.Body).Decode(&p)
		p.ID = "new"
		f.products = append(f.products, p)
		json.NewEncoder(w).Encode([]models.Product{p})
	case http.MethodPatch, http.MethodDelete:
		w.Write([]byte(`[]`))
	}
}

func newTestCatalog(t *testing.T) (*Manager, *fakeCatalog) {
	t.Helper()
	fake := &fakeCatalog{products: []models.Product{
		{ID: "1", Name: "Amber Oud", Category: "Men", Price: 1000, Description: "warm amber"},
		{ID: "2", Name: "Rose Noir", Category: "Women", Price: 500, Description: "dark rose"},
		{ID: "3", Name: "Citrus Sky", Category: "Unisex", Price: 750, Description: "bright citrus"},
	}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return New(gateway.New(server.URL, "anon", nil)), fake
}

func TestListAllHitsRemoteOnce(t *testing.T) {
	m, fake := newTestCatalog(t)
	ctx := context.Background()

	first := m.ListAll(ctx)
	second := m.ListAll(ctx)

	if fake.reads != 1 {
		t.Fatalf("remote reads = %d, want 1", fake.reads)
	}
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("lists = %d/%d items, want 3", len(first), len(second))
	}
}

func TestWriteInvalidatesCache(t *testing.T) {
	m, fake := newTestCatalog(t)
	ctx := context.Background()

	m.ListAll(ctx)
	if p := m.GetByID(ctx, "1"); p == nil {
		t.Fatal("GetByID returned nil")
	}
	readsBefore := fake.reads

	if err := m.Update(ctx, "1", map[string]any{"price": 1200}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	m.ListAll(ctx)
	m.GetByID(ctx, "1")
	if fake.reads != readsBefore+2 {
		t.Fatalf("remote reads after update = %d, want %d fresh reads", fake.reads-readsBefore, 2)
	}
}

func TestGetByIDCaches(t *testing.T) {
	m, fake := newTestCatalog(t)
	ctx := context.Background()

	m.GetByID(ctx, "2")
	m.GetByID(ctx, "2")
	if fake.reads != 1 {
		t.Fatalf("remote reads = %d, want 1", fake.reads)
	}

	if p := m.GetByID(ctx, "nope"); p != nil {
		t.Fatalf("GetByID(nope) = %+v, want nil", p)
	}
}

func TestSearchIsLocalAndCaseInsensitive(t *testing.T) {
	m, fake := newTestCatalog(t)
	ctx := context.Background()

	got := m.Search(ctx, "OUD")
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("Search(OUD) = %+v", got)
	}

	got = m.Search(ctx, "dark")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("Search over description = %+v", got)
	}

	// Both searches share the one ListAll fetch.
	if fake.reads != 1 {
		t.Fatalf("remote reads = %d, want 1", fake.reads)
	}
}

func TestListByCategoryCachesPerCategory(t *testing.T) {
	m, fake := newTestCatalog(t)
	ctx := context.Background()

	men := m.ListByCategory(ctx, "Men")
	m.ListByCategory(ctx, "Men")
	women := m.ListByCategory(ctx, "Women")

	if len(men) != 1 || men[0].ID != "1" {
		t.Fatalf("Men = %+v", men)
	}
	if len(women) != 1 || women[0].ID != "2" {
		t.Fatalf("Women = %+v", women)
	}
	if fake.reads != 2 {
		t.Fatalf("remote reads = %d, want 2", fake.reads)
	}
}

func TestReadFailureDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	defer server.Close()
	m := New(gateway.New(server.URL, "anon", nil))

	if got := m.ListAll(context.Background()); len(got) != 0 {
		t.Fatalf("ListAll on failure = %+v, want empty", got)
	}
	if p := m.GetByID(context.Background(), "1"); p != nil {
		t.Fatalf("GetByID on failure = %+v, want nil", p)
	}
}

func TestFeaturedIsPrefixOfAll(t *testing.T) {
	m, _ := newTestCatalog(t)
	ctx := context.Background()

	got := m.Featured(ctx, 2)
	if len(got) != 2 {
		t.Fatalf("Featured(2) returned %d items", len(got))
	}
	all := m.ListAll(ctx)
	if got[0].ID != all[0].ID || got[1].ID != all[1].ID {
		t.Fatal("Featured is not a prefix of ListAll")
	}
}
