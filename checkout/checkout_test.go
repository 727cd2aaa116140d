package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muhammed1675/ScentsByMotun/cart"
	"github.com/muhammed1675/ScentsByMotun/errs"
	"github.com/muhammed1675/ScentsByMotun/events"
	"github.com/muhammed1675/ScentsByMotun/gateway"
	"github.com/muhammed1675/ScentsByMotun/models"
	"github.com/muhammed1675/ScentsByMotun/payments"
	"github.com/muhammed1675/ScentsByMotun/session"
	"github.com/muhammed1675/ScentsByMotun/store"
)

// widgetFunc adapts a function to payments.Widget.
type widgetFunc func(ctx context.Context, co payments.Checkout) (payments.Result, error)

func (f widgetFunc) Open(ctx context.Context, co payments.Checkout) (payments.Result, error) {
	return f(ctx, co)
}

// fakePlatform is an in-test stand-in for the remote platform: auth
// endpoints, the orders and order_items resources, and the payment
// verification function.
type fakePlatform struct {
	orders       map[string]*models.Order
	items        []models.OrderItem
	nextID       int
	requests     int
	failItems    bool // reject order_items writes
	verifyStatus map[string]bool
	verifyBody   string // overrides the verification response when set
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{orders: map[string]*models.Order{}, verifyStatus: map[string]bool{}}
}

func (f *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests++
	switch {
	case r.URL.Path == "/auth/v1/token":
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"user":          models.User{ID: "u1", Email: "buyer@shop.com"},
		})
	case r.URL.Path == "/auth/v1/logout":
		w.WriteHeader(http.StatusNoContent)
	case r.URL.Path == "/rest/v1/orders" && r.Method == http.MethodPost:
		var o models.Order
		json.NewDecoder(r.Body).Decode(&o)
		f.nextID++
		o.ID = fmt.Sprintf("o%d", f.nextID)
		f.orders[o.ID] = &o
		json.NewEncoder(w).Encode([]models.Order{o})
	case r.URL.Path == "/rest/v1/orders" && r.Method == http.MethodGet:
		if filter := r.URL.Query().Get("id"); filter != "" {
			id := strings.TrimPrefix(filter, "eq.")
			if o, ok := f.orders[id]; ok {
				json.NewEncoder(w).Encode([]models.Order{*o})
				return
			}
			w.Write([]byte(`[]`))
			return
		}
		out := []models.Order{}
		for _, o := range f.orders {
			out = append(out, *o)
		}
		json.NewEncoder(w).Encode(out)
	case r.URL.Path == "/rest/v1/orders" && r.Method == http.MethodPatch:
		id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
		var patch map[string]any
		json.NewDecoder(r.Body).Decode(&patch)
		if o, ok := f.orders[id]; ok {
			if s, ok := patch["status"].(string); ok {
				o.Status = models.OrderStatus(s)
			}
			json.NewEncoder(w).Encode([]models.Order{*o})
			return
		}
		w.Write([]byte(`[]`))
	case r.URL.Path == "/rest/v1/order_items" && r.Method == http.MethodPost:
		if f.failItems {
			http.Error(w, `{"message":"item write rejected"}`, http.StatusInternalServerError)
			return
		}
		var item models.OrderItem
		json.NewDecoder(r.Body).Decode(&item)
		f.items = append(f.items, item)
		json.NewEncoder(w).Encode([]models.OrderItem{item})
	case r.URL.Path == "/rest/v1/order_items" && r.Method == http.MethodGet:
		id := strings.TrimPrefix(r.URL.Query().Get("order_id"), "eq.")
		out := []models.OrderItem{}
		for _, item := range f.items {
			if item.OrderID == id {
				out = append(out, item)
			}
		}
		json.NewEncoder(w).Encode(out)
	case r.URL.Path == "/functions/v1/verify-payment":
		if f.verifyBody != "" {
			w.Write([]byte(f.verifyBody))
			return
		}
		var req struct {
			Reference string `json:"reference"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]any{"success": f.verifyStatus[req.Reference]})
	default:
		http.NotFound(w, r)
	}
}

type testEnv struct {
	platform *fakePlatform
	sessions *session.Manager
	carts    *cart.Manager
	orch     *Manager
	widget   *widgetFunc
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	platform := newFakePlatform()
	server := httptest.NewServer(platform)
	t.Cleanup(server.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "profile.db"))
	if err != nil {
		t.Fatalf("store.Open returned error: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	bus := events.NewBus()
	var sessions *session.Manager
	gw := gateway.New(server.URL, "anon", gateway.TokenFunc(func() string {
		if sessions == nil {
			return ""
		}
		return sessions.AccessToken()
	}))
	sessions = session.New(gw, st, bus, "admin")
	t.Cleanup(sessions.Dispose)
	carts := cart.New(st, bus)
	t.Cleanup(carts.Dispose)

	var widget widgetFunc = func(ctx context.Context, co payments.Checkout) (payments.Result, error) {
		return payments.Result{Reference: co.Reference}, nil
	}
	env := &testEnv{platform: platform, sessions: sessions, carts: carts, widget: &widget}
	env.orch = New(gw, sessions, carts, widgetFunc(func(ctx context.Context, co payments.Checkout) (payments.Result, error) {
		return (*env.widget)(ctx, co)
	}), "pk_test", "NGN")
	return env
}

func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	if _, err := e.sessions.SignIn(context.Background(), "buyer@shop.com", "secret"); err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
}

func TestCreateOrderRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orch.CreateOrder(context.Background(), nil)
	if !errors.Is(err, errs.ErrAuthRequired) {
		t.Fatalf("CreateOrder without session = %v, want ErrAuthRequired", err)
	}
}

func TestCreateOrderEmptyCartNeverContactsRemote(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	requestsAfterSignIn := env.platform.requests

	_, err := env.orch.CreateOrder(context.Background(), nil)
	if !errs.IsValidation(err) {
		t.Fatalf("CreateOrder with empty cart = %v, want validation error", err)
	}
	if env.platform.requests != requestsAfterSignIn {
		t.Fatalf("remote contacted %d times for an empty-cart checkout", env.platform.requests-requestsAfterSignIn)
	}
}

func TestCreateOrderWritesHeaderAndItems(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	addToCart(t, env, "pA", 1000, 2)
	addToCart(t, env, "pB", 500, 1)

	order, err := env.orch.CreateOrder(context.Background(), nil)
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if order.Status != models.OrderStatusPending {
		t.Fatalf("order status = %s, want pending", order.Status)
	}
	if order.TotalAmount != 2500 {
		t.Fatalf("order total = %v, want 2500", order.TotalAmount)
	}
	if order.UserID != "u1" {
		t.Fatalf("order user = %s, want u1", order.UserID)
	}

	items, err := env.orch.OrderItems(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("OrderItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	prices := map[string]float64{}
	for _, item := range items {
		prices[item.ProductID] = item.Price
	}
	if prices["pA"] != 1000 || prices["pB"] != 500 {
		t.Fatalf("item prices = %+v", prices)
	}
}

func TestPartialItemFailureReturnsOrderAndError(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	addToCart(t, env, "pA", 1000, 1)
	env.platform.failItems = true

	order, err := env.orch.CreateOrder(context.Background(), nil)
	if err == nil {
		t.Fatal("CreateOrder succeeded despite item write failure")
	}
	if order == nil {
		t.Fatal("CreateOrder returned nil order; the pending header is valid and must be surfaced")
	}
	if order.Status != models.OrderStatusPending {
		t.Fatalf("order status = %s, want pending", order.Status)
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		ok       bool
	}{
		{models.OrderStatusPending, models.OrderStatusPaid, true},
		{models.OrderStatusPending, models.OrderStatusFailed, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusShipped, false},
		{models.OrderStatusPaid, models.OrderStatusProcessing, true},
		{models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, true},
		{models.OrderStatusPaid, models.OrderStatusPending, false},
		{models.OrderStatusFailed, models.OrderStatusPaid, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusPaid, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestUpdateOrderStatusValidates(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	addToCart(t, env, "pA", 100, 1)
	order, err := env.orch.CreateOrder(context.Background(), nil)
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}

	if err := env.orch.UpdateOrderStatus(context.Background(), order.ID, "teleported"); !errs.IsValidation(err) {
		t.Fatalf("unknown status = %v, want validation error", err)
	}
	if err := env.orch.UpdateOrderStatus(context.Background(), order.ID, "shipped"); !errs.IsValidation(err) {
		t.Fatalf("pending->shipped = %v, want validation error", err)
	}
	if err := env.orch.UpdateOrderStatus(context.Background(), order.ID, "paid"); err != nil {
		t.Fatalf("pending->paid returned error: %v", err)
	}
}

func TestVerifyPaymentIsStrict(t *testing.T) {
	env := newTestEnv(t)

	// Explicit success.
	env.platform.verifyBody = `{"success":true,"message":"ok"}`
	if _, err := env.orch.VerifyPayment(context.Background(), "ref-1", "o1"); err != nil {
		t.Fatalf("explicit success = %v, want confirmed", err)
	}

	// Explicit failure.
	env.platform.verifyBody = `{"success":false,"message":"declined"}`
	if _, err := env.orch.VerifyPayment(context.Background(), "ref-1", "o1"); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("explicit failure = %v, want ErrNotConfirmed", err)
	}

	// Well-formed response without a success flag is not a confirmation.
	env.platform.verifyBody = `{"message":"processed"}`
	if _, err := env.orch.VerifyPayment(context.Background(), "ref-1", "o1"); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("missing flag = %v, want ErrNotConfirmed", err)
	}
}

func TestInitializePaymentDistinguishesClose(t *testing.T) {
	env := newTestEnv(t)

	*env.widget = func(ctx context.Context, co payments.Checkout) (payments.Result, error) {
		return payments.Result{}, payments.ErrWindowClosed
	}
	_, err := env.orch.InitializePayment(context.Background(), "o1", "buyer@shop.com", 25)
	if !errors.Is(err, payments.ErrWindowClosed) {
		t.Fatalf("closed window = %v, want ErrWindowClosed", err)
	}
	if errors.Is(err, ErrNotConfirmed) {
		t.Fatal("closed window reported as a payment failure")
	}
}

func TestCheckoutParams(t *testing.T) {
	env := newTestEnv(t)

	co, err := env.orch.CheckoutParams("buyer@shop.com", 25.5)
	if err != nil {
		t.Fatalf("CheckoutParams returned error: %v", err)
	}
	if co.AmountMinor != 2550 {
		t.Fatalf("AmountMinor = %d, want 2550", co.AmountMinor)
	}
	if co.Currency != "NGN" || co.PublicKey != "pk_test" {
		t.Fatalf("params = %+v", co)
	}
	if !strings.HasPrefix(co.Reference, "SBM-") {
		t.Fatalf("reference = %q, want SBM- prefix", co.Reference)
	}

	other, _ := env.orch.CheckoutParams("buyer@shop.com", 25.5)
	if other.Reference == co.Reference {
		t.Fatal("two checkouts produced the same reference")
	}

	if _, err := env.orch.CheckoutParams("", 25); !errs.IsValidation(err) {
		t.Fatalf("empty email = %v, want validation error", err)
	}
	if _, err := env.orch.CheckoutParams("buyer@shop.com", 0); !errs.IsValidation(err) {
		t.Fatalf("zero amount = %v, want validation error", err)
	}
}

func TestEndToEndCheckout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signIn(t)

	addToCart(t, env, "pA", 1000, 2)
	addToCart(t, env, "pB", 500, 1)
	if got := env.carts.Total(); got != 2500 {
		t.Fatalf("cart total = %v, want 2500", got)
	}

	order, err := env.orch.CreateOrder(ctx, nil)
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if order.Status != models.OrderStatusPending {
		t.Fatalf("order status = %s, want pending", order.Status)
	}

	items, err := env.orch.OrderItems(ctx, order.ID)
	if err != nil {
		t.Fatalf("OrderItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	// The widget succeeds and the verification function confirms it.
	*env.widget = func(ctx context.Context, co payments.Checkout) (payments.Result, error) {
		env.platform.verifyStatus[co.Reference] = true
		return payments.Result{Reference: co.Reference}, nil
	}

	co, err := env.orch.CheckoutParams("buyer@shop.com", order.TotalAmount)
	if err != nil {
		t.Fatalf("CheckoutParams returned error: %v", err)
	}
	settled, err := env.orch.Settle(ctx, co, order.ID)
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}

	if settled.Status != models.OrderStatusPaid {
		t.Fatalf("settled status = %s, want paid", settled.Status)
	}
	if len(env.carts.Items()) != 0 {
		t.Fatalf("cart not empty after confirmed payment: %+v", env.carts.Items())
	}
}

func TestFailedVerificationMarksOrderFailedAndKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signIn(t)
	addToCart(t, env, "pA", 1000, 1)

	order, err := env.orch.CreateOrder(ctx, nil)
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}

	// Widget reports success but the verification function says no.
	env.platform.verifyBody = `{"success":false,"message":"declined"}`
	co, _ := env.orch.CheckoutParams("buyer@shop.com", order.TotalAmount)
	failed, err := env.orch.Settle(ctx, co, order.ID)
	if !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("Settle = %v, want ErrNotConfirmed", err)
	}
	if failed == nil || failed.Status != models.OrderStatusFailed {
		t.Fatalf("order after failed verification = %+v, want status failed", failed)
	}
	if len(env.carts.Items()) != 1 {
		t.Fatal("cart cleared on a failed payment")
	}
}

func addToCart(t *testing.T, env *testEnv, id string, price float64, qty int) {
	t.Helper()
	p := models.Product{ID: id, Name: "Perfume " + id, Price: price, Category: "Unisex"}
	if err := env.carts.Add(p, qty); err != nil {
		t.Fatalf("Add(%s) returned error: %v", id, err)
	}
}
