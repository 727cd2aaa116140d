package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/muhammed1675/ScentsByMotun/admin"
	"github.com/muhammed1675/ScentsByMotun/cart"
	"github.com/muhammed1675/ScentsByMotun/catalog"
	"github.com/muhammed1675/ScentsByMotun/checkout"
	eventControllers "github.com/muhammed1675/ScentsByMotun/controllers/events"
	"github.com/muhammed1675/ScentsByMotun/events"
	"github.com/muhammed1675/ScentsByMotun/payments"
	"github.com/muhammed1675/ScentsByMotun/session"
)

// Deps carries the constructed engine components into the route layer.
type Deps struct {
	Sessions *session.Manager
	Carts    *cart.Manager
	Catalog  *catalog.Manager
	Checkout *checkout.Manager
	Admin    *admin.Manager
	Bridge   *payments.InlineBridge
	Bus      *events.Bus
}

// SetupRoutes is the single entry point that wires up the storefront,
// auth, checkout and admin route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// Public auth + catalog routes
	SetupAuthRoutes(r, deps)
	SetupStorefrontRoutes(r, deps)

	// Session-gated cart and checkout routes
	SetupCheckoutRoutes(r, deps)

	// Role-gated admin routes
	SetupAdminRoutes(r, deps)

	// Event feed for the UI
	hub := eventControllers.NewHub(deps.Bus)
	r.GET("/events", hub.Handler)
}
