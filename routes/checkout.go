package routes

import (
	"github.com/gin-gonic/gin"

	checkoutControllers "github.com/muhammed1675/ScentsByMotun/controllers/checkout"
	"github.com/muhammed1675/ScentsByMotun/middleware"
)

// SetupCheckoutRoutes registers the "/checkout/*" endpoints. All of them
// need a session.
func SetupCheckoutRoutes(r *gin.Engine, deps Deps) {
	checkoutGroup := r.Group("/checkout")
	checkoutGroup.Use(middleware.RequireSession(deps.Sessions))
	{
		checkoutGroup.POST("/orders", checkoutControllers.CreateOrder(deps.Checkout))                  // POST /checkout/orders
		checkoutGroup.GET("/orders", checkoutControllers.ListOrders(deps.Checkout, deps.Sessions))     // GET /checkout/orders
		checkoutGroup.GET("/orders/:id", checkoutControllers.GetOrder(deps.Checkout))                  // GET /checkout/orders/:id

		checkoutGroup.POST("/pay", checkoutControllers.Pay(deps.Checkout))                             // POST /checkout/pay
		checkoutGroup.POST("/pay/:reference/complete", checkoutControllers.CompletePayment(deps.Bridge)) // POST /checkout/pay/:reference/complete
		checkoutGroup.POST("/pay/:reference/close", checkoutControllers.ClosePayment(deps.Bridge))       // POST /checkout/pay/:reference/close
	}
}
