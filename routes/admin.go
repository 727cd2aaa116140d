package routes

import (
	"github.com/gin-gonic/gin"

	adminControllers "github.com/muhammed1675/ScentsByMotun/controllers/admin"
	"github.com/muhammed1675/ScentsByMotun/middleware"
)

// SetupAdminRoutes registers the "/admin/*" endpoints. The role gate runs
// per request; the admin manager re-checks it again per operation.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireSession(deps.Sessions), middleware.RequireAdmin(deps.Sessions))
	{
		productGroup := adminGroup.Group("/products")
		{
			productGroup.GET("", adminControllers.ListProducts(deps.Admin))              // GET /admin/products
			productGroup.POST("", adminControllers.CreateProduct(deps.Admin))            // POST /admin/products
			productGroup.GET("/export", adminControllers.ExportProducts(deps.Admin))     // GET /admin/products/export
			productGroup.PUT("/:id", adminControllers.UpdateProduct(deps.Admin))         // PUT /admin/products/:id
			productGroup.DELETE("/:id", adminControllers.DeleteProduct(deps.Admin))      // DELETE /admin/products/:id
			productGroup.POST("/:id/image", adminControllers.UploadProductImage(deps.Admin)) // POST /admin/products/:id/image
		}

		orderGroup := adminGroup.Group("/orders")
		{
			orderGroup.GET("", adminControllers.ListOrders(deps.Admin))                // GET /admin/orders
			orderGroup.GET("/export", adminControllers.ExportOrders(deps.Admin))       // GET /admin/orders/export
			orderGroup.GET("/:id", adminControllers.OrderDetails(deps.Admin))          // GET /admin/orders/:id
			orderGroup.PUT("/:id/status", adminControllers.UpdateOrderStatus(deps.Admin)) // PUT /admin/orders/:id/status
		}

		adminGroup.GET("/stats", adminControllers.DashboardStats(deps.Admin)) // GET /admin/stats
	}
}
