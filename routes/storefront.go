package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/muhammed1675/ScentsByMotun/controllers/cart"
	productControllers "github.com/muhammed1675/ScentsByMotun/controllers/products"
	"github.com/muhammed1675/ScentsByMotun/middleware"
)

// SetupStorefrontRoutes registers product browsing (public) and the cart
// (session-gated).
func SetupStorefrontRoutes(r *gin.Engine, deps Deps) {
	productGroup := r.Group("/products")
	{
		productGroup.GET("", productControllers.List(deps.Catalog))              // GET /products
		productGroup.GET("/featured", productControllers.Featured(deps.Catalog)) // GET /products/featured
		productGroup.GET("/search", productControllers.Search(deps.Catalog))      // GET /products/search
		productGroup.GET("/:id", productControllers.GetByID(deps.Catalog))        // GET /products/:id
	}

	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.RequireSession(deps.Sessions))
	{
		cartGroup.GET("", cartControllers.Get(deps.Carts))                          // GET /cart
		cartGroup.POST("", cartControllers.Add(deps.Carts, deps.Catalog))           // POST /cart
		cartGroup.PUT("/:product_id", cartControllers.SetQuantity(deps.Carts))      // PUT /cart/:product_id
		cartGroup.DELETE("/:product_id", cartControllers.Remove(deps.Carts))        // DELETE /cart/:product_id
		cartGroup.DELETE("", cartControllers.Clear(deps.Carts))                     // DELETE /cart
	}
}
