package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhammed1675/ScentsByMotun/cart"
	"github.com/muhammed1675/ScentsByMotun/catalog"
	"github.com/muhammed1675/ScentsByMotun/controllers/respond"
)

// GET /cart
func Get(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"items": carts.Items(),
			"count": carts.Count(),
			"total": carts.Total(),
		})
	}
}

type addInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// POST /cart — adds (merging) a product line. The product is resolved
// through the catalog so the line carries its current price copy.
func Add(carts *cart.Manager, cat *catalog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input addInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Quantity == 0 {
			input.Quantity = 1
		}

		product := cat.GetByID(c.Request.Context(), input.ProductID)
		if product == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
			return
		}

		if err := carts.Add(*product, input.Quantity); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": carts.Items(), "count": carts.Count(), "total": carts.Total()})
	}
}

type quantityInput struct {
	Quantity int `json:"quantity"`
}

// PUT /cart/:product_id — sets a line's quantity; zero removes it.
func SetQuantity(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input quantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := carts.SetQuantity(c.Param("product_id"), input.Quantity); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": carts.Items(), "count": carts.Count(), "total": carts.Total()})
	}
}

// DELETE /cart/:product_id
func Remove(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Remove(c.Param("product_id")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": carts.Items(), "count": carts.Count(), "total": carts.Total()})
	}
}

// DELETE /cart
func Clear(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Clear(); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
