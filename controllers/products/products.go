package productControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/muhammed1675/ScentsByMotun/catalog"
)

// GET /products?category=Men
func List(cat *catalog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if category := c.Query("category"); category != "" {
			c.JSON(http.StatusOK, cat.ListByCategory(c.Request.Context(), category))
			return
		}
		c.JSON(http.StatusOK, cat.ListAll(c.Request.Context()))
	}
}

// GET /products/featured?limit=6
func Featured(cat *catalog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
		c.JSON(http.StatusOK, cat.Featured(c.Request.Context(), limit))
	}
}

// GET /products/search?q=oud
func Search(cat *catalog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing search query"})
			return
		}
		c.JSON(http.StatusOK, cat.Search(c.Request.Context(), query))
	}
}

// GET /products/:id
func GetByID(cat *catalog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := cat.GetByID(c.Request.Context(), c.Param("id"))
		if p == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
