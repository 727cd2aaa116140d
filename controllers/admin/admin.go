package adminControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhammed1675/ScentsByMotun/admin"
	"github.com/muhammed1675/ScentsByMotun/controllers/respond"
	"github.com/muhammed1675/ScentsByMotun/models"
)

// GET /admin/products
func ListProducts(mgr *admin.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := mgr.Products(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

type productInput struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description"`
	ScentNotes  string  `json:"scent_notes"`
	ImageURL    string  `json:"image_url"`
}

// POST /admin/products
func CreateProduct(mgr *admin.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input productInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		created, err := mgr.CreateProduct(c.Request.Context(), models.Product{
			Name:        input.Name,
			Price:       input.Price,
			Category:    input.Category,
			Description: input.Description,
			ScentNotes:  input.ScentNotes,
			ImageURL:    input.ImageURL,
		})
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// PUT /admin/products/:id — partial update, only the provided fields.
func UpdateProduct(mgr *admin.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch map[string]any
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := mgr.UpdateProduct(c.Request.Context(), c.Param("id"), patch); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
	}
}

// DELETE /admin/products/:id
func DeleteProduct(mgr *admin.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := mgr.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}

// POST /admin/products/:id/image — multipart upload, returns public URL.
func UploadProductImage(mgr *admin.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}
		defer file.Close()

		url, err := mgr.UploadProductImage(c.Request.Context(), c.Param("id"), fileHeader.Header.Get("Content-Type"), file)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

// GET /admin/orders
func ListOrders(mgr *admin.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := mgr.Orders(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders/:id
func OrderDetails(mgr *admin.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		details, err := mgr.OrderDetails(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, details)
	}
}

type statusInput struct {
	Status string `json:"status" binding:"required"`
}

// PUT /admin/orders/:id/status
func UpdateOrderStatus(mgr *admin.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input statusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := mgr.UpdateOrderStatus(c.Request.Context(), c.Param("id"), input.Status); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
	}
}

// GET /admin/stats
func DashboardStats(mgr *admin.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := mgr.DashboardStats(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /admin/products/export
func ExportProducts(mgr *admin.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", xlsxContentType)
		if err := mgr.ExportProductsXLSX(c.Request.Context(), c.Writer); err != nil {
			respond.Error(c, err)
			return
		}
	}
}

// GET /admin/orders/export
func ExportOrders(mgr *admin.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", xlsxContentType)
		if err := mgr.ExportOrdersXLSX(c.Request.Context(), c.Writer); err != nil {
			respond.Error(c, err)
			return
		}
	}
}
