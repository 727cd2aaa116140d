// Package respond maps engine errors onto HTTP responses so every
// controller reports failures the same way.
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhammed1675/ScentsByMotun/checkout"
	"github.com/muhammed1675/ScentsByMotun/errs"
	"github.com/muhammed1675/ScentsByMotun/gateway"
	"github.com/muhammed1675/ScentsByMotun/payments"
)

// Error writes err as a JSON failure with the right status code.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrAdminRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrNotConfirmed), errors.Is(err, payments.ErrWindowClosed):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	default:
		var remote *gateway.RemoteError
		if errors.As(err, &remote) {
			c.JSON(http.StatusBadGateway, gin.H{"error": remote.Message, "status": remote.Status})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
