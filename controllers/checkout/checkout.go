package checkoutControllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muhammed1675/ScentsByMotun/checkout"
	"github.com/muhammed1675/ScentsByMotun/controllers/respond"
	"github.com/muhammed1675/ScentsByMotun/payments"
	"github.com/muhammed1675/ScentsByMotun/session"
)

// paymentWindow bounds how long a parked checkout waits for the page.
const paymentWindow = 15 * time.Minute

// POST /checkout/orders
func CreateOrder(orch *checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var extra map[string]any
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&extra); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
				return
			}
		}

		order, err := orch.CreateOrder(c.Request.Context(), extra)
		if err != nil {
			// A partial item set still comes with a valid pending order;
			// hand it back so the caller can reconcile.
			if order != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "order": order})
				return
			}
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// GET /checkout/orders
func ListOrders(orch *checkout.Manager, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Current()
		if s == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		orders, err := orch.UserOrders(c.Request.Context(), s.User.ID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /checkout/orders/:id
func GetOrder(orch *checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orch.Order(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		items, err := orch.OrderItems(c.Request.Context(), order.ID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
	}
}

type payInput struct {
	OrderID string  `json:"order_id" binding:"required"`
	Email   string  `json:"email" binding:"required,email"`
	Amount  float64 `json:"amount" binding:"required"`
}

// Pay parks a checkout with the inline bridge and returns the widget
// parameters for the page to open. Settlement runs in the background and
// finishes when the page reports back through Complete or Close.
//
// POST /checkout/pay
func Pay(orch *checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input payInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		co, err := orch.CheckoutParams(input.Email, input.Amount)
		if err != nil {
			respond.Error(c, err)
			return
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), paymentWindow)
			defer cancel()
			if _, err := orch.Settle(ctx, co, input.OrderID); err != nil {
				if errors.Is(err, payments.ErrWindowClosed) {
					log.Printf("[Checkout] payment window closed for order %s", input.OrderID)
					return
				}
				log.Printf("[Checkout] payment for order %s not confirmed: %v", input.OrderID, err)
			}
		}()

		c.JSON(http.StatusOK, co)
	}
}

// POST /checkout/pay/:reference/complete — the widget's success callback.
func CompletePayment(bridge *payments.InlineBridge) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := bridge.Complete(c.Param("reference")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment received, verifying"})
	}
}

// POST /checkout/pay/:reference/close — the customer closed the window.
func ClosePayment(bridge *payments.InlineBridge) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := bridge.Close(c.Param("reference")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment window closed"})
	}
}
