package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vetdesk/posapi/internal/api/middleware"
	"github.com/vetdesk/posapi/internal/domain"
	"github.com/vetdesk/posapi/internal/service"
)

// CheckoutProcessor is implemented by the checkout service
type CheckoutProcessor interface {
	Preview(sessionID uuid.UUID, method domain.PaymentMethod, amountPaid, discount decimal.Decimal) (*service.CheckoutPreview, error)
	ProcessSale(ctx context.Context, sessionID uuid.UUID, req service.CheckoutRequest) (*service.CheckoutResult, error)
}

// HandleCheckoutPreview handles GET /v1/sessions/:id/checkout/preview:
// the amount due and change display as the cashier enters the payment.
func HandleCheckoutPreview(checkout CheckoutProcessor, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseSessionID(c)
		if !ok {
			return
		}

		method := domain.PaymentMethod(strings.ToLower(c.DefaultQuery("payment_method", string(domain.PaymentMethodCash))))

		amountPaid, err := decimalQuery(c, "amount_paid")
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "amount_paid must be a number"})
			return
		}
		discount, err := decimalQuery(c, "discount_amount")
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "discount_amount must be a number"})
			return
		}

		preview, err := checkout.Preview(id, method, amountPaid, discount)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, preview)
	}
}

// HandleCheckout handles POST /v1/sessions/:id/checkout
func HandleCheckout(checkout CheckoutProcessor, idemStore *middleware.IdempotencyStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseSessionID(c)
		if !ok {
			return
		}

		var req service.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		result, err := checkout.ProcessSale(c.Request.Context(), id, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		// Store the response for replay if the caller sent an idempotency key
		if key, requestHash := middleware.GetIdempotencyInfo(c); key != "" {
			if payload, marshalErr := json.Marshal(result); marshalErr == nil {
				idemStore.Save(key, requestHash, payload)
			} else {
				logger.Warn("Failed to store idempotent checkout response", zap.Error(marshalErr))
			}
		}

		c.JSON(http.StatusOK, result)
	}
}

func decimalQuery(c *gin.Context, name string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
