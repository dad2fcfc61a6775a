package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vetdesk/posapi/internal/clinic"
	"github.com/vetdesk/posapi/internal/domain"
	"github.com/vetdesk/posapi/internal/pos"
	"github.com/vetdesk/posapi/pkg/errors"
)

// CartLineResponse is one cart line as shown to the register
type CartLineResponse struct {
	VariantID   string          `json:"variant_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name"`
	Barcode     string          `json:"barcode,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	MaxStock    int             `json:"max_stock"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartResponse is the full cart view returned after every mutation
type CartResponse struct {
	SessionID       string             `json:"session_id"`
	Lines           []CartLineResponse `json:"lines"`
	ItemCount       int                `json:"item_count"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	Currency        string             `json:"currency"`
	CheckoutPending bool               `json:"checkout_pending"`

	// Warning is set when an operation succeeded with a caveat, e.g. a
	// quantity entry clamped down to the stock ceiling.
	Warning string `json:"warning,omitempty"`
}

// VariantResponse is the normalized variant shape served by the search
// endpoint and accepted back by the add-to-cart endpoint
type VariantResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	Stock       int             `json:"stock"`
	Barcode     string          `json:"barcode,omitempty"`
}

func variantResponse(v domain.Variant) VariantResponse {
	return VariantResponse{
		ID:          v.ID,
		ProductID:   v.ProductID,
		ProductName: v.ProductName,
		VariantName: v.VariantName,
		SellPrice:   v.SellPrice,
		Stock:       v.Stock,
		Barcode:     v.Barcode,
	}
}

func cartResponse(session *pos.Session) CartResponse {
	lines := session.Cart.Lines()
	out := CartResponse{
		SessionID:       session.ID.String(),
		Lines:           make([]CartLineResponse, 0, len(lines)),
		ItemCount:       session.Cart.ItemCount(),
		TotalAmount:     session.Cart.Total(),
		Currency:        session.Cart.Currency().String(),
		CheckoutPending: session.CheckoutPending,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, CartLineResponse{
			VariantID:   l.VariantID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			VariantName: l.VariantName,
			Barcode:     l.Barcode,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			MaxStock:    l.MaxStock,
			LineTotal:   l.LineTotal(),
		})
	}
	return out
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps the error taxonomy to HTTP statuses. Cart state is never
// partially mutated by a rejected operation, so every one of these leaves the
// register interactive.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrStockExceeded:
		c.JSON(http.StatusConflict, gin.H{
			"error":     e.Error(),
			"max_stock": e.MaxStock,
		})
	case *errors.ErrNotInStock:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrCartEmpty:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrInsufficientPayment:
		c.JSON(http.StatusConflict, gin.H{
			"error":    e.Error(),
			"due":      e.Due,
			"tendered": e.Tendered,
		})
	case *errors.ErrCheckoutInProgress:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrConflict:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrInvalidQuantity:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": e.Error()})
	case *errors.ErrValidation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": e.Error(), "fields": e.Fields})
	case *clinic.APIError:
		// Backend rejection is retryable; the cart was left untouched
		c.JSON(http.StatusBadGateway, gin.H{
			"error":          e.Message,
			"backend_status": e.StatusCode,
			"retryable":      true,
		})
	default:
		logger.Error("Unhandled error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
