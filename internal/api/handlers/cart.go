package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vetdesk/posapi/internal/config"
	"github.com/vetdesk/posapi/internal/domain"
	"github.com/vetdesk/posapi/internal/pos"
	"github.com/vetdesk/posapi/pkg/errors"
)

// AddItemRequest is the variant descriptor placed into the cart. It accepts
// both the normalized shape served by the search endpoint and raw backend
// rows (current_sell_price, total_stock/current_stock) so scan guns and older
// register builds keep working.
type AddItemRequest struct {
	ID               string           `json:"id" binding:"required"`
	ProductID        string           `json:"product_id"`
	ProductName      string           `json:"product_name" binding:"required"`
	VariantName      string           `json:"variant_name"`
	SellPrice        *decimal.Decimal `json:"sell_price"`
	CurrentSellPrice *decimal.Decimal `json:"current_sell_price"`
	Stock            *int             `json:"stock"`
	TotalStock       *int             `json:"total_stock"`
	CurrentStock     *int             `json:"current_stock"`
	Barcode          string           `json:"barcode"`
}

func (r AddItemRequest) toVariant() (domain.Variant, error) {
	var price decimal.Decimal
	switch {
	case r.SellPrice != nil:
		price = *r.SellPrice
	case r.CurrentSellPrice != nil:
		price = *r.CurrentSellPrice
	default:
		return domain.Variant{}, &errors.ErrValidation{Message: "sell_price is required"}
	}

	stock := 0
	switch {
	case r.Stock != nil:
		stock = *r.Stock
	case r.TotalStock != nil:
		stock = *r.TotalStock
	case r.CurrentStock != nil:
		stock = *r.CurrentStock
	}

	return domain.Variant{
		ID:          r.ID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		VariantName: r.VariantName,
		SellPrice:   price,
		Stock:       stock,
		Barcode:     r.Barcode,
	}, nil
}

// UpdateLineRequest is the quantity mutation body: either a delta or a raw
// quantity entry, not both
type UpdateLineRequest struct {
	Delta    *int    `json:"delta"`
	Quantity *string `json:"quantity"`
}

// mutateCart runs a cart mutation under the session lock, refusing it while
// a checkout submission is in flight, and returns the fresh cart view.
func mutateCart(store pos.SessionStore, id uuid.UUID, fn func(session *pos.Session) error) (CartResponse, error) {
	var resp CartResponse
	err := store.With(id, func(session *pos.Session) error {
		if session.CheckoutPending {
			return &errors.ErrCheckoutInProgress{SessionID: id.String()}
		}
		if err := fn(session); err != nil {
			return err
		}
		resp = cartResponse(session)
		return nil
	})
	return resp, err
}

// HandleAddCartItem handles POST /v1/sessions/:id/cart/items
func HandleAddCartItem(store pos.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseSessionID(c)
		if !ok {
			return
		}

		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		variant, err := req.toVariant()
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp, err := mutateCart(store, id, func(session *pos.Session) error {
			return session.Cart.Add(variant)
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		logger.Info("Cart line added",
			zap.String("session_id", id.String()),
			zap.String("variant_id", variant.ID),
		)
		c.JSON(http.StatusOK, resp)
	}
}

// HandleScanCartItem handles POST /v1/sessions/:id/cart/scan: looks the
// barcode up on the backend and adds the exact match to the cart.
func HandleScanCartItem(cfg *config.Config, store pos.SessionStore, backend VariantSearcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseSessionID(c)
		if !ok {
			return
		}

		var req struct {
			Barcode string `json:"barcode" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		barcode := strings.TrimSpace(req.Barcode)

		variants, err := backend.SearchVariants(c.Request.Context(), barcode, cfg.POS.SearchPageSize)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		var match *domain.Variant
		for i := range variants {
			if variants[i].Barcode == barcode {
				match = &variants[i]
				break
			}
		}
		if match == nil {
			respondError(c, logger, &errors.ErrNotFound{Resource: "barcode", ID: barcode})
			return
		}

		resp, err := mutateCart(store, id, func(session *pos.Session) error {
			return session.Cart.Add(*match)
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		logger.Info("Cart line added by scan",
			zap.String("session_id", id.String()),
			zap.String("variant_id", match.ID),
			zap.String("barcode", barcode),
		)
		c.JSON(http.StatusOK, resp)
	}
}

// HandleUpdateCartItem handles PATCH /v1/sessions/:id/cart/items/:variantId
func HandleUpdateCartItem(store pos.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseSessionID(c)
		if !ok {
			return
		}
		variantID := c.Param("variantId")

		var req UpdateLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		if (req.Delta == nil) == (req.Quantity == nil) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "exactly one of delta or quantity is required"})
			return
		}

		var warning string
		resp, err := mutateCart(store, id, func(session *pos.Session) error {
			if req.Delta != nil {
				return session.Cart.UpdateQuantity(variantID, *req.Delta)
			}
			// Raw quantity entry: clamping at the ceiling is a success
			// with a warning, not a rejection
			_, err := session.Cart.SetQuantity(variantID, *req.Quantity)
			if stockErr, ok := err.(*errors.ErrStockExceeded); ok {
				warning = stockErr.Error()
				return nil
			}
			return err
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		resp.Warning = warning
		c.JSON(http.StatusOK, resp)
	}
}

// HandleRemoveCartItem handles DELETE /v1/sessions/:id/cart/items/:variantId.
// Removal is idempotent: deleting an absent line succeeds.
func HandleRemoveCartItem(store pos.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseSessionID(c)
		if !ok {
			return
		}
		variantID := c.Param("variantId")

		resp, err := mutateCart(store, id, func(session *pos.Session) error {
			session.Cart.Remove(variantID)
			return nil
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleResetCart handles POST /v1/sessions/:id/cart/reset
func HandleResetCart(store pos.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseSessionID(c)
		if !ok {
			return
		}

		resp, err := mutateCart(store, id, func(session *pos.Session) error {
			session.Cart.Clear()
			return nil
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		logger.Info("Cart reset", zap.String("session_id", id.String()))
		c.JSON(http.StatusOK, resp)
	}
}
