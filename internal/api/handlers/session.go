package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vetdesk/posapi/internal/config"
	"github.com/vetdesk/posapi/internal/domain"
	"github.com/vetdesk/posapi/internal/pos"
)

// HandleOpenSession handles POST /v1/sessions
func HandleOpenSession(cfg *config.Config, store pos.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := store.Create(domain.ParseCurrency(cfg.Currency))
		logger.Info("POS session opened", zap.String("session_id", id.String()))
		c.JSON(http.StatusCreated, gin.H{
			"session_id": id.String(),
			"currency":   cfg.Currency,
		})
	}
}

// HandleGetSession handles GET /v1/sessions/:id
func HandleGetSession(store pos.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseSessionID(c)
		if !ok {
			return
		}

		var resp CartResponse
		err := store.With(id, func(session *pos.Session) error {
			resp = cartResponse(session)
			return nil
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleCloseSession handles DELETE /v1/sessions/:id. Closing an unknown
// session succeeds; the cart is gone either way.
func HandleCloseSession(store pos.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseSessionID(c)
		if !ok {
			return
		}
		store.Delete(id)
		logger.Info("POS session closed", zap.String("session_id", id.String()))
		c.Status(http.StatusNoContent)
	}
}
