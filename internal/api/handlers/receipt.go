package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"github.com/vetdesk/posapi/internal/domain"
	"github.com/vetdesk/posapi/internal/pos"
	"github.com/vetdesk/posapi/internal/service"
)

// HandleReceipt handles GET /v1/sessions/:id/receipt: a plain-text slip of
// the current cart, for the register's preview pane.
func HandleReceipt(store pos.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseSessionID(c)
		if !ok {
			return
		}

		var (
			lines []domain.CartLine
			unit  currency.Unit
		)
		err := store.With(id, func(session *pos.Session) error {
			lines = session.Cart.Lines()
			unit = session.Cart.Currency()
			return nil
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.String(http.StatusOK, service.RenderReceipt(lines, unit, time.Now()))
	}
}
