package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vetdesk/posapi/internal/config"
	"github.com/vetdesk/posapi/internal/domain"
)

// VariantSearcher is the slice of the clinic client the search surface needs
type VariantSearcher interface {
	SearchVariants(ctx context.Context, term string, pageSize int) ([]domain.Variant, error)
}

// HandleSearchProducts handles GET /v1/products/search (proxied to the
// clinic backend, normalized to one variant shape)
func HandleSearchProducts(cfg *config.Config, backend VariantSearcher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		term := strings.TrimSpace(c.Query("term"))
		if term == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "term is required"})
			return
		}

		pageSize := cfg.POS.SearchPageSize
		if p := c.Query("page_size"); p != "" {
			if n, err := strconv.Atoi(p); err == nil && n >= 1 && n <= 100 {
				pageSize = n
			}
		}

		variants, err := backend.SearchVariants(c.Request.Context(), term, pageSize)
		if err != nil {
			logger.Warn("Variant search failed", zap.Error(err), zap.String("term", term))
			respondError(c, logger, err)
			return
		}

		items := make([]VariantResponse, 0, len(variants))
		for _, v := range variants {
			items = append(items, variantResponse(v))
		}
		c.JSON(http.StatusOK, gin.H{
			"items": items,
			"meta":  gin.H{"term": term, "count": len(items)},
		})
	}
}
