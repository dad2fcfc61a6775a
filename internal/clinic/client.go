package clinic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/vetdesk/posapi/internal/config"
	"github.com/vetdesk/posapi/internal/domain"
)

// Client calls the clinic backend REST API with a service key
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a clinic backend HTTP client
func NewClient(cfg config.ClinicConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// SearchVariants queries the backend's product variant search.
// The response is normalized to domain.Variant regardless of wire envelope.
func (c *Client) SearchVariants(ctx context.Context, term string, pageSize int) ([]domain.Variant, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("clinic client not configured: base URL required")
	}
	u, err := url.Parse(c.baseURL + "/api/product-variants/search")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("searchTerm", term)
	if pageSize > 0 {
		q.Set("pageSize", fmt.Sprintf("%d", pageSize))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Variant search request failed", zap.Error(err), zap.String("term", term))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: decodeErrorMessage(body)}
	}

	return decodeVariantList(body)
}

// CreateSale submits a sale to the backend, the sole owner of the stock
// ledger and payment records. Non-2xx responses come back as *APIError.
func (c *Client) CreateSale(ctx context.Context, sale SaleRequest) (*Sale, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("clinic client not configured: base URL required")
	}

	payload, err := json.Marshal(sale)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sale request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sales", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Sale creation request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sale response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: decodeErrorMessage(body)}
	}

	return decodeSale(body)
}
