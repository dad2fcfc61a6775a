package clinic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SaleRequest is the sale-creation payload for the clinic backend. It is
// built once at checkout time and never stored locally.
type SaleRequest struct {
	SaleDate       string          `json:"saleDate"`
	CustomerName   string          `json:"customerName,omitempty"`
	CustomerPhone  string          `json:"customerPhone,omitempty"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
	PaymentMethod  string          `json:"paymentMethod"`
	IsPaid         bool            `json:"isPaid"`
	Notes          string          `json:"notes,omitempty"`
	SaleItems      []SaleItem      `json:"saleItems"`
}

// SaleItem is one sale line, mirroring a cart line at submission time
type SaleItem struct {
	ProductVariantID string          `json:"productVariantId"`
	Quantity         int             `json:"quantity"`
	UnitSellPrice    decimal.Decimal `json:"unitSellPrice"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
}

// Sale is the backend's record of a committed sale
type Sale struct {
	ID          string          `json:"id"`
	SaleNumber  string          `json:"saleNumber"`
	SaleDate    string          `json:"saleDate"`
	FinalAmount decimal.Decimal `json:"finalAmount"`
}

// APIError carries a backend rejection (stock conflict, validation, outage).
// The backend is the final arbiter of stock at commit time, so callers treat
// these as retryable: the cart is preserved and the user resubmits manually.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clinic backend returned %d: %s", e.StatusCode, e.Message)
}
