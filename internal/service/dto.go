package service

import (
	"github.com/shopspring/decimal"

	"github.com/vetdesk/posapi/internal/clinic"
	"github.com/vetdesk/posapi/internal/domain"
)

// CheckoutRequest carries the cashier-entered fields for one sale submission.
// It is ephemeral: built at submit time from the cart plus these inputs,
// never stored.
type CheckoutRequest struct {
	CustomerName   string               `json:"customer_name"`
	CustomerPhone  string               `json:"customer_phone"`
	PaymentMethod  domain.PaymentMethod `json:"payment_method" binding:"required"`
	AmountPaid     decimal.Decimal      `json:"amount_paid"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	Notes          string               `json:"notes"`
}

// CheckoutResult is what the register shows after a successful submission
type CheckoutResult struct {
	Sale           *clinic.Sale         `json:"sale"`
	TotalAmount    decimal.Decimal      `json:"total_amount"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	FinalAmount    decimal.Decimal      `json:"final_amount"`
	AmountPaid     decimal.Decimal      `json:"amount_paid"`
	Change         decimal.Decimal      `json:"change"`
	PaymentMethod  domain.PaymentMethod `json:"payment_method"`
	IsPaid         bool                 `json:"is_paid"`
	ItemCount      int                  `json:"item_count"`
}

// CheckoutPreview is the pre-submission display: amount due and change for
// the tendered amount as entered so far
type CheckoutPreview struct {
	TotalAmount    decimal.Decimal      `json:"total_amount"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	AmountDue      decimal.Decimal      `json:"amount_due"`
	AmountPaid     decimal.Decimal      `json:"amount_paid"`
	Change         decimal.Decimal      `json:"change"`
	PaymentMethod  domain.PaymentMethod `json:"payment_method"`
	ItemCount      int                  `json:"item_count"`
}
