package errors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrStockExceeded is returned when a cart operation would push a line's
// quantity past its recorded stock ceiling
type ErrStockExceeded struct {
	VariantID string
	Requested int
	MaxStock  int
}

func (e *ErrStockExceeded) Error() string {
	return fmt.Sprintf("requested quantity %d exceeds available stock %d for variant %s", e.Requested, e.MaxStock, e.VariantID)
}

// ErrNotInStock is returned when adding a variant that has no stock at all
type ErrNotInStock struct {
	VariantID string
}

func (e *ErrNotInStock) Error() string {
	return fmt.Sprintf("variant %s is not in stock", e.VariantID)
}

// ErrInvalidQuantity is returned when a quantity entry is unparseable or non-positive
type ErrInvalidQuantity struct {
	Raw string
}

func (e *ErrInvalidQuantity) Error() string {
	return fmt.Sprintf("invalid quantity: %q", e.Raw)
}

// ErrCartEmpty is returned when checkout is attempted with no cart lines
type ErrCartEmpty struct{}

func (e *ErrCartEmpty) Error() string {
	return "cart is empty"
}

// ErrInsufficientPayment is returned when cash tendered does not cover the amount due
type ErrInsufficientPayment struct {
	Tendered decimal.Decimal
	Due      decimal.Decimal
}

func (e *ErrInsufficientPayment) Error() string {
	return fmt.Sprintf("insufficient payment: tendered %s, due %s", e.Tendered.String(), e.Due.String())
}

// ErrCheckoutInProgress is returned when a sale submission is already in
// flight for the session
type ErrCheckoutInProgress struct {
	SessionID string
}

func (e *ErrCheckoutInProgress) Error() string {
	return fmt.Sprintf("checkout already in progress for session %s", e.SessionID)
}

// ErrValidation is returned when request validation fails
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrConflict is returned when there's a conflict (e.g., idempotency)
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}
