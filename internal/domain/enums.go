package domain

// PaymentMethod represents how a sale is settled
type PaymentMethod string

const (
	// PaymentMethodCash - settled at the register, change returned to the customer
	PaymentMethodCash PaymentMethod = "cash"
	// PaymentMethodCredit - settled later against the customer's account
	PaymentMethodCredit PaymentMethod = "credit"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCredit:
		return true
	default:
		return false
	}
}

// Settled reports whether a sale with this method is paid at submission time.
// Credit sales always submit unpaid; reconciliation happens on the backend.
func (m PaymentMethod) Settled() bool {
	return m == PaymentMethodCash
}
