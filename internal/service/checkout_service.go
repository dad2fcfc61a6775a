package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vetdesk/posapi/internal/clinic"
	"github.com/vetdesk/posapi/internal/domain"
	"github.com/vetdesk/posapi/internal/pos"
	"github.com/vetdesk/posapi/pkg/errors"
)

// SaleSubmitter is the slice of the clinic client the checkout flow needs
type SaleSubmitter interface {
	CreateSale(ctx context.Context, sale clinic.SaleRequest) (*clinic.Sale, error)
}

type checkoutService struct {
	store   pos.SessionStore
	backend SaleSubmitter
	logger  *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store pos.SessionStore, backend SaleSubmitter, logger *zap.Logger) *checkoutService {
	return &checkoutService{
		store:   store,
		backend: backend,
		logger:  logger,
	}
}

// ChangeFor computes the change to return for a tendered amount. Only cash
// produces change; other methods settle on the backend and return zero.
func ChangeFor(method domain.PaymentMethod, amountPaid, amountDue decimal.Decimal) decimal.Decimal {
	if method != domain.PaymentMethodCash {
		return decimal.Zero
	}
	change := amountPaid.Sub(amountDue)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

// Preview computes the amount due and change for the current cart without
// submitting anything. Rejects an empty cart so the register never opens the
// payment form on nothing.
func (s *checkoutService) Preview(sessionID uuid.UUID, method domain.PaymentMethod, amountPaid, discount decimal.Decimal) (*CheckoutPreview, error) {
	if !method.IsValid() {
		return nil, &errors.ErrValidation{Message: "payment method must be cash or credit"}
	}

	var preview *CheckoutPreview
	err := s.store.With(sessionID, func(session *pos.Session) error {
		if session.Cart.Empty() {
			return &errors.ErrCartEmpty{}
		}
		total := session.Cart.Total()
		if err := validateDiscount(discount, total); err != nil {
			return err
		}
		due := total.Sub(discount)
		preview = &CheckoutPreview{
			TotalAmount:    total,
			DiscountAmount: discount,
			AmountDue:      due,
			AmountPaid:     amountPaid,
			Change:         ChangeFor(method, amountPaid, due),
			PaymentMethod:  method,
			ItemCount:      session.Cart.ItemCount(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return preview, nil
}

// ProcessSale validates the checkout, submits the sale to the clinic backend
// and clears the cart on success. Every validation failure happens before the
// network call, so a rejected checkout never mutates anything. A backend
// failure leaves the cart intact for a manual retry; the backend stays the
// final arbiter of stock, so its rejection of a sale is surfaced as-is.
func (s *checkoutService) ProcessSale(ctx context.Context, sessionID uuid.UUID, req CheckoutRequest) (*CheckoutResult, error) {
	if !req.PaymentMethod.IsValid() {
		return nil, &errors.ErrValidation{Message: "payment method must be cash or credit"}
	}

	// Pending flag: one submission per session at a time
	if err := s.store.BeginCheckout(sessionID); err != nil {
		return nil, err
	}
	defer s.store.EndCheckout(sessionID)

	var (
		lines []domain.CartLine
		total decimal.Decimal
	)
	err := s.store.With(sessionID, func(session *pos.Session) error {
		if session.Cart.Empty() {
			return &errors.ErrCartEmpty{}
		}
		lines = session.Cart.Lines()
		total = session.Cart.Total()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := validateDiscount(req.DiscountAmount, total); err != nil {
		return nil, err
	}
	due := total.Sub(req.DiscountAmount)

	if req.PaymentMethod == domain.PaymentMethodCash && req.AmountPaid.LessThan(due) {
		return nil, &errors.ErrInsufficientPayment{Tendered: req.AmountPaid, Due: due}
	}

	saleReq := clinic.SaleRequest{
		SaleDate:       time.Now().Format("2006-01-02"),
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		TotalAmount:    total,
		DiscountAmount: req.DiscountAmount,
		FinalAmount:    due,
		PaymentMethod:  string(req.PaymentMethod),
		IsPaid:         req.PaymentMethod.Settled(),
		Notes:          req.Notes,
		SaleItems:      make([]clinic.SaleItem, 0, len(lines)),
	}
	for _, line := range lines {
		saleReq.SaleItems = append(saleReq.SaleItems, clinic.SaleItem{
			ProductVariantID: line.VariantID,
			Quantity:         line.Quantity,
			UnitSellPrice:    line.UnitPrice,
			TotalPrice:       line.LineTotal(),
		})
	}

	s.logger.Info("Submitting sale to clinic backend",
		zap.String("session_id", sessionID.String()),
		zap.Int("line_count", len(lines)),
		zap.String("final_amount", due.String()),
		zap.String("payment_method", string(req.PaymentMethod)),
	)
	sale, err := s.backend.CreateSale(ctx, saleReq)
	if err != nil {
		// Cart and inputs stay untouched so the cashier can retry
		s.logger.Error("Sale submission failed", zap.Error(err), zap.String("session_id", sessionID.String()))
		return nil, err
	}

	itemCount := 0
	for _, line := range lines {
		itemCount += line.Quantity
	}

	if err := s.store.With(sessionID, func(session *pos.Session) error {
		session.Cart.Clear()
		return nil
	}); err != nil {
		// Sale committed on the backend; a vanished session only loses the local cart
		s.logger.Warn("Failed to clear cart after sale", zap.Error(err), zap.String("session_id", sessionID.String()))
	}

	s.logger.Info("Sale created successfully",
		zap.String("sale_id", sale.ID),
		zap.String("sale_number", sale.SaleNumber),
		zap.String("session_id", sessionID.String()),
	)

	return &CheckoutResult{
		Sale:           sale,
		TotalAmount:    total,
		DiscountAmount: req.DiscountAmount,
		FinalAmount:    due,
		AmountPaid:     req.AmountPaid,
		Change:         ChangeFor(req.PaymentMethod, req.AmountPaid, due),
		PaymentMethod:  req.PaymentMethod,
		IsPaid:         req.PaymentMethod.Settled(),
		ItemCount:      itemCount,
	}, nil
}

func validateDiscount(discount, total decimal.Decimal) error {
	if discount.IsNegative() {
		return &errors.ErrValidation{Message: "discount cannot be negative"}
	}
	if discount.GreaterThan(total) {
		return &errors.ErrValidation{Message: "discount cannot exceed the cart total"}
	}
	return nil
}
