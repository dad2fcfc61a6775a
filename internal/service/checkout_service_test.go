package service_test

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"github.com/vetdesk/posapi/internal/clinic"
	"github.com/vetdesk/posapi/internal/domain"
	"github.com/vetdesk/posapi/internal/pos"
	"github.com/vetdesk/posapi/internal/service"
	"github.com/vetdesk/posapi/pkg/errors"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls []clinic.SaleRequest
	sale  *clinic.Sale
	err   error
}

func (f *fakeBackend) CreateSale(_ context.Context, req clinic.SaleRequest) (*clinic.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.sale, nil
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func shampoo() domain.Variant {
	return domain.Variant{
		ID:          "var-a",
		ProductID:   "prod-1",
		ProductName: "Flea Shampoo",
		VariantName: "250ml",
		SellPrice:   decimal.NewFromFloat(12.50),
		Stock:       5,
	}
}

func newFixture(t *testing.T) (pos.SessionStore, uuid.UUID, *fakeBackend, *zap.Logger) {
	t.Helper()
	store := pos.NewMemoryStore()
	id := store.Create(currency.USD)
	backend := &fakeBackend{sale: &clinic.Sale{ID: "sale-1", SaleNumber: "S-0042"}}
	return store, id, backend, zap.NewNop()
}

func fillCart(t *testing.T, store pos.SessionStore, id uuid.UUID, qty int) {
	t.Helper()
	require.NoError(t, store.With(id, func(session *pos.Session) error {
		if err := session.Cart.Add(shampoo()); err != nil {
			return err
		}
		_, err := session.Cart.SetQuantity("var-a", strconv.Itoa(qty))
		return err
	}))
}

func TestChangeFor(t *testing.T) {
	due := decimal.NewFromFloat(62.50)

	tests := []struct {
		name   string
		method domain.PaymentMethod
		paid   decimal.Decimal
		want   decimal.Decimal
	}{
		{name: "cash exact", method: domain.PaymentMethodCash, paid: decimal.NewFromFloat(62.50), want: decimal.Zero},
		{name: "cash over", method: domain.PaymentMethodCash, paid: decimal.NewFromFloat(70), want: decimal.NewFromFloat(7.50)},
		{name: "cash under floors at zero", method: domain.PaymentMethodCash, paid: decimal.NewFromFloat(50), want: decimal.Zero},
		{name: "credit never produces change", method: domain.PaymentMethodCredit, paid: decimal.NewFromFloat(100), want: decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ChangeFor(tt.method, tt.paid, due)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestProcessSaleValidation(t *testing.T) {
	t.Run("empty cart never submits", func(t *testing.T) {
		store, id, backend, logger := newFixture(t)
		svc := service.NewCheckoutService(store, backend, logger)

		_, err := svc.ProcessSale(context.Background(), id, service.CheckoutRequest{
			PaymentMethod: domain.PaymentMethodCash,
			AmountPaid:    decimal.NewFromFloat(100),
		})

		var cartEmpty *errors.ErrCartEmpty
		require.ErrorAs(t, err, &cartEmpty)
		assert.Equal(t, 0, backend.callCount())
	})

	t.Run("insufficient cash never submits and preserves the cart", func(t *testing.T) {
		store, id, backend, logger := newFixture(t)
		svc := service.NewCheckoutService(store, backend, logger)
		fillCart(t, store, id, 5) // total 62.50

		_, err := svc.ProcessSale(context.Background(), id, service.CheckoutRequest{
			PaymentMethod: domain.PaymentMethodCash,
			AmountPaid:    decimal.NewFromFloat(50), // 4 x 12.50
		})

		var insufficient *errors.ErrInsufficientPayment
		require.ErrorAs(t, err, &insufficient)
		assert.True(t, insufficient.Due.Equal(decimal.NewFromFloat(62.50)))
		assert.Equal(t, 0, backend.callCount())

		require.NoError(t, store.With(id, func(session *pos.Session) error {
			assert.Equal(t, 5, session.Cart.ItemCount())
			return nil
		}))
	})

	t.Run("invalid payment method is rejected", func(t *testing.T) {
		store, id, backend, logger := newFixture(t)
		svc := service.NewCheckoutService(store, backend, logger)
		fillCart(t, store, id, 1)

		_, err := svc.ProcessSale(context.Background(), id, service.CheckoutRequest{
			PaymentMethod: "barter",
		})

		var validation *errors.ErrValidation
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, 0, backend.callCount())
	})

	t.Run("discount above total is rejected", func(t *testing.T) {
		store, id, backend, logger := newFixture(t)
		svc := service.NewCheckoutService(store, backend, logger)
		fillCart(t, store, id, 1)

		_, err := svc.ProcessSale(context.Background(), id, service.CheckoutRequest{
			PaymentMethod:  domain.PaymentMethodCash,
			AmountPaid:     decimal.NewFromFloat(100),
			DiscountAmount: decimal.NewFromFloat(500),
		})

		var validation *errors.ErrValidation
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, 0, backend.callCount())
	})

	t.Run("unknown session", func(t *testing.T) {
		store, _, backend, logger := newFixture(t)
		svc := service.NewCheckoutService(store, backend, logger)

		_, err := svc.ProcessSale(context.Background(), uuid.New(), service.CheckoutRequest{
			PaymentMethod: domain.PaymentMethodCash,
		})

		var notFound *errors.ErrNotFound
		require.ErrorAs(t, err, &notFound)
	})
}

func TestProcessSaleCash(t *testing.T) {
	store, id, backend, logger := newFixture(t)
	svc := service.NewCheckoutService(store, backend, logger)
	fillCart(t, store, id, 5) // total 62.50

	result, err := svc.ProcessSale(context.Background(), id, service.CheckoutRequest{
		CustomerName:  "Ada",
		CustomerPhone: "555-0101",
		PaymentMethod: domain.PaymentMethodCash,
		AmountPaid:    decimal.NewFromFloat(70),
	})

	require.NoError(t, err)
	require.Equal(t, 1, backend.callCount())

	submitted := backend.calls[0]
	assert.Equal(t, "Ada", submitted.CustomerName)
	assert.Equal(t, "cash", submitted.PaymentMethod)
	assert.True(t, submitted.IsPaid)
	assert.True(t, submitted.TotalAmount.Equal(decimal.NewFromFloat(62.50)))
	assert.True(t, submitted.FinalAmount.Equal(decimal.NewFromFloat(62.50)))
	require.Len(t, submitted.SaleItems, 1)
	assert.Equal(t, "var-a", submitted.SaleItems[0].ProductVariantID)
	assert.Equal(t, 5, submitted.SaleItems[0].Quantity)
	assert.True(t, submitted.SaleItems[0].UnitSellPrice.Equal(decimal.NewFromFloat(12.50)))
	assert.True(t, submitted.SaleItems[0].TotalPrice.Equal(decimal.NewFromFloat(62.50)))

	assert.Equal(t, "sale-1", result.Sale.ID)
	assert.True(t, result.Change.Equal(decimal.NewFromFloat(7.50)))
	assert.True(t, result.IsPaid)
	assert.Equal(t, 5, result.ItemCount)

	// the cart is cleared atomically after a successful checkout
	require.NoError(t, store.With(id, func(session *pos.Session) error {
		assert.True(t, session.Cart.Empty())
		return nil
	}))
}

func TestProcessSaleCredit(t *testing.T) {
	store, id, backend, logger := newFixture(t)
	svc := service.NewCheckoutService(store, backend, logger)
	fillCart(t, store, id, 2)

	// credit sales submit unpaid regardless of any tendered amount
	result, err := svc.ProcessSale(context.Background(), id, service.CheckoutRequest{
		PaymentMethod: domain.PaymentMethodCredit,
		AmountPaid:    decimal.NewFromFloat(5),
	})

	require.NoError(t, err)
	require.Equal(t, 1, backend.callCount())
	assert.False(t, backend.calls[0].IsPaid)
	assert.False(t, result.IsPaid)
	assert.True(t, result.Change.IsZero())
}

func TestProcessSaleDiscount(t *testing.T) {
	store, id, backend, logger := newFixture(t)
	svc := service.NewCheckoutService(store, backend, logger)
	fillCart(t, store, id, 4) // total 50.00

	// cash sufficiency and change run against the discounted amount due
	result, err := svc.ProcessSale(context.Background(), id, service.CheckoutRequest{
		PaymentMethod:  domain.PaymentMethodCash,
		AmountPaid:     decimal.NewFromFloat(45),
		DiscountAmount: decimal.NewFromFloat(10),
	})

	require.NoError(t, err)
	submitted := backend.calls[0]
	assert.True(t, submitted.TotalAmount.Equal(decimal.NewFromFloat(50)))
	assert.True(t, submitted.DiscountAmount.Equal(decimal.NewFromFloat(10)))
	assert.True(t, submitted.FinalAmount.Equal(decimal.NewFromFloat(40)))
	assert.True(t, result.Change.Equal(decimal.NewFromFloat(5)))
}

func TestProcessSaleBackendFailure(t *testing.T) {
	store, id, backend, logger := newFixture(t)
	backend.err = &clinic.APIError{StatusCode: http.StatusConflict, Message: "variant var-a is out of stock"}
	svc := service.NewCheckoutService(store, backend, logger)
	fillCart(t, store, id, 5)

	_, err := svc.ProcessSale(context.Background(), id, service.CheckoutRequest{
		PaymentMethod: domain.PaymentMethodCash,
		AmountPaid:    decimal.NewFromFloat(100),
	})

	// the backend is the final arbiter of stock; its rejection surfaces
	// as-is and the cart stays intact for a manual retry
	var apiErr *clinic.APIError
	require.ErrorAs(t, err, &apiErr)
	require.NoError(t, store.With(id, func(session *pos.Session) error {
		assert.Equal(t, 5, session.Cart.ItemCount())
		return nil
	}))

	// the pending flag is released, so the retry can go through
	backend.err = nil
	_, err = svc.ProcessSale(context.Background(), id, service.CheckoutRequest{
		PaymentMethod: domain.PaymentMethodCash,
		AmountPaid:    decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
}

func TestPreview(t *testing.T) {
	store, id, backend, logger := newFixture(t)
	svc := service.NewCheckoutService(store, backend, logger)

	t.Run("empty cart never opens the payment form", func(t *testing.T) {
		_, err := svc.Preview(id, domain.PaymentMethodCash, decimal.Zero, decimal.Zero)

		var cartEmpty *errors.ErrCartEmpty
		require.ErrorAs(t, err, &cartEmpty)
		assert.Equal(t, 0, backend.callCount())
	})

	t.Run("cash change for the tendered amount", func(t *testing.T) {
		fillCart(t, store, id, 5)

		preview, err := svc.Preview(id, domain.PaymentMethodCash, decimal.NewFromFloat(70), decimal.Zero)

		require.NoError(t, err)
		assert.True(t, preview.TotalAmount.Equal(decimal.NewFromFloat(62.50)))
		assert.True(t, preview.AmountDue.Equal(decimal.NewFromFloat(62.50)))
		assert.True(t, preview.Change.Equal(decimal.NewFromFloat(7.50)))
		assert.Equal(t, 5, preview.ItemCount)
		assert.Equal(t, 0, backend.callCount(), "preview must not submit")
	})

	t.Run("credit preview reports zero change", func(t *testing.T) {
		preview, err := svc.Preview(id, domain.PaymentMethodCredit, decimal.NewFromFloat(70), decimal.Zero)

		require.NoError(t, err)
		assert.True(t, preview.Change.IsZero())
	})
}
