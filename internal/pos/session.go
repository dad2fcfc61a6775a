package pos

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/posapi/internal/domain"
)

// Session is one register's active sale. The cart lives only here, in
// memory; the durable sale record belongs to the clinic backend once
// checkout succeeds.
type Session struct {
	ID         uuid.UUID
	Cart       *domain.Cart
	CreatedAt  time.Time
	LastUsedAt time.Time

	// CheckoutPending blocks cart mutation and resubmission while a
	// sale-creation call is in flight.
	CheckoutPending bool
}
