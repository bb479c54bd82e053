package deposit

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("deposit not found")

// Deposit is cash taken from the register to the bank. Reference is set for
// deposits imported from a bank statement and keeps re-imports idempotent.
type Deposit struct {
	ID        uuid.UUID
	Amount    decimal.Decimal
	Date      time.Time
	Note      string
	Reference string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
