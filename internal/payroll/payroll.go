package payroll

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("payroll adjustment not found")
	ErrUnknownKind = errors.New("unknown payroll adjustment kind")

	// ErrConflict is returned when an edit would give an employee a second
	// adjustment of the same kind on one day.
	ErrConflict = errors.New("payroll adjustment already exists for this employee and date")
)

// Kind is one of the four employee pay adjustments recorded per day.
type Kind string

const (
	KindAdvance  Kind = "advance"
	KindDoubling Kind = "doubling"
	KindExtra    Kind = "extra"
	KindBonus    Kind = "bonus"
)

// Kinds lists every adjustment kind.
var Kinds = []Kind{KindAdvance, KindDoubling, KindExtra, KindBonus}

func (k Kind) Valid() bool {
	switch k {
	case KindAdvance, KindDoubling, KindExtra, KindBonus:
		return true
	}

	return false
}

// Adjustment is a pay modification for one employee on one day. There is at
// most one adjustment of a kind per (employee, date).
type Adjustment struct {
	ID        uuid.UUID
	Kind      Kind
	Employee  string
	Amount    decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
}
