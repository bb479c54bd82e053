package invoice

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("invoice not found")
	ErrInvalidStatus = errors.New("invalid invoice status transition")
)

// Status represents the payment state of an invoice.
type Status string

const (
	StatusUnpaid Status = "unpaid"
	StatusPaid   Status = "paid"
)

// PaymentMethod is how a paid invoice was settled.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCheque   PaymentMethod = "cheque"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCard     PaymentMethod = "card"
)

// Invoice is a supplier bill.
//
// PaidDate is kept as written in the legacy text column; it may hold a bare
// date or a full timestamp and is normalized when invoices are grouped by day.
type Invoice struct {
	ID            uuid.UUID
	Supplier      string
	Amount        decimal.Decimal
	IssueDate     time.Time
	Status        Status
	PaymentMethod PaymentMethod
	PaidDate      string
	PaidBy        string
	DocType       string
	DocNumber     string
	Photo         string // primary photo
	Photos        []string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Attachments returns the primary photo followed by the other photos, without
// blanks or duplicates.
func (i *Invoice) Attachments() []string {
	refs := make([]string, 0, len(i.Photos)+1)
	seen := make(map[string]struct{}, len(i.Photos)+1)

	for _, ref := range append([]string{i.Photo}, i.Photos...) {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}

		if _, dup := seen[ref]; dup {
			continue
		}

		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}

	return refs
}
