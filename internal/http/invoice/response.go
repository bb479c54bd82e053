package invoice

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/recette/internal/datekey"
	"github.com/MrJamesThe3rd/recette/internal/invoice"
	"github.com/MrJamesThe3rd/recette/internal/money"
)

type invoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	Supplier      string                `json:"supplier"`
	Amount        string                `json:"amount"`
	IssueDate     string                `json:"issue_date"`
	Status        invoice.Status        `json:"status"`
	PaymentMethod invoice.PaymentMethod `json:"payment_method,omitempty"`
	PaidDate      string                `json:"paid_date,omitempty"`
	PaidBy        string                `json:"paid_by,omitempty"`
	DocType       string                `json:"doc_type,omitempty"`
	DocNumber     string                `json:"doc_number,omitempty"`
	Photos        []string              `json:"photos"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     *time.Time            `json:"updated_at,omitempty"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:            inv.ID,
		Supplier:      inv.Supplier,
		Amount:        money.Format(inv.Amount),
		IssueDate:     inv.IssueDate.Format(time.DateOnly),
		Status:        inv.Status,
		PaymentMethod: inv.PaymentMethod,
		PaidDate:      inv.PaidDate,
		PaidBy:        inv.PaidBy,
		DocType:       inv.DocType,
		DocNumber:     inv.DocNumber,
		Photos:        inv.Attachments(),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}

	if day, ok := datekey.Normalize(inv.PaidDate); ok {
		resp.PaidDate = day
	}

	return resp
}

func toResponseList(invoices []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	return resp
}
