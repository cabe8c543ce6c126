package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the format of dates in API responses.
const DateLayout = "2006-01-02"

type InvoiceStatus int

const (
	InvoiceStatusPending InvoiceStatus = iota
	InvoiceStatusPaid
	InvoiceStatusVoid
)

func (s InvoiceStatus) String() string {
	switch s {
	case InvoiceStatusPending:
		return "Pending"
	case InvoiceStatusPaid:
		return "Paid"
	case InvoiceStatusVoid:
		return "Void"
	default:
		return "Unknown"
	}
}

// Invoice is the live state of a billable record.
type Invoice struct {
	ID          int             `json:"invoiceId"`
	Amount      decimal.Decimal `json:"amount"`
	IsPaid      bool            `json:"isPaid"`
	DueDate     time.Time       `json:"dueDate"`
	Status      InvoiceStatus   `json:"status"`
	LateFee     decimal.Decimal `json:"lateFee"`
	OverdueDays int             `json:"overdueDays"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
}

// NewInvoice returns a Pending invoice with nothing paid yet. The ID is
// assigned by the store.
func NewInvoice(amount decimal.Decimal, dueDate time.Time) Invoice {
	return Invoice{
		Amount:     amount,
		DueDate:    dueDate,
		Status:     InvoiceStatusPending,
		LateFee:    decimal.Zero,
		PaidAmount: decimal.Zero,
	}
}

// Balance is what is still owed on the invoice.
func (i Invoice) Balance() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// FullyPaid reports whether the invoice is closed as Paid with nothing outstanding.
func (i Invoice) FullyPaid() bool {
	return i.Status == InvoiceStatusPaid && i.Amount.Equal(i.PaidAmount)
}

// InvoiceResponse is the listing projection of an invoice.
type InvoiceResponse struct {
	InvoiceID  int             `json:"invoiceId"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	DueDate    string          `json:"dueDate"`
	Status     string          `json:"status"`
}

func (i Invoice) Response() InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:  i.ID,
		Amount:     i.Amount,
		PaidAmount: i.PaidAmount,
		DueDate:    i.DueDate.Format(DateLayout),
		Status:     i.Status.String(),
	}
}

// CreateInvoiceRequest is the body of POST /invoices.
type CreateInvoiceRequest struct {
	Amount  *decimal.Decimal `json:"amount" validate:"required"`
	DueDate *time.Time       `json:"dueDate" validate:"required"`
}

// PaymentRequest is the body of POST /invoices/:id/pay.
type PaymentRequest struct {
	PaymentAmount *decimal.Decimal `json:"paymentAmount" validate:"required"`
}

// OverdueProcessingRequest is the body of POST /invoices/process-overdue.
type OverdueProcessingRequest struct {
	LateFee     decimal.Decimal `json:"lateFee"`
	OverdueDays int             `json:"overdueDays"`
}

// CreateInvoiceResponse is returned with 201 on create.
type CreateInvoiceResponse struct {
	Message   string `json:"message"`
	InvoiceID int    `json:"invoiceId"`
}
