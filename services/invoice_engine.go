package services

import (
	"time"

	"coreinvoice-backend/models"

	"github.com/shopspring/decimal"
)

// InvoiceStore is the persistence the engine needs.
type InvoiceStore interface {
	Create(invoice models.Invoice) models.Invoice
	Update(invoice models.Invoice)
	GetByID(id int) (models.Invoice, bool)
	GetAll() []models.Invoice
}

// InvoiceEngine applies the invoice lifecycle rules on top of an InvoiceStore.
// It does no locking of its own; callers serving concurrent requests must
// serialize access.
type InvoiceEngine struct {
	store InvoiceStore
	now   func() time.Time
}

type Option func(*InvoiceEngine)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *InvoiceEngine) { e.now = now }
}

func NewInvoiceEngine(store InvoiceStore, opts ...Option) *InvoiceEngine {
	e := &InvoiceEngine{store: store, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateInvoice stores a new Pending invoice and returns it with its ID.
func (e *InvoiceEngine) CreateInvoice(amount decimal.Decimal, dueDate time.Time) (models.Invoice, error) {
	if !amount.IsPositive() {
		return models.Invoice{}, newError(KindInvalidAmount, "Invalid Input")
	}
	return e.store.Create(models.NewInvoice(amount, dueDate)), nil
}

// ListInvoices projects every invoice in store order.
func (e *InvoiceEngine) ListInvoices() ([]models.InvoiceResponse, error) {
	invoices := e.store.GetAll()
	if len(invoices) == 0 {
		return nil, newError(KindNotFound, "Invoice not found.")
	}

	out := make([]models.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, inv.Response())
	}
	return out, nil
}

// PayInvoice records a payment against an invoice.
func (e *InvoiceEngine) PayInvoice(id int, paymentAmount decimal.Decimal) error {
	invoice, err := e.validatePayment(id, paymentAmount)
	if err != nil {
		return err
	}

	// Compared against the balance before the payment lands.
	if !invoice.Balance().Equal(paymentAmount) {
		invoice.Status = models.InvoiceStatusPending
	} else {
		invoice.Status = models.InvoiceStatusPaid
	}

	invoice.IsPaid = true
	invoice.PaidAmount = invoice.PaidAmount.Add(paymentAmount)
	e.store.Update(invoice)
	return nil
}

func (e *InvoiceEngine) validatePayment(id int, paymentAmount decimal.Decimal) (models.Invoice, error) {
	invoice, ok := e.store.GetByID(id)
	switch {
	case !ok:
		return models.Invoice{}, newError(KindNotFound, "Invoice with ID %d not found.", id)
	case invoice.FullyPaid():
		return models.Invoice{}, newError(KindPaymentRejected, "Payment cannot be made as the Invoice with ID %d is fully paid.", id)
	case paymentAmount.IsNegative():
		return models.Invoice{}, newError(KindPaymentRejected, "Payment amount should be greater than 0.")
	case invoice.Balance().LessThan(paymentAmount):
		return models.Invoice{}, newError(KindPaymentRejected, "Payment amount is greater than the invoice amount.")
	}
	return invoice, nil
}

// ProcessOverdueInvoices closes every past-due Pending invoice with an
// outstanding balance and rolls the balance plus lateFee into a new invoice
// due overdueDays from now. It returns how many invoices were rolled over.
func (e *InvoiceEngine) ProcessOverdueInvoices(lateFee decimal.Decimal, overdueDays int) (int, error) {
	if lateFee.IsNegative() {
		return 0, newError(KindInvalidInput, "LateFee is Less than Zero.")
	}
	if overdueDays < 0 {
		return 0, newError(KindInvalidInput, "OverDueDays is less than Zero. This will create backdated invoices.")
	}

	now := e.now()
	var overdue []models.Invoice
	for _, inv := range e.store.GetAll() {
		if inv.DueDate.Before(now) && inv.Status == models.InvoiceStatusPending {
			overdue = append(overdue, inv)
		}
	}

	rolled := 0
	for _, invoice := range overdue {
		balance := invoice.Balance()
		if !balance.IsPositive() {
			continue
		}

		remaining := balance.Add(lateFee)
		if remaining.IsPositive() && invoice.IsPaid {
			invoice.Status = models.InvoiceStatusPaid
		} else {
			invoice.Status = models.InvoiceStatusVoid
		}
		e.store.Update(invoice)

		e.store.Create(models.NewInvoice(remaining, now.AddDate(0, 0, overdueDays)))
		rolled++
	}
	return rolled, nil
}
