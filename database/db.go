package database

import (
	"sync"
	"time"

	"coreinvoice-backend/models"

	"github.com/shopspring/decimal"
)

// InMemoryStore keeps invoices in insertion order and assigns sequential IDs.
// It hands out copies; a change is only visible after Update.
type InMemoryStore struct {
	mu       sync.RWMutex
	invoices []models.Invoice
	nextID   int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

// Create assigns the next ID and appends the invoice.
func (s *InMemoryStore) Create(invoice models.Invoice) models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice.ID = s.nextID
	s.nextID++
	s.invoices = append(s.invoices, invoice)
	return invoice
}

// Update overwrites the mutable fields of the invoice with the same ID.
// Unknown IDs are ignored.
func (s *InMemoryStore) Update(invoice models.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(invoice.ID)
	if i < 0 {
		return
	}
	existing := &s.invoices[i]
	existing.Amount = invoice.Amount
	existing.IsPaid = invoice.IsPaid
	existing.DueDate = invoice.DueDate
	existing.Status = invoice.Status
	existing.LateFee = invoice.LateFee
	existing.OverdueDays = invoice.OverdueDays
	existing.PaidAmount = invoice.PaidAmount
}

func (s *InMemoryStore) GetByID(id int) (models.Invoice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Invoice{}, false
	}
	return s.invoices[i], true
}

// GetAll returns every invoice in insertion order.
func (s *InMemoryStore) GetAll() []models.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out
}

// indexOf returns -1 when id is unknown.
func (s *InMemoryStore) indexOf(id int) int {
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			return i
		}
	}
	return -1
}

// SeedSampleData adds ten Pending invoices (1000..5500) due from five days
// before now to four days after.
func SeedSampleData(s *InMemoryStore, now time.Time) {
	for i := 0; i < 10; i++ {
		amount := decimal.NewFromInt(int64(1000 + 500*i))
		s.Create(models.NewInvoice(amount, now.AddDate(0, 0, i-5)))
	}
}
