package repository

import (
	"context"
	"sync"
	"time"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
)

// MockCustomerRepository is a hand-written, in-memory implementation of
// CustomerRepository used in unit tests. No mock-generation library needed.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	// Optional error overrides, set in tests to simulate failure paths.
	GetByIDErr            error
	AppendNotificationErr error
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{customers: make(map[string]*domain.Customer)}
}

func clone(c *domain.Customer) *domain.Customer {
	cp := *c
	cp.Debts = append([]domain.Debt(nil), c.Debts...)
	cp.Notifications = append([]domain.NotificationRecord(nil), c.Notifications...)
	return &cp
}

func (m *MockCustomerRepository) Create(_ context.Context, c *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.customers {
		if existing.Document == c.Document {
			return domain.ErrDuplicateDocument
		}
	}
	m.customers[c.ID] = clone(c)
	return nil
}

func (m *MockCustomerRepository) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(c), nil
}

func (m *MockCustomerRepository) List(_ context.Context, _ domain.ListFilter) ([]*domain.Customer, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		result = append(result, clone(c))
	}
	return result, len(result), nil
}

func (m *MockCustomerRepository) AddDebt(_ context.Context, customerID string, d *domain.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[customerID]
	if !ok {
		return domain.ErrNotFound
	}
	d.CustomerID = customerID
	c.Debts = append(c.Debts, *d)
	return nil
}

func (m *MockCustomerRepository) AppendNotification(_ context.Context, customerID string, rec *domain.NotificationRecord) error {
	if m.AppendNotificationErr != nil {
		return m.AppendNotificationErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[customerID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.CustomerID = customerID
	c.Notifications = append(c.Notifications, *rec)
	return nil
}

func (m *MockCustomerRepository) FindOverdue(_ context.Context, asOf time.Time) ([]OverdueDebt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []OverdueDebt
	for _, c := range m.customers {
		for _, d := range c.Debts {
			if d.Status == domain.DebtPending && !d.DueDate.After(asOf) {
				result = append(result, OverdueDebt{CustomerID: c.ID, DebtID: d.ID})
			}
		}
	}
	return result, nil
}

func (m *MockCustomerRepository) ListAll(_ context.Context) ([]*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		result = append(result, clone(c))
	}
	return result, nil
}

// Notifications returns the records appended for a customer, for assertions.
func (m *MockCustomerRepository) Notifications(customerID string) []domain.NotificationRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.customers[customerID]; ok {
		return append([]domain.NotificationRecord(nil), c.Notifications...)
	}
	return nil
}
