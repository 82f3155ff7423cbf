package repository

import (
	"context"
	"time"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
)

// CustomerRepository defines all persistence operations for the customer
// aggregate. The pgx implementation is in pg_customer_repo.go; tests use a
// hand-written mock (mock_customer_repo.go).
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Customer, int, error)

	AddDebt(ctx context.Context, customerID string, d *domain.Debt) error

	// AppendNotification writes one immutable delivery-outcome record.
	AppendNotification(ctx context.Context, customerID string, rec *domain.NotificationRecord) error

	// FindOverdue returns every (customer, debt) pair with a PENDING debt
	// due on or before asOf.
	FindOverdue(ctx context.Context, asOf time.Time) ([]OverdueDebt, error)

	// ListAll loads every customer with debts and notifications attached.
	// Used by the report aggregator's full scan.
	ListAll(ctx context.Context) ([]*domain.Customer, error)
}

// OverdueDebt is one enqueueable charge found by the overdue scan.
type OverdueDebt struct {
	CustomerID string
	DebtID     string
}
