package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
	"github.com/axisvitor/sistema-cobranca/internal/queue"
	"github.com/axisvitor/sistema-cobranca/internal/repository"
)

// ChargeService coordinates the customer store and the charge queue.
// HTTP handlers and the delivery worker depend on this service, not on
// each other.
type ChargeService struct {
	repo   repository.CustomerRepository
	q      *queue.ChargeQueue
	logger *zap.Logger
}

func NewChargeService(repo repository.CustomerRepository, q *queue.ChargeQueue, logger *zap.Logger) *ChargeService {
	return &ChargeService{repo: repo, q: q, logger: logger}
}

// EnqueueCharge validates the request and appends it to the charge queue.
// Validation failures never enter the queue; a queue push failure propagates
// so the caller can retry.
func (s *ChargeService) EnqueueCharge(ctx context.Context, req domain.EnqueueChargeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	item := queue.Item{
		CustomerID: req.CustomerID,
		DebtID:     req.DebtID,
		EnqueuedAt: time.Now(),
	}
	if err := s.q.Push(ctx, item); err != nil {
		return err
	}

	s.logger.Info("charge enqueued",
		zap.String("customer_id", req.CustomerID),
		zap.String("debt_id", req.DebtID))
	return nil
}

// EnqueueOverdue scans for PENDING debts due at least overdueDays ago and
// enqueues one charge per debt. Returns the number of charges enqueued.
func (s *ChargeService) EnqueueOverdue(ctx context.Context, overdueDays int) (int, error) {
	if overdueDays < 0 {
		overdueDays = 0
	}
	asOf := time.Now().AddDate(0, 0, -overdueDays)

	overdue, err := s.repo.FindOverdue(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("find overdue debts: %w", err)
	}

	enqueued := 0
	for _, od := range overdue {
		item := queue.Item{
			CustomerID: od.CustomerID,
			DebtID:     od.DebtID,
			EnqueuedAt: time.Now(),
		}
		if err := s.q.Push(ctx, item); err != nil {
			// A partial batch is fine: what was pushed stays pushed.
			return enqueued, err
		}
		enqueued++
	}

	s.logger.Info("overdue batch enqueued", zap.Int("count", enqueued))
	return enqueued, nil
}

// CreateCustomer validates and persists a new customer with any embedded debts.
func (s *ChargeService) CreateCustomer(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &domain.Customer{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Document:  req.Document,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, dr := range req.Debts {
		c.Debts = append(c.Debts, domain.Debt{
			ID:          uuid.New().String(),
			CustomerID:  c.ID,
			Amount:      dr.Amount,
			DueDate:     dr.DueDate,
			Description: dr.Description,
			Status:      domain.DebtPending,
		})
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddDebt validates and appends a new PENDING debt to an existing customer.
func (s *ChargeService) AddDebt(ctx context.Context, customerID string, req domain.CreateDebtRequest) (*domain.Debt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d := &domain.Debt{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		Description: req.Description,
		Status:      domain.DebtPending,
	}
	if err := s.repo.AddDebt(ctx, customerID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *ChargeService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ChargeService) ListCustomers(ctx context.Context, filter domain.ListFilter) ([]*domain.Customer, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	return s.repo.List(ctx, filter)
}
