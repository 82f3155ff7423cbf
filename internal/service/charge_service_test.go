package service_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
	"github.com/axisvitor/sistema-cobranca/internal/queue"
	"github.com/axisvitor/sistema-cobranca/internal/repository"
	"github.com/axisvitor/sistema-cobranca/internal/service"
)

func newService() (*service.ChargeService, *repository.MockCustomerRepository, *queue.ChargeQueue) {
	repo := repository.NewMockCustomerRepository()
	q := queue.New(queue.NewMemoryListStore(), "")
	svc := service.NewChargeService(repo, q, zap.NewNop())
	return svc, repo, q
}

func TestChargeService_EnqueueCharge(t *testing.T) {
	svc, _, q := newService()
	ctx := context.Background()

	err := svc.EnqueueCharge(ctx, domain.EnqueueChargeRequest{CustomerID: "c1", DebtID: "d1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, err := q.Pop(ctx)
	if err != nil {
		t.Fatalf("expected enqueued item: %v", err)
	}
	if item.CustomerID != "c1" || item.DebtID != "d1" || item.Attempts != 0 {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.EnqueuedAt.IsZero() {
		t.Fatal("expected EnqueuedAt to be set")
	}
}

func TestChargeService_EnqueueCharge_Validation(t *testing.T) {
	svc, _, q := newService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.EnqueueChargeRequest
		want error
	}{
		{"missing customer id", domain.EnqueueChargeRequest{DebtID: "d1"}, domain.ErrInvalidCustomerID},
		{"missing debt id", domain.EnqueueChargeRequest{CustomerID: "c1"}, domain.ErrInvalidDebtID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.EnqueueCharge(ctx, tc.req); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	// Invalid requests must never reach the queue.
	if _, err := q.Pop(ctx); err != domain.ErrQueueEmpty {
		t.Fatalf("expected empty queue, got %v", err)
	}
}

func TestChargeService_EnqueueOverdue(t *testing.T) {
	svc, repo, q := newService()
	ctx := context.Background()

	c := &domain.Customer{
		ID: "c1", Name: "Maria", Phone: "1", Document: "1",
		Debts: []domain.Debt{
			{ID: "d1", Amount: 100, DueDate: time.Now().AddDate(0, 0, -30), Status: domain.DebtPending},
			{ID: "d2", Amount: 50, DueDate: time.Now().AddDate(0, 0, 30), Status: domain.DebtPending},
			{ID: "d3", Amount: 80, DueDate: time.Now().AddDate(0, 0, -30), Status: domain.DebtPaid},
		},
	}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatal(err)
	}

	count, err := svc.EnqueueOverdue(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 overdue charge, got %d", count)
	}

	item, err := q.Pop(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if item.DebtID != "d1" {
		t.Fatalf("expected overdue pending debt d1, got %q", item.DebtID)
	}
}

func TestChargeService_CreateCustomer(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, domain.CreateCustomerRequest{
		Name:     "Maria Souza",
		Phone:    "(11) 99999-8888",
		Document: "123.456.789-00",
		Debts: []domain.CreateDebtRequest{
			{Amount: 150, DueDate: time.Now().AddDate(0, 1, 0), Description: "Mensalidade"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected generated customer id")
	}
	if len(c.Debts) != 1 || c.Debts[0].Status != domain.DebtPending {
		t.Fatalf("expected one PENDING debt, got %+v", c.Debts)
	}

	got, err := svc.GetCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Maria Souza" {
		t.Fatalf("unexpected customer: %+v", got)
	}
}

func TestChargeService_CreateCustomer_DuplicateDocument(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	req := domain.CreateCustomerRequest{Name: "A", Phone: "1", Document: "doc-1"}
	if _, err := svc.CreateCustomer(ctx, req); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateCustomer(ctx, req); err != domain.ErrDuplicateDocument {
		t.Fatalf("expected ErrDuplicateDocument, got %v", err)
	}
}

func TestChargeService_AddDebt(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	c, _ := svc.CreateCustomer(ctx, domain.CreateCustomerRequest{Name: "A", Phone: "1", Document: "1"})

	d, err := svc.AddDebt(ctx, c.ID, domain.CreateDebtRequest{Amount: 99.9, DueDate: time.Now()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Status != domain.DebtPending {
		t.Fatalf("expected PENDING, got %s", d.Status)
	}

	if _, err := svc.AddDebt(ctx, "ghost", domain.CreateDebtRequest{Amount: 1, DueDate: time.Now()}); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
