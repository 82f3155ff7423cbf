package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
	"github.com/axisvitor/sistema-cobranca/internal/repository"
)

type stubSender struct {
	err  error
	sent []string
	to   []string
}

func (s *stubSender) Send(_ context.Context, recipient, text string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.to = append(s.to, recipient)
	s.sent = append(s.sent, text)
	return "msg-1", nil
}

func seed(t *testing.T, repo *repository.MockCustomerRepository, today time.Time) {
	t.Helper()
	yesterday := today.Add(-24 * time.Hour)

	customers := []*domain.Customer{
		{
			ID: "c1", Name: "Maria", Phone: "11999998888", Document: "1",
			Debts: []domain.Debt{
				{ID: "d1", Amount: 100, Status: domain.DebtPending},
				{ID: "d2", Amount: 200, Status: domain.DebtPaid},
			},
			Notifications: []domain.NotificationRecord{
				{ID: "n1", Status: domain.NotificationSent, SentAt: today},
				{ID: "n2", Status: domain.NotificationSent, SentAt: today},
				{ID: "n3", Status: domain.NotificationError, SentAt: today},
				// Yesterday's record must be excluded from the counts.
				{ID: "n4", Status: domain.NotificationSent, SentAt: yesterday},
			},
		},
		{
			ID: "c2", Name: "João", Phone: "11988887777", Document: "2",
			Debts: []domain.Debt{
				{ID: "d3", Amount: 50, Status: domain.DebtPending},
			},
		},
	}
	for _, c := range customers {
		if err := repo.Create(context.Background(), c); err != nil {
			t.Fatal(err)
		}
	}
}

func newAggregator(repo *repository.MockCustomerRepository, s Sender, today time.Time) *Aggregator {
	a := NewAggregator(repo, s, zap.NewNop())
	a.now = func() time.Time { return today }
	return a
}

func TestAggregator_Compute(t *testing.T) {
	today := time.Date(2026, 8, 30, 15, 0, 0, 0, time.Local)
	repo := repository.NewMockCustomerRepository()
	seed(t, repo, today)
	a := newAggregator(repo, &stubSender{}, today)

	r, err := a.Compute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Report{Total: 3, Success: 2, Failure: 1, PendingTotal: 150.00}
	if r != want {
		t.Fatalf("expected %+v, got %+v", want, r)
	}
}

func TestAggregator_Compute_MidnightBoundary(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)
	repo := repository.NewMockCustomerRepository()
	c := &domain.Customer{
		ID: "c1", Name: "Maria", Phone: "1", Document: "1",
		Notifications: []domain.NotificationRecord{
			// Exactly at local midnight counts as today.
			{ID: "n1", Status: domain.NotificationSent, SentAt: today},
			// One second before midnight belongs to yesterday.
			{ID: "n2", Status: domain.NotificationSent, SentAt: today.Add(-time.Second)},
		},
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	a := newAggregator(repo, &stubSender{}, today.Add(10*time.Hour))

	r, err := a.Compute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if r.Total != 1 || r.Success != 1 {
		t.Fatalf("expected exactly today's record counted, got %+v", r)
	}
}

func TestAggregator_Dispatch(t *testing.T) {
	today := time.Date(2026, 8, 30, 15, 0, 0, 0, time.Local)
	repo := repository.NewMockCustomerRepository()
	seed(t, repo, today)
	sender := &stubSender{}
	a := newAggregator(repo, sender, today)

	r, err := a.Dispatch(context.Background(), "11977776666")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Total != 3 {
		t.Fatalf("expected total=3, got %d", r.Total)
	}
	if len(sender.to) != 1 || sender.to[0] != "11977776666" {
		t.Fatalf("expected report sent to manager, got %v", sender.to)
	}
}

func TestAggregator_Dispatch_SendFailureStillReturnsReport(t *testing.T) {
	today := time.Date(2026, 8, 30, 15, 0, 0, 0, time.Local)
	repo := repository.NewMockCustomerRepository()
	seed(t, repo, today)
	a := newAggregator(repo, &stubSender{err: errors.New("not connected")}, today)

	r, err := a.Dispatch(context.Background(), "11977776666")
	if err != nil {
		t.Fatalf("send failure must not propagate, got %v", err)
	}
	if r.Total != 3 {
		t.Fatalf("expected computed report despite send failure, got %+v", r)
	}
}
