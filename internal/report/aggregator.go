package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
	"github.com/axisvitor/sistema-cobranca/internal/repository"
	"github.com/axisvitor/sistema-cobranca/internal/whatsapp"
)

// Sender is the slice of the WhatsApp session the aggregator needs.
type Sender interface {
	Send(ctx context.Context, recipient, text string) (string, error)
}

// Aggregator computes daily delivery statistics from the persisted
// notification trail and dispatches them to the manager's number.
type Aggregator struct {
	repo    repository.CustomerRepository
	session Sender
	logger  *zap.Logger

	// now is swapped in tests to pin the "current day".
	now func() time.Time
}

func NewAggregator(repo repository.CustomerRepository, session Sender, logger *zap.Logger) *Aggregator {
	return &Aggregator{repo: repo, session: session, logger: logger, now: time.Now}
}

// Compute scans every customer and returns the statistics for the current
// local calendar day: notifications sent today counted by outcome, plus the
// total amount of all PENDING debts regardless of date.
func (a *Aggregator) Compute(ctx context.Context) (domain.Report, error) {
	customers, err := a.repo.ListAll(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("scan customers: %w", err)
	}

	// Day boundary at local midnight.
	y, m, d := a.now().Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.Local)

	var r domain.Report
	for _, c := range customers {
		for _, n := range c.Notifications {
			if n.SentAt.Before(dayStart) {
				continue
			}
			r.Total++
			if n.Status == domain.NotificationSent {
				r.Success++
			} else {
				r.Failure++
			}
		}
		for _, debt := range c.Debts {
			if debt.Status == domain.DebtPending {
				r.PendingTotal += debt.Amount
			}
		}
	}
	return r, nil
}

// Dispatch computes the report and sends it to the manager over WhatsApp.
// The computed report is returned to the caller even when the send fails;
// the failure is logged, not propagated.
func (a *Aggregator) Dispatch(ctx context.Context, managerPhone string) (domain.Report, error) {
	r, err := a.Compute(ctx)
	if err != nil {
		return domain.Report{}, err
	}

	if _, err := a.session.Send(ctx, managerPhone, whatsapp.RenderReport(r)); err != nil {
		a.logger.Error("failed to deliver management report",
			zap.String("manager_phone", managerPhone), zap.Error(err))
	}
	return r, nil
}
