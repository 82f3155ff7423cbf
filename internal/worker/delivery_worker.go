package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
	"github.com/axisvitor/sistema-cobranca/internal/queue"
	"github.com/axisvitor/sistema-cobranca/internal/repository"
	"github.com/axisvitor/sistema-cobranca/internal/whatsapp"
)

// Sender is the slice of the WhatsApp session the worker needs.
type Sender interface {
	Send(ctx context.Context, recipient, text string) (string, error)
}

// MetricHooks lets the composition root attach Prometheus observations
// without the worker importing the metrics package.
type MetricHooks struct {
	OnSent   func(latency time.Duration)
	OnFailed func()
}

// DeliveryWorker drains the charge queue on a fixed cadence. Each tick
// processes at most one item, which caps throughput at one notification per
// interval on purpose: the WhatsApp session tolerates only slow, serialized
// traffic.
type DeliveryWorker struct {
	q           *queue.ChargeQueue
	repo        repository.CustomerRepository
	session     Sender
	interval    time.Duration
	maxAttempts int
	logger      *zap.Logger
	hooks       MetricHooks

	inFlight atomic.Bool
	wg       sync.WaitGroup
}

func NewDeliveryWorker(
	q *queue.ChargeQueue,
	repo repository.CustomerRepository,
	session Sender,
	interval time.Duration,
	maxAttempts int,
	logger *zap.Logger,
	hooks MetricHooks,
) *DeliveryWorker {
	if hooks.OnSent == nil {
		hooks.OnSent = func(time.Duration) {}
	}
	if hooks.OnFailed == nil {
		hooks.OnFailed = func() {}
	}
	return &DeliveryWorker{
		q:           q,
		repo:        repo,
		session:     session,
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      logger,
		hooks:       hooks,
	}
}

// Run ticks until ctx is cancelled. Ticks are single-flight: when a tick is
// still running as the next timer fires, that cycle is skipped outright, no
// tick is ever queued behind another.
func (w *DeliveryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("delivery worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("delivery worker stopping")
			return
		case <-ticker.C:
			if !w.inFlight.CompareAndSwap(false, true) {
				w.logger.Debug("previous tick still running, skipping cycle")
				continue
			}
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				defer w.inFlight.Store(false)
				// Detached from the loop context: cancellation stops
				// the ticker, but the item already popped is carried
				// to completion (the send timeout still bounds it).
				w.RunOnce(context.WithoutCancel(ctx))
			}()
		}
	}
}

// Wait blocks until the in-flight tick, if any, has finished. Called during
// shutdown after the Run context is cancelled and before the session closes.
func (w *DeliveryWorker) Wait() {
	w.wg.Wait()
}

// RunOnce processes at most one pending charge. Every failure is logged and
// absorbed here; a processing error never takes the worker down.
func (w *DeliveryWorker) RunOnce(ctx context.Context) {
	item, err := w.q.Pop(ctx)
	if errors.Is(err, domain.ErrQueueEmpty) {
		return
	}
	if err != nil {
		w.logger.Error("queue pop failed", zap.Error(err))
		return
	}
	w.process(ctx, item)
}

func (w *DeliveryWorker) process(ctx context.Context, item queue.Item) {
	log := w.logger.With(
		zap.String("customer_id", item.CustomerID),
		zap.String("debt_id", item.DebtID),
		zap.Int("attempts", item.Attempts),
	)

	customer, err := w.repo.GetByID(ctx, item.CustomerID)
	if errors.Is(err, domain.ErrNotFound) {
		// Customer vanished between enqueue and processing: permanent, no requeue.
		log.Error("customer not found, dropping charge")
		return
	}
	if err != nil {
		// Store outage is transient and consumes one retry, like any other
		// processing failure.
		log.Error("customer lookup failed", zap.Error(err))
		item.Attempts++
		if item.Attempts < w.maxAttempts {
			w.requeue(ctx, item, log)
		} else {
			log.Error("retry budget exhausted, dropping charge",
				zap.Int("max_attempts", w.maxAttempts))
		}
		return
	}

	debt, err := customer.FindDebt(item.DebtID)
	if err != nil {
		log.Error("debt not found on customer, dropping charge")
		return
	}

	text := whatsapp.RenderCharge(customer, debt)

	start := time.Now()
	detail, err := w.session.Send(ctx, customer.Phone, text)
	if err != nil {
		log.Warn("charge delivery failed", zap.Error(err))
		w.record(ctx, customer.ID, domain.NotificationError, err.Error(), log)
		w.hooks.OnFailed()

		item.Attempts++
		if item.Attempts < w.maxAttempts {
			w.requeue(ctx, item, log)
		} else {
			log.Error("retry budget exhausted, dropping charge",
				zap.Int("max_attempts", w.maxAttempts))
		}
		return
	}

	elapsed := time.Since(start)
	w.record(ctx, customer.ID, domain.NotificationSent, detail, log)
	w.hooks.OnSent(elapsed)
	log.Info("charge delivered", zap.String("provider_msg_id", detail), zap.Duration("latency", elapsed))
}

// record appends an immutable delivery-outcome row to the customer.
func (w *DeliveryWorker) record(ctx context.Context, customerID string, status domain.NotificationStatus, msg string, log *zap.Logger) {
	rec := &domain.NotificationRecord{
		ID:      uuid.New().String(),
		Channel: domain.ChannelWhatsApp,
		SentAt:  time.Now(),
		Status:  status,
		Message: msg,
	}
	if err := w.repo.AppendNotification(ctx, customerID, rec); err != nil {
		log.Error("failed to persist notification record", zap.Error(err))
	}
}

func (w *DeliveryWorker) requeue(ctx context.Context, item queue.Item, log *zap.Logger) {
	if err := w.q.Push(ctx, item); err != nil {
		log.Error("failed to requeue charge", zap.Error(err))
	}
}
