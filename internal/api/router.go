package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/axisvitor/sistema-cobranca/internal/api/handler"
	apimw "github.com/axisvitor/sistema-cobranca/internal/api/middleware"
	"github.com/axisvitor/sistema-cobranca/internal/queue"
	"github.com/axisvitor/sistema-cobranca/internal/report"
	"github.com/axisvitor/sistema-cobranca/internal/service"
	"github.com/axisvitor/sistema-cobranca/internal/whatsapp"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(
	svc *service.ChargeService,
	session *whatsapp.Session,
	aggregator *report.Aggregator,
	q *queue.ChargeQueue,
	managerPhone string,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)          // recover panics, return 500
	r.Use(chimw.RealIP)             // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1<<20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)      // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	ch := handler.NewChargeHandler(svc, logger)
	cu := handler.NewCustomerHandler(svc, logger)
	wh := handler.NewWhatsAppHandler(session, logger)
	rh := handler.NewReportHandler(aggregator, managerPhone, logger)
	qh := handler.NewQueueHandler(q)
	hh := handler.NewHealthHandler()

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint (for Prometheus server / Grafana)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		// Charges. /batch is registered before bare POST so chi keeps
		// the two endpoints distinct.
		r.Post("/charges/batch", ch.CreateBatch)
		r.Post("/charges", ch.Create)

		// Customers
		r.Post("/customers", cu.Create)
		r.Get("/customers", cu.List)
		r.Get("/customers/{id}", cu.GetByID)
		r.Post("/customers/{id}/debts", cu.AddDebt)

		// WhatsApp session
		r.Get("/whatsapp/status", wh.Status)
		r.Post("/whatsapp/reinitialize", wh.Reinitialize)

		// Management report
		r.Post("/reports", rh.Send)

		// Queue snapshot
		r.Get("/queue", qh.Depth)
	})

	return r
}
