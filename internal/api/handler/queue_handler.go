package handler

import (
	"net/http"

	"github.com/axisvitor/sistema-cobranca/internal/queue"
)

// QueueHandler serves a human-readable JSON queue snapshot.
// Raw Prometheus metrics (counters, histograms) are available at /metrics
// via promhttp.Handler and are separate from this endpoint.
type QueueHandler struct {
	q *queue.ChargeQueue
}

func NewQueueHandler(q *queue.ChargeQueue) *QueueHandler {
	return &QueueHandler{q: q}
}

// Depth handles GET /api/v1/queue
func (h *QueueHandler) Depth(w http.ResponseWriter, r *http.Request) {
	depth, err := h.q.Depth(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read queue depth")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"queue_depth": depth})
}
