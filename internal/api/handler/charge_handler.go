package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apimw "github.com/axisvitor/sistema-cobranca/internal/api/middleware"
	"github.com/axisvitor/sistema-cobranca/internal/domain"
	"github.com/axisvitor/sistema-cobranca/internal/service"
)

// ChargeHandler handles the charge enqueue endpoints.
type ChargeHandler struct {
	svc    *service.ChargeService
	logger *zap.Logger
}

func NewChargeHandler(svc *service.ChargeService, logger *zap.Logger) *ChargeHandler {
	return &ChargeHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/charges
//
// @Summary  Enqueue a single charge notification
// @Tags     charges
// @Accept   json
// @Produce  json
// @Param    body  body      domain.EnqueueChargeRequest  true  "Charge payload"
// @Success  202   {object}  map[string]string
// @Failure  422   {object}  map[string]string
// @Router   /api/v1/charges [post]
func (h *ChargeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.EnqueueChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.svc.EnqueueCharge(r.Context(), req); err != nil {
		h.logger.Warn("enqueue charge failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "charge added to the processing queue",
	})
}

// CreateBatch handles POST /api/v1/charges/batch
//
// @Summary  Enqueue a charge for every overdue pending debt
// @Tags     charges
// @Produce  json
// @Param    overdue_days  query     int  false  "Minimum days overdue (default 0)"
// @Success  202           {object}  map[string]any
// @Router   /api/v1/charges/batch [post]
func (h *ChargeHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	overdueDays := 0
	if v := r.URL.Query().Get("overdue_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "overdue_days must be a non-negative integer")
			return
		}
		overdueDays = n
	}

	count, err := h.svc.EnqueueOverdue(r.Context(), overdueDays)
	if err != nil {
		h.logger.Warn("enqueue overdue batch failed", zap.Error(err))
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]any{
		"message":  "overdue charges added to the processing queue",
		"enqueued": count,
	})
}
