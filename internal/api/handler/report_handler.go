package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/axisvitor/sistema-cobranca/internal/report"
)

// ReportHandler triggers the on-demand management report.
type ReportHandler struct {
	aggregator   *report.Aggregator
	managerPhone string // default recipient when the request omits one
	logger       *zap.Logger
}

func NewReportHandler(aggregator *report.Aggregator, managerPhone string, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{aggregator: aggregator, managerPhone: managerPhone, logger: logger}
}

type sendReportRequest struct {
	ManagerPhone string `json:"manager_phone"`
}

// Send handles POST /api/v1/reports
//
// @Summary  Compute today's delivery statistics and send them to the manager
// @Tags     reports
// @Accept   json
// @Produce  json
// @Success  200  {object}  map[string]any
// @Router   /api/v1/reports [post]
func (h *ReportHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendReportRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	phone := req.ManagerPhone
	if phone == "" {
		phone = h.managerPhone
	}
	if phone == "" {
		respondError(w, http.StatusBadRequest, "manager_phone is required")
		return
	}

	rep, err := h.aggregator.Dispatch(r.Context(), phone)
	if err != nil {
		h.logger.Error("report dispatch failed", zap.Error(err))
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "management report sent",
		"report":  rep,
	})
}
