package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
	"github.com/axisvitor/sistema-cobranca/internal/service"
)

// CustomerHandler handles the customer CRUD surface consumed by back-office
// tooling. Spreadsheet ingestion and auth live in front of this API.
type CustomerHandler struct {
	svc    *service.ChargeService
	logger *zap.Logger
}

func NewCustomerHandler(svc *service.ChargeService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := h.svc.CreateCustomer(r.Context(), req)
	if err != nil {
		h.logger.Warn("create customer failed", zap.Error(err))
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// List handles GET /api/v1/customers with page/limit pagination.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.ListFilter{Page: 1, Limit: 10}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	customers, total, err := h.svc.ListCustomers(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  customers,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// GetByID handles GET /api/v1/customers/{id}
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// AddDebt handles POST /api/v1/customers/{id}/debts
func (h *CustomerHandler) AddDebt(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	d, err := h.svc.AddDebt(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.logger.Warn("add debt failed", zap.Error(err))
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}
