package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/axisvitor/sistema-cobranca/internal/whatsapp"
)

// WhatsAppHandler exposes session status and recovery endpoints.
type WhatsAppHandler struct {
	session *whatsapp.Session
	logger  *zap.Logger
}

func NewWhatsAppHandler(session *whatsapp.Session, logger *zap.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{session: session, logger: logger}
}

// Status handles GET /api/v1/whatsapp/status
//
// @Summary  WhatsApp session state and reconnect counter
// @Tags     whatsapp
// @Produce  json
// @Success  200  {object}  whatsapp.Status
// @Router   /api/v1/whatsapp/status [get]
func (h *WhatsAppHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session.Status())
}

// Reinitialize handles POST /api/v1/whatsapp/reinitialize
//
// The only way out of the FAILED state: clears the reconnect counter and
// attempts a fresh connect.
func (h *WhatsAppHandler) Reinitialize(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Reinitialize(r.Context()); err != nil {
		h.logger.Error("session reinitialize failed", zap.Error(err))
		respondJSON(w, http.StatusBadGateway, h.session.Status())
		return
	}
	respondJSON(w, http.StatusOK, h.session.Status())
}
