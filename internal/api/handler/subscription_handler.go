package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dorfportal/reminder-service/internal/domain"
	"github.com/dorfportal/reminder-service/internal/service"
)

// SubscriptionHandler manages push-subscription registration for admin
// browsers.
type SubscriptionHandler struct {
	svc    *service.SubscriptionService
	logger *zap.Logger
}

func NewSubscriptionHandler(svc *service.SubscriptionService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc, logger: logger}
}

// Register handles POST /api/v1/push/subscriptions
func (h *SubscriptionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sub, err := h.svc.Register(r.Context(), req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sub)
}

// Unregister handles DELETE /api/v1/push/subscriptions?endpoint=...
func (h *SubscriptionHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Query().Get("endpoint")
	if err := h.svc.Unregister(r.Context(), endpoint); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
