package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/opsknowledge/retrieval-core/apperror"
)

func (h *handlers) circuitBreakers(w http.ResponseWriter, r *http.Request) {
	if h.deps.Breakers == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Breakers.HealthSummary())
}

func (h *handlers) circuitBreakerReset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.deps.Breakers == nil {
		writeErrorEnvelope(w, r, &apperror.AppError{
			Code: apperror.CodeNotFound, Status: http.StatusNotFound, Severity: apperror.SeverityLow,
			Message: "no breaker registry configured",
		})
		return
	}
	if err := h.deps.Breakers.Reset(name); err != nil {
		writeErrorEnvelope(w, r, &apperror.AppError{
			Code: apperror.CodeNotFound, Status: http.StatusNotFound, Severity: apperror.SeverityLow,
			Message: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset", "breaker": name})
}
