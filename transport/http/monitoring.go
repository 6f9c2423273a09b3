package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/opsknowledge/retrieval-core/apperror"
)

// ruleView is the wire-safe projection of an alerting.Rule; Rule's
// Predicate field is a func and cannot be marshaled directly.
type ruleView struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Cooldown string `json:"cooldown"`
	Enabled  bool   `json:"enabled"`
}

func (h *handlers) monitoringStatus(w http.ResponseWriter, r *http.Request) {
	if h.deps.Alerting == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active_alerts": 0, "rules": 0})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active_alerts": len(h.deps.Alerting.Active()),
		"rules":         len(h.deps.Alerting.Rules()),
	})
}

func (h *handlers) monitoringAlerts(w http.ResponseWriter, r *http.Request) {
	if h.deps.Alerting == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Alerting.History())
}

func (h *handlers) monitoringAlertsActive(w http.ResponseWriter, r *http.Request) {
	if h.deps.Alerting == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Alerting.Active())
}

func (h *handlers) monitoringRules(w http.ResponseWriter, r *http.Request) {
	if h.deps.Alerting == nil {
		writeJSON(w, http.StatusOK, []ruleView{})
		return
	}
	rules := h.deps.Alerting.Rules()
	views := make([]ruleView, len(rules))
	for i, rule := range rules {
		views[i] = ruleView{
			ID:       rule.ID,
			Severity: string(rule.Severity),
			Title:    rule.Title,
			Cooldown: rule.Cooldown.String(),
			Enabled:  rule.Enabled,
		}
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *handlers) monitoringResolveAlert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.deps.Alerting == nil {
		writeErrorEnvelope(w, r, &apperror.AppError{
			Code: apperror.CodeNotFound, Status: http.StatusNotFound, Severity: apperror.SeverityLow,
			Message: "no alerting service configured",
		})
		return
	}
	alert, ok := h.deps.Alerting.ResolveAlert(r.Context(), id)
	if !ok {
		writeErrorEnvelope(w, r, &apperror.AppError{
			Code: apperror.CodeNotFound, Status: http.StatusNotFound, Severity: apperror.SeverityLow,
			Message: "no active alert with that id",
		})
		return
	}
	writeJSON(w, http.StatusOK, alert)
}
