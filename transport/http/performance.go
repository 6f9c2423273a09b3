package http

import "net/http"

// performance serves GET /performance: the monitor's report, with the
// alerting service's active-alert titles folded in as externalAlerts.
func (h *handlers) performance(w http.ResponseWriter, r *http.Request) {
	var alertTitles []string
	if h.deps.Alerting != nil {
		for _, a := range h.deps.Alerting.Active() {
			alertTitles = append(alertTitles, a.Title)
		}
	}

	if h.deps.Monitor == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	report := h.deps.Monitor.GenerateReport(alertTitles)
	writeJSON(w, http.StatusOK, report)
}

// performanceReset serves POST /performance/reset.
func (h *handlers) performanceReset(w http.ResponseWriter, r *http.Request) {
	if h.deps.Monitor != nil {
		h.deps.Monitor.Reset()
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
