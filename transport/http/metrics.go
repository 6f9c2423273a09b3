package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsResponse is the JSON shape returned by GET /metrics without
// ?format=prometheus.
type metricsResponse struct {
	UptimeSeconds float64            `json:"uptime_seconds"`
	MemoryBytes   map[string]float64 `json:"memory_bytes"`
	Cache         cacheMetrics       `json:"cache"`
	Tools         []toolMetrics      `json:"tools"`
	Sources       []sourceMetrics    `json:"sources"`
}

type cacheMetrics struct {
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	Operations int64   `json:"operations"`
	HitRate    float64 `json:"hit_rate"`
}

type toolMetrics struct {
	Tool      string  `json:"tool"`
	Calls     int64   `json:"calls"`
	Errors    int64   `json:"errors"`
	AvgMS     float64 `json:"avg_duration_ms"`
	ErrorRate float64 `json:"error_rate"`
}

type sourceMetrics struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Healthy        bool    `json:"healthy"`
	ResponseTimeMS float64 `json:"response_time_ms"`
}

// metrics serves §6's GET /metrics: JSON by default, Prometheus text
// exposition via ?format=prometheus, both reading from the same
// observe.SnapshotProvider the PromExporter is built from.
func (h *handlers) metrics(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "prometheus" && h.deps.Registry != nil {
		promhttp.HandlerFor(h.deps.Registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
		return
	}

	if h.deps.Snapshot == nil {
		writeJSON(w, http.StatusOK, metricsResponse{})
		return
	}

	resident, heap := h.deps.Snapshot.MemoryBytes()
	c := h.deps.Snapshot.Cache()

	resp := metricsResponse{
		UptimeSeconds: h.deps.Snapshot.UptimeSeconds(),
		MemoryBytes:   map[string]float64{"resident": resident, "heap": heap},
		Cache: cacheMetrics{
			Hits: c.Hits, Misses: c.Misses, Operations: c.Operations, HitRate: c.HitRate,
		},
	}
	for _, t := range h.deps.Snapshot.Tools() {
		resp.Tools = append(resp.Tools, toolMetrics{
			Tool: t.Tool, Calls: t.Calls, Errors: t.Errors, AvgMS: t.AvgMS, ErrorRate: t.ErrorRate,
		})
	}
	for _, s := range h.deps.Snapshot.Sources() {
		resp.Sources = append(resp.Sources, sourceMetrics{
			Name: s.Name, Type: s.Type, Healthy: s.Healthy, ResponseTimeMS: s.ResponseTimeMS,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
