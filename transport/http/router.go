package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/opsknowledge/retrieval-core/alerting"
	"github.com/opsknowledge/retrieval-core/auth"
	"github.com/opsknowledge/retrieval-core/breaker"
	"github.com/opsknowledge/retrieval-core/health"
	"github.com/opsknowledge/retrieval-core/observe"
	"github.com/opsknowledge/retrieval-core/perf"
	"github.com/opsknowledge/retrieval-core/pipeline"
)

// Deps wires every collaborator the HTTP transport needs. Authenticator may
// be nil, in which case every route is served without a credential check.
type Deps struct {
	Pipeline      *pipeline.Pipeline
	Health        *health.Aggregator
	Monitor       *perf.Monitor
	Alerting      *alerting.Service
	Breakers      *breaker.Registry
	Authenticator auth.Authenticator
	Registry      *prometheus.Registry
	Snapshot      observe.SnapshotProvider
	Logger        observe.Logger
	MaxBodyMB     float64
}

// NewRouter builds the full chi.Router described by §6's HTTP surface
// table.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(auth.WithAuthHeaders)
	if deps.Authenticator != nil {
		r.Use(requireAuthenticated(deps.Authenticator))
	}

	h := &handlers{deps: deps}

	r.Get("/health", h.healthDetailed)
	r.Get("/health/detailed", h.healthDetailed)
	r.Get("/health/cache", h.healthScoped("cache"))
	r.Get("/health/sources", h.healthScoped("sources"))
	r.Get("/health/performance", h.healthScoped("performance"))
	r.Get("/ready", h.ready)
	r.Get("/live", h.live)

	r.Get("/metrics", h.metrics)

	r.Post("/mcp/call", h.mcpCall)

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", h.toolHandler("search_knowledge_base"))
		r.Post("/runbooks/search", h.toolHandler("search_runbooks"))
		r.Post("/decision-tree", h.toolHandler("get_decision_tree"))
		r.Get("/procedures/{id}", h.procedureFetch)
		r.Post("/procedures/{id}/execute", h.procedureExecute)
		r.Post("/escalation", h.toolHandler("get_escalation_path"))
		r.Get("/sources", h.toolHandler("list_sources"))
		r.Post("/feedback", h.toolHandler("record_resolution_feedback"))
	})

	r.Get("/performance", h.performance)
	r.Post("/performance/reset", h.performanceReset)

	r.Route("/monitoring", func(r chi.Router) {
		r.Get("/status", h.monitoringStatus)
		r.Get("/alerts", h.monitoringAlerts)
		r.Get("/alerts/active", h.monitoringAlertsActive)
		r.Get("/rules", h.monitoringRules)
		r.Post("/alerts/{id}/resolve", h.monitoringResolveAlert)
	})

	r.Get("/circuit-breakers", h.circuitBreakers)
	r.Post("/circuit-breakers/{name}/reset", h.circuitBreakerReset)

	return r
}
