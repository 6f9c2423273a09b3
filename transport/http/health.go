package http

import (
	"net/http"

	"github.com/opsknowledge/retrieval-core/health"
)

func (h *handlers) healthDetailed(w http.ResponseWriter, r *http.Request) {
	health.DetailedHandler(h.deps.Health).ServeHTTP(w, r)
}

// healthScoped returns a handler that runs only the named checker, per §6's
// /health/cache, /health/sources, /health/performance routes.
func (h *handlers) healthScoped(name string) http.HandlerFunc {
	return health.SingleCheckHandler(h.deps.Health, name)
}

func (h *handlers) ready(w http.ResponseWriter, r *http.Request) {
	health.ReadinessHandler(h.deps.Health).ServeHTTP(w, r)
}

func (h *handlers) live(w http.ResponseWriter, r *http.Request) {
	health.LivenessHandler().ServeHTTP(w, r)
}
