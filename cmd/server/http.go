package main

import (
	"net/http"
	"sync"

	"github.com/opsknowledge/retrieval-core/observe"
	transporthttp "github.com/opsknowledge/retrieval-core/transport/http"
)

func httpHandler(sys *system) http.Handler {
	return transporthttp.NewRouter(sys.httpDeps)
}

// trackInFlight adds wg.Add/Done around every request so shutdown can
// wait for in-flight requests to drain before closing subsystems.
func trackInFlight(wg *sync.WaitGroup, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wg.Add(1)
		defer wg.Done()
		next.ServeHTTP(w, r)
	})
}

func observeField(key string, value any) observe.Field {
	return observe.Field{Key: key, Value: value}
}
