package http

import (
	"encoding/json"
	"net/http"

	"github.com/opsknowledge/retrieval-core/apperror"
	"github.com/opsknowledge/retrieval-core/auth"
	"github.com/opsknowledge/retrieval-core/pipeline"
)

// securityHeaders sets the headers pipeline.SecurityHeaders mandates on
// every response, success or failure.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range pipeline.SecurityHeaders {
			w.Header().Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuthenticated rejects any request the authenticator does not
// accept, unless it supplies no credential at all (in which case it is
// treated as anonymous, per auth's own AnonymousIdentity convention) —
// transport-level credential presence is checked, not authorization.
func requireAuthenticated(authenticator auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := &auth.AuthRequest{Headers: r.Header, Resource: r.URL.Path}
			if !authenticator.Supports(r.Context(), req) {
				next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), auth.AnonymousIdentity())))
				return
			}

			result, err := authenticator.Authenticate(r.Context(), req)
			if err != nil || !result.Authenticated {
				writeErrorEnvelope(w, r, &apperror.AppError{
					Code:     apperror.CodeUnauthorized,
					Status:   http.StatusUnauthorized,
					Severity: apperror.SeverityLow,
					Message:  "invalid or missing credentials",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), result.Identity)))
		})
	}
}

func writeErrorEnvelope(w http.ResponseWriter, r *http.Request, ae *apperror.AppError) {
	correlationID := pipeline.ResolveCorrelationID(r.Header.Get("X-Correlation-ID"))
	envelope := pipeline.ShapeError(correlationID, "", ae, nil)
	writeJSON(w, ae.Status, envelope)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
