package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/opsknowledge/retrieval-core/apperror"
	"github.com/opsknowledge/retrieval-core/pipeline"
)

type handlers struct {
	deps Deps
}

// mcpCallRequest is the body of POST /mcp/call.
type mcpCallRequest struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

func (h *handlers) mcpCall(w http.ResponseWriter, r *http.Request) {
	var body mcpCallRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorEnvelope(w, r, &apperror.AppError{
			Code: apperror.CodeBadRequest, Status: 400, Severity: apperror.SeverityLow,
			Message: "request body is not valid JSON",
		})
		return
	}
	h.run(w, r, body.Tool, body.Arguments)
}

// toolHandler returns a handler that dispatches tool with the request body
// (or, for GET requests, an empty argument map) as its arguments.
func (h *handlers) toolHandler(tool string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		args := map[string]any{}
		if r.Method == http.MethodPost && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
				writeErrorEnvelope(w, r, &apperror.AppError{
					Code: apperror.CodeBadRequest, Status: 400, Severity: apperror.SeverityLow,
					Message: "request body is not valid JSON",
				})
				return
			}
		}
		h.run(w, r, tool, args)
	}
}

func (h *handlers) procedureFetch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.run(w, r, "get_procedure", map[string]any{"id": id})
}

func (h *handlers) procedureExecute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	args := map[string]any{"id": id}
	if r.ContentLength != 0 {
		var extra map[string]any
		if err := json.NewDecoder(r.Body).Decode(&extra); err == nil {
			for k, v := range extra {
				args[k] = v
			}
		}
	}
	h.run(w, r, "get_procedure", args)
}

func (h *handlers) run(w http.ResponseWriter, r *http.Request, tool string, args map[string]any) {
	declaredMB := 0.0
	if cl := r.ContentLength; cl > 0 {
		declaredMB = float64(cl) / (1024 * 1024)
	}

	req := pipeline.Request{
		Tool:           tool,
		Arguments:      args,
		CorrelationID:  r.Header.Get("X-Correlation-ID"),
		DeclaredBodyMB: declaredMB,
		UserAgent:      r.UserAgent(),
		IsHTTP:         true,
	}

	result := h.deps.Pipeline.Run(r.Context(), req)

	w.Header().Set("X-Correlation-ID", result.CorrelationID)
	if result.CacheStatus != "" {
		w.Header().Set("X-Cache", result.CacheStatus)
	}
	if result.CacheStrategy != "" {
		w.Header().Set("X-Cache-Strategy", result.CacheStrategy)
	}
	if result.PerformanceTier != "" {
		w.Header().Set("X-Performance-Tier", result.PerformanceTier)
	}
	w.Header().Set("X-Response-Time", strconv.FormatFloat(result.DurationMS, 'f', 2, 64))

	status := http.StatusOK
	if !result.Envelope.Success && result.Envelope.Error != nil {
		status = result.Envelope.Error.Status
	}
	writeJSON(w, status, result.Envelope)
}

func parseIntQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
