package pipeline

import (
	"time"

	"github.com/opsknowledge/retrieval-core/apperror"
)

// Metadata is the common envelope metadata block on every response.
type Metadata struct {
	CorrelationID   string  `json:"correlation_id"`
	Timestamp       string  `json:"timestamp"`
	ToolName        string  `json:"tool_name,omitempty"`
	PerformanceTier string  `json:"performance_tier"`
	CacheStrategy   string  `json:"cache_strategy,omitempty"`
	Cached          bool    `json:"cached,omitempty"`
}

// EnvelopeError is the error block of a failure envelope. Status is the
// HTTP status the classifying apperror.AppError carried; it is not part
// of the wire envelope (the transport layer sends it as the response's
// actual status line instead) but is kept here so a transport handler
// never has to re-derive it from Code.
type EnvelopeError struct {
	Code         apperror.Code     `json:"code"`
	Message      string            `json:"message"`
	Severity     apperror.Severity `json:"severity"`
	RetryAfterMS int64             `json:"retry_after_ms,omitempty"`
	Context      map[string]any    `json:"context,omitempty"`
	Details      []string          `json:"details,omitempty"`
	Status       int               `json:"-"`
}

// Envelope is the standard response shape of §4.F step 7.
type Envelope struct {
	Success  bool           `json:"success"`
	Data     any            `json:"data,omitempty"`
	Error    *EnvelopeError `json:"error,omitempty"`
	Metadata Metadata       `json:"metadata"`
}

// tierThresholds gives the excellent/good/acceptable boundaries, in
// milliseconds, for a class of endpoint; anything at or above the
// acceptable boundary is "slow".
type tierThresholds struct {
	excellent, good, acceptable float64
}

var strictTier = tierThresholds{excellent: 150, good: 300, acceptable: 500}
var looseTier = tierThresholds{excellent: 300, good: 800, acceptable: 1500}

var strictTierTools = map[string]bool{
	"search_runbooks":     true,
	"get_escalation_path": true,
}

// PerformanceTier classifies durationMS into excellent/good/acceptable/slow
// using endpoint-specific thresholds: runbook and escalation endpoints are
// held to a stricter bar than search and metadata endpoints.
func PerformanceTier(tool string, durationMS float64) string {
	t := looseTier
	if strictTierTools[tool] {
		t = strictTier
	}
	switch {
	case durationMS < t.excellent:
		return "excellent"
	case durationMS < t.good:
		return "good"
	case durationMS < t.acceptable:
		return "acceptable"
	default:
		return "slow"
	}
}

// ShapeSuccess builds a success envelope.
func ShapeSuccess(correlationID, tool string, data any, durationMS float64, cacheStrategy string, cached bool) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
		Metadata: Metadata{
			CorrelationID:   correlationID,
			Timestamp:       time.Now().UTC().Format(time.RFC3339Nano),
			ToolName:        tool,
			PerformanceTier: PerformanceTier(tool, durationMS),
			CacheStrategy:   cacheStrategy,
			Cached:          cached,
		},
	}
}

// ShapeError builds a failure envelope from a classified *apperror.AppError.
// Sensitive fields are expected to already have been stripped from
// ae.Context by the stage that raised it (same redaction list as the
// transform stage).
func ShapeError(correlationID, tool string, ae *apperror.AppError, details []string) Envelope {
	return Envelope{
		Success: false,
		Error: &EnvelopeError{
			Code:         ae.Code,
			Message:      ae.Message,
			Severity:     ae.Severity,
			RetryAfterMS: ae.RetryAfterMS,
			Context:      ae.Context,
			Details:      details,
			Status:       ae.Status,
		},
		Metadata: Metadata{
			CorrelationID:   correlationID,
			Timestamp:       time.Now().UTC().Format(time.RFC3339Nano),
			ToolName:        tool,
			PerformanceTier: PerformanceTier(tool, 0),
		},
	}
}
