package pipeline

import (
	"context"
	"time"

	"github.com/opsknowledge/retrieval-core/apperror"
	"github.com/opsknowledge/retrieval-core/cache"
	"github.com/opsknowledge/retrieval-core/observe"
	"github.com/opsknowledge/retrieval-core/perf"
)

// Config wires a Pipeline's collaborators.
type Config struct {
	Dispatcher Dispatcher
	Cache      *cache.Service // nil disables cache interception entirely
	Monitor    *perf.Monitor  // nil disables sample recording
	Logger     observe.Logger
	MaxBodyMB  float64 // 0 disables the size check
	Clock      Clock   // defaults to time.Now
}

// Pipeline runs the seven ordered stages of §4.F around one Dispatcher
// call.
type Pipeline struct {
	config  Config
	cacheIx *CacheInterceptor
	clock   Clock
}

// NewPipeline creates a Pipeline from config.
func NewPipeline(config Config) *Pipeline {
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Pipeline{
		config:  config,
		cacheIx: NewCacheInterceptor(config.Cache, clock),
		clock:   clock,
	}
}

// Run executes the full pipeline for req and returns a Result. Run never
// returns a Go error: every failure is classified into an apperror and
// shaped into Result.Envelope, per §7's propagation policy.
func (p *Pipeline) Run(ctx context.Context, req Request) Result {
	start := p.clock()
	correlationID := ResolveCorrelationID(req.CorrelationID)
	ctx = WithCorrelationID(ctx, correlationID)

	if req.IsHTTP && p.config.MaxBodyMB > 0 {
		if err := CheckBodySize(req.DeclaredBodyMB, p.config.MaxBodyMB); err != nil {
			ae := &apperror.AppError{
				Code: apperror.CodeRequestTooLarge, Status: 413, Severity: apperror.SeverityLow,
				Message: err.Error(),
			}
			return p.finish(correlationID, req.Tool, ShapeError(correlationID, req.Tool, ae, nil), "", "", start)
		}
	}

	if violations := Validate(req.Tool, req.Arguments); len(violations) > 0 {
		ve := apperror.NewValidationError(violations)
		return p.finish(correlationID, req.Tool, ShapeError(correlationID, req.Tool, ve.AppError, violations), "", "", start)
	}

	transformed, err := Transform(req.Tool, req.Arguments, req.UserAgent)
	if err != nil {
		ae := &apperror.AppError{
			Code: apperror.CodeBadRequest, Status: 400, Severity: apperror.SeverityLow,
			Message: err.Error(),
		}
		return p.finish(correlationID, req.Tool, ShapeError(correlationID, req.Tool, ae, nil), "", "", start)
	}

	intercept := p.cacheIx.Probe(ctx, req.Tool, transformed)
	if intercept.Status == "HIT" {
		envelope := ShapeSuccess(correlationID, req.Tool, rawOrNil(intercept.Payload), 0, intercept.Strategy, true)
		return p.finish(correlationID, req.Tool, envelope, intercept.Status, intercept.Strategy, start)
	}

	if p.config.Dispatcher == nil {
		ae := &apperror.AppError{Code: apperror.CodeServiceUnavailable, Status: 503, Severity: apperror.SeverityHigh, Message: "no dispatcher configured"}
		return p.finish(correlationID, req.Tool, ShapeError(correlationID, req.Tool, ae, nil), intercept.Status, intercept.Strategy, start)
	}

	data, dispatchErr := p.config.Dispatcher.Dispatch(ctx, req.Tool, transformed)
	if dispatchErr != nil {
		ae, ok := apperror.As(dispatchErr)
		if !ok {
			ae = apperror.NewUnhandledError(correlationID, dispatchErr).AppError
		}
		return p.finish(correlationID, req.Tool, ShapeError(correlationID, req.Tool, ae, nil), intercept.Status, intercept.Strategy, start)
	}

	if intercept.Status == "MISS" {
		if payload, encodable := encodeForCache(data); encodable {
			_ = p.cacheIx.Store(ctx, req.Tool, transformed, payload)
		}
	}

	durationMS := float64(p.clock().Sub(start).Milliseconds())
	envelope := ShapeSuccess(correlationID, req.Tool, data, durationMS, intercept.Strategy, false)
	return p.finish(correlationID, req.Tool, envelope, intercept.Status, intercept.Strategy, start)
}

func (p *Pipeline) finish(correlationID, tool string, envelope Envelope, cacheStatus, cacheStrategy string, start time.Time) Result {
	durationMS := float64(p.clock().Sub(start).Milliseconds())
	if p.config.Monitor != nil {
		p.config.Monitor.Record(tool, durationMS, !envelope.Success)
	}
	return Result{
		Envelope:        envelope,
		CacheStatus:     cacheStatus,
		CacheStrategy:   cacheStrategy,
		CorrelationID:   correlationID,
		DurationMS:      durationMS,
		PerformanceTier: envelope.Metadata.PerformanceTier,
	}
}

func rawOrNil(payload []byte) any {
	if payload == nil {
		return nil
	}
	return payload
}

// encodeForCache reports whether data can be stored as cache bytes. Only
// already-encoded []byte payloads are cached directly; richer types are
// left to the dispatcher/adapter layer to pre-serialize before returning,
// since this stage does not know each tool's response schema.
func encodeForCache(data any) ([]byte, bool) {
	b, ok := data.([]byte)
	return b, ok
}
