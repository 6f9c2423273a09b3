// Package dispatcher maps a tool name to a fan-out across the adapter
// registry, merges results, and records a performance sample tagged by
// tool name. Every per-adapter call is wrapped in an external_service-class
// circuit breaker keyed "<adapter>.<tool>", so one misbehaving adapter
// cannot stall the dispatch for the others, and in an observe.Tracer span
// named "tool.exec.<adapter>.<tool>" when a tracer is configured.
//
// Grounded on the teacher's resilience.Executor inside-out wrapping idiom,
// reduced to breaker -> timeout for the adapter-call chain: each call runs
// under the per-call Timeout inside its breaker.CircuitBreaker. A failed
// adapter call is not retried.
package dispatcher

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/opsknowledge/retrieval-core/adapter"
	"github.com/opsknowledge/retrieval-core/apperror"
	"github.com/opsknowledge/retrieval-core/breaker"
	"github.com/opsknowledge/retrieval-core/observe"
	"github.com/opsknowledge/retrieval-core/perf"
)

// AdapterOutcome records one adapter's contribution to a dispatched call.
type AdapterOutcome struct {
	Adapter string
	Err     error
}

// Config wires a Dispatcher's collaborators.
type Config struct {
	Registry *adapter.Registry
	Breakers *breaker.Registry
	Monitor  *perf.Monitor
	Tracer   observe.Tracer  // optional; nil disables per-adapter-call spans
	Metrics  observe.Metrics // optional; nil disables the otel counter/histogram stream
	Timeout  time.Duration   // per-adapter call timeout, default 5s
}

// Dispatcher implements pipeline.Dispatcher.
type Dispatcher struct {
	config Config
}

// New creates a Dispatcher.
func New(config Config) *Dispatcher {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &Dispatcher{config: config}
}

// Dispatch implements pipeline.Dispatcher: it fans the call out across
// every registered adapter appropriate for tool, merges the successful
// results, and reports partial failures in the returned metadata map
// rather than failing the overall call, as long as at least one adapter
// succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, tool string, args map[string]any) (any, error) {
	start := time.Now()
	names := d.config.Registry.Names()
	if len(names) == 0 {
		return nil, apperror.NewSourceError("none", errors.New("no adapters registered"))
	}

	results := make([]any, 0, len(names))
	var outcomes []AdapterOutcome

	for _, name := range names {
		inst, err := d.config.Registry.Get(name)
		if err != nil {
			continue
		}
		data, callErr := d.callOne(ctx, name, tool, inst, args)
		outcomes = append(outcomes, AdapterOutcome{Adapter: name, Err: callErr})
		if callErr == nil {
			results = append(results, data)
		}
	}

	isError := len(results) == 0
	if d.config.Monitor != nil {
		durationMS := float64(time.Since(start)) / float64(time.Millisecond)
		d.config.Monitor.Record(tool, durationMS, isError)
	}

	if isError {
		return nil, apperror.NewSourceError(firstFailed(outcomes), errors.New("all adapters failed"))
	}

	return map[string]any{
		"results":  results,
		"partial":  len(results) < len(names),
		"outcomes": outcomes,
	}, nil
}

func (d *Dispatcher) callOne(ctx context.Context, adapterName, tool string, inst adapter.Adapter, args map[string]any) (any, error) {
	name := adapterName + "." + tool
	cb, err := d.config.Breakers.GetOrCreate(name, breaker.ClassExternalService)
	if err != nil {
		return nil, err
	}

	meta := observe.ToolMeta{Name: tool, Namespace: adapterName}

	var span trace.Span
	if d.config.Tracer != nil {
		ctx, span = d.config.Tracer.StartSpan(ctx, meta)
	}

	start := time.Now()
	var result any
	execErr := cb.Execute(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
		data, callErr := invoke(callCtx, tool, inst, args)
		result = data
		return callErr
	})

	if span != nil {
		d.config.Tracer.EndSpan(span, execErr)
	}
	if d.config.Metrics != nil {
		d.config.Metrics.RecordExecution(ctx, meta, time.Since(start), execErr)
	}

	switch {
	case execErr == nil:
		return result, nil
	case errors.Is(execErr, breaker.ErrOpen), errors.Is(execErr, breaker.ErrHalfOpenLimitReached):
		return nil, apperror.NewCircuitOpenError(name, 0)
	case errors.Is(execErr, breaker.ErrTimeoutExceeded):
		return nil, apperror.NewTimeoutError(0, execErr)
	default:
		return nil, apperror.NewSourceError(adapterName, execErr)
	}
}

func invoke(ctx context.Context, tool string, inst adapter.Adapter, args map[string]any) (any, error) {
	switch tool {
	case "search_knowledge_base":
		query, _ := args["query"].(string)
		return inst.Search(ctx, query, args)
	case "search_runbooks":
		alertType, _ := args["alert_type"].(string)
		severity, _ := args["severity"].(string)
		systems, _ := args["affected_systems"].([]string)
		return inst.SearchRunbooks(ctx, alertType, severity, systems)
	case "get_procedure", "get_decision_tree":
		id, _ := args["id"].(string)
		return inst.GetDocument(ctx, id)
	case "list_sources":
		return inst.GetMetadata(), nil
	default:
		return nil, nil
	}
}

func firstFailed(outcomes []AdapterOutcome) string {
	for _, o := range outcomes {
		if o.Err != nil {
			return o.Adapter
		}
	}
	return "unknown"
}
