package alerting

import (
	"context"
	"sync"
	"time"

	"github.com/opsknowledge/retrieval-core/observe"
)

// Sink receives a notification whenever an alert is raised or resolved.
type Sink interface {
	Notify(ctx context.Context, alert Alert, event string) error
}

// Config configures the alerting Service.
type Config struct {
	CheckInterval      time.Duration // default 30s
	MaxActiveAlerts    int           // default 50
	RetentionHours     int           // default 72
	Rules              []Rule        // default DefaultRules()
	SnapshotFn         func(ctx context.Context) Snapshot
	Sinks              []Sink
	Logger             observe.Logger
}

func (c *Config) applyDefaults() {
	if c.CheckInterval <= 0 {
		c.CheckInterval = 30 * time.Second
	}
	if c.MaxActiveAlerts <= 0 {
		c.MaxActiveAlerts = 50
	}
	if c.RetentionHours <= 0 {
		c.RetentionHours = 72
	}
	if c.Rules == nil {
		c.Rules = DefaultRules()
	}
}

// Service runs the periodic rule-evaluation loop and owns the alert Store.
type Service struct {
	config Config
	store  *Store

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewService creates a Service. Call Start to begin the evaluation loop.
func NewService(config Config) *Service {
	config.applyDefaults()
	svc := &Service{config: config}
	svc.store = NewStore(config.MaxActiveAlerts, time.Duration(config.RetentionHours)*time.Hour, svc.onSkip)
	return svc
}

// Start launches the evaluation loop. Calling it again replaces any
// previously running loop.
func (s *Service) Start(ctx context.Context) {
	s.Stop()

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.stopped = make(chan struct{})
	stopped := s.stopped
	s.mu.Unlock()

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(s.config.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

// Stop cancels the evaluation loop and waits for it to exit. Idempotent.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	stopped := s.stopped
	s.cancel = nil
	s.stopped = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-stopped
	}
}

// Tick runs one evaluation cycle immediately; exported so callers (and
// tests) can drive the loop deterministically instead of waiting on a timer.
func (s *Service) Tick(ctx context.Context) {
	s.tick(ctx)
}

func (s *Service) tick(ctx context.Context) {
	if s.config.SnapshotFn == nil {
		return
	}
	snapshot := s.config.SnapshotFn(ctx)
	now := time.Now()

	for _, rule := range s.config.Rules {
		if !rule.Enabled {
			continue
		}
		triggered := rule.Predicate(snapshot)
		if triggered {
			if !s.store.ReadyToTrigger(rule.ID, rule.Cooldown, now) {
				continue
			}
			if alert := s.store.Raise(rule, snapshot, now); alert != nil {
				s.notifyAll(ctx, *alert, "raised")
			}
			continue
		}
		if alert := s.store.Resolve(rule.ID, now); alert != nil {
			s.notifyAll(ctx, *alert, "resolved")
		}
	}
}

func (s *Service) notifyAll(ctx context.Context, alert Alert, event string) {
	for _, sink := range s.config.Sinks {
		if err := sink.Notify(ctx, alert, event); err != nil {
			s.warnf(ctx, "alerting: sink notify failed", alert.RuleID, err)
		}
	}
}

func (s *Service) onSkip(ruleID string) {
	if s.config.Logger == nil {
		return
	}
	s.config.Logger.Warn(context.Background(), "alerting: alert skipped, max_active_alerts reached",
		observe.Field{Key: "rule_id", Value: ruleID})
}

func (s *Service) warnf(ctx context.Context, msg, ruleID string, err error) {
	if s.config.Logger == nil {
		return
	}
	s.config.Logger.Warn(ctx, msg,
		observe.Field{Key: "rule_id", Value: ruleID},
		observe.Field{Key: "error", Value: err.Error()})
}

// ResolveAlert manually resolves the active alert with the given id,
// notifying sinks as "resolved_manual". Reports false if no active alert
// has that id.
func (s *Service) ResolveAlert(ctx context.Context, id string) (Alert, bool) {
	alert := s.store.ResolveByID(id, time.Now())
	if alert == nil {
		return Alert{}, false
	}
	s.notifyAll(ctx, *alert, "resolved_manual")
	return *alert, true
}

// Active returns currently active alerts, ordered by raise time.
func (s *Service) Active() []Alert { return s.store.Active() }

// History returns every alert raised so far (after retention pruning).
func (s *Service) History() []Alert { return s.store.History() }

// Rules returns the configured rule set.
func (s *Service) Rules() []Rule { return s.config.Rules }
