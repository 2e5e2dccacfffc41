package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Falloutization/royalty/internal/intercept"
	"github.com/Falloutization/royalty/pkg/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Falloutization/royalty/internal/dispatcher"

// Event is one intercepted call from the host.
type Event struct {
	Hook      string
	QuestID   int
	Target    any
	Timestamp time.Time
}

// HandlerFunc decides whether to replace the host's behaviour for an event.
// A non-nil error means the handler declined; the host default runs.
type HandlerFunc func(Event) (intercept.Result, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Recorder receives one record per hook decision.
type Recorder interface {
	RecordIntervention(i *core.Intervention) error
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged   bool
	recorder Recorder
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Journaled records every decision of the handler with rec.
func Journaled(rec Recorder) Option {
	return func(c *config) {
		c.recorder = rec
	}
}

// Dispatcher routes host calls to registered hooks.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	logger   Logger

	// OTEL metrics
	registered metric.Int64ObservableGauge
	overridden metric.Int64Counter
	deferred   metric.Int64Counter
	declined   metric.Int64Counter
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}

	m := otel.Meter(instrumentationName)

	var err error

	d.registered, err = m.Int64ObservableGauge(
		"dispatcher.hooks.registered",
		metric.WithDescription("Number of registered hooks"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registered gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			o.ObserveInt64(d.registered, int64(len(d.handlers)))
			return nil
		},
		d.registered,
	)
	if err != nil {
		return nil, fmt.Errorf("registering hooks callback: %w", err)
	}

	d.overridden, err = m.Int64Counter(
		"intercept.overridden",
		metric.WithDescription("Host calls replaced by a hook"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating overridden counter: %w", err)
	}

	d.deferred, err = m.Int64Counter(
		"intercept.deferred",
		metric.WithDescription("Host calls left to the default behaviour"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating deferred counter: %w", err)
	}

	d.declined, err = m.Int64Counter(
		"intercept.declined",
		metric.WithDescription("Host calls a hook declined because of a missing precondition"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating declined counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given hook with optional configuration.
// Registering the same hook twice replaces the earlier handler.
func (d *Dispatcher) Register(hook string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.recorder != nil {
		handler = d.withJournal(cfg.recorder, handler)
	}

	if cfg.logged {
		handler = d.withLogging(hook, handler)
	}

	d.mu.Lock()
	d.handlers[hook] = handler
	d.mu.Unlock()
}

// Dispatch routes an event to its registered handler. Whatever happens the
// returned Result is usable: errors always come with Defer.
func (d *Dispatcher) Dispatch(e Event) (intercept.Result, error) {
	d.mu.RLock()
	h, ok := d.handlers[e.Hook]
	d.mu.RUnlock()
	if !ok {
		return intercept.Defer(), fmt.Errorf("unknown hook: %s", e.Hook)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	hookAttr := metric.WithAttributes(attribute.String("hook", e.Hook))

	result, err := h(e)
	switch {
	case err != nil:
		d.declined.Add(context.Background(), 1, hookAttr)
		return intercept.Defer(), err
	case result.Overridden():
		d.overridden.Add(context.Background(), 1, hookAttr)
	default:
		d.deferred.Add(context.Background(), 1, hookAttr)
	}
	return result, nil
}

// HasHandler returns true if a handler is registered for the hook.
func (d *Dispatcher) HasHandler(hook string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[hook]
	return ok
}

// Hooks returns the number of registered hooks.
func (d *Dispatcher) Hooks() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers)
}

func (d *Dispatcher) withLogging(hook string, h HandlerFunc) HandlerFunc {
	return func(e Event) (intercept.Result, error) {
		start := time.Now()
		d.logger.Debug("handling hook", "hook", hook, "quest", e.QuestID)

		result, err := h(e)

		if err != nil {
			d.logger.Warn("hook declined, falling back to original", "hook", hook, "quest", e.QuestID, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("hook complete", "hook", hook, "quest", e.QuestID, "override", result.Overridden(), "duration", time.Since(start))
		}

		return result, err
	}
}

func (d *Dispatcher) withJournal(rec Recorder, h HandlerFunc) HandlerFunc {
	return func(e Event) (intercept.Result, error) {
		result, err := h(e)

		entry := &core.Intervention{
			QuestID: e.QuestID,
			Hook:    e.Hook,
			Outcome: core.OutcomeDefer,
			Time:    e.Timestamp,
			Detail:  map[string]string{"target": fmt.Sprintf("%T", e.Target)},
		}
		switch {
		case err != nil:
			entry.Outcome = core.OutcomeDeclined
			entry.Reason = err.Error()
		case result.Overridden():
			entry.Outcome = core.OutcomeOverride
			entry.Subject = subjectID(result.Value())
		}

		if recErr := rec.RecordIntervention(entry); recErr != nil {
			d.logger.Error("failed to journal hook decision", "hook", e.Hook, "error", recErr)
		}

		return result, err
	}
}

// subjectID names the object a hook produced.
func subjectID(v any) string {
	switch s := v.(type) {
	case *core.Thing:
		if s != nil {
			return s.ID
		}
	case *core.TransportShip:
		if s != nil && s.ShipThing != nil {
			return s.ShipThing.ID
		}
	case fmt.Stringer:
		return s.String()
	}
	return ""
}
