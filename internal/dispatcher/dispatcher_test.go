package dispatcher

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Falloutization/royalty/internal/intercept"
	"github.com/Falloutization/royalty/pkg/core"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) log(level, msg string, keysAndValues []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("%s: %s %v", level, msg, keysAndValues))
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) { l.log("DEBUG", msg, keysAndValues) }
func (l *testLogger) Info(msg string, keysAndValues ...any) { l.log("INFO", msg, keysAndValues) }
func (l *testLogger) Warn(msg string, keysAndValues ...any) { l.log("WARN", msg, keysAndValues) }
func (l *testLogger) Error(msg string, keysAndValues ...any) { l.log("ERROR", msg, keysAndValues) }

func (l *testLogger) has(prefix string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, msg := range l.messages {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// recorder implements Recorder for testing
type recorder struct {
	entries []*core.Intervention
	err     error
}

func (r *recorder) RecordIntervention(i *core.Intervention) error {
	r.entries = append(r.entries, i)
	return r.err
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	logger := &testLogger{}

	d, err := New(logger)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}

	return d, logger
}

func TestDispatcher_Override(t *testing.T) {
	d, _ := newTestDispatcher(t)

	called := false
	d.Register("test:hook", func(e Event) (intercept.Result, error) {
		called = true
		return intercept.Override("result"), nil
	})

	result, err := d.Dispatch(Event{Hook: "test:hook", QuestID: 1})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !called {
		t.Error("handler was not called")
	}
	if !result.Overridden() || result.Value() != "result" {
		t.Errorf("expected override with 'result', got %+v", result)
	}
}

func TestDispatcher_UnknownHookDefers(t *testing.T) {
	d, _ := newTestDispatcher(t)

	result, err := d.Dispatch(Event{Hook: "unknown"})

	if err == nil {
		t.Error("expected error for unknown hook")
	}
	if result.Overridden() {
		t.Error("unknown hook must defer to the host")
	}
}

func TestDispatcher_ErrorForcesDefer(t *testing.T) {
	d, _ := newTestDispatcher(t)

	d.Register("test:declines", func(e Event) (intercept.Result, error) {
		return intercept.Override("ignored"), intercept.ErrMissingOwner
	})

	result, err := d.Dispatch(Event{Hook: "test:declines"})

	if !errors.Is(err, intercept.ErrMissingOwner) {
		t.Errorf("expected ErrMissingOwner, got %v", err)
	}
	if result.Overridden() {
		t.Error("a declining handler must never override")
	}
}

func TestDispatcher_LoggedHandler(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("test:logged", func(e Event) (intercept.Result, error) {
		return intercept.Defer(), nil
	}, Logged())

	d.Dispatch(Event{Hook: "test:logged"})

	logger.mu.Lock()
	n := len(logger.messages)
	logger.mu.Unlock()

	if n < 2 {
		t.Errorf("expected at least 2 log messages, got %d", n)
	}
}

func TestDispatcher_LoggedHandlerDecline(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("test:decline", func(e Event) (intercept.Result, error) {
		return intercept.Defer(), fmt.Errorf("test decline")
	}, Logged())

	d.Dispatch(Event{Hook: "test:decline"})

	if !logger.has("WARN") {
		t.Error("expected warn log message")
	}
}

func TestDispatcher_Journaled(t *testing.T) {
	d, _ := newTestDispatcher(t)
	rec := &recorder{}

	thing := &core.Thing{ID: "thing-1"}
	d.Register("test:override", func(e Event) (intercept.Result, error) {
		return intercept.Override(thing), nil
	}, Journaled(rec))
	d.Register("test:defer", func(e Event) (intercept.Result, error) {
		return intercept.Defer(), nil
	}, Journaled(rec))
	d.Register("test:decline", func(e Event) (intercept.Result, error) {
		return intercept.Defer(), intercept.ErrMissingDelayStep
	}, Journaled(rec))

	d.Dispatch(Event{Hook: "test:override", QuestID: 4})
	d.Dispatch(Event{Hook: "test:defer", QuestID: 4})
	d.Dispatch(Event{Hook: "test:decline", QuestID: 5})

	if len(rec.entries) != 3 {
		t.Fatalf("expected 3 journal entries, got %d", len(rec.entries))
	}
	if rec.entries[0].Outcome != core.OutcomeOverride || rec.entries[0].Subject != "thing-1" {
		t.Errorf("unexpected override entry: %+v", rec.entries[0])
	}
	if rec.entries[1].Outcome != core.OutcomeDefer {
		t.Errorf("unexpected defer entry: %+v", rec.entries[1])
	}
	if rec.entries[2].Outcome != core.OutcomeDeclined || rec.entries[2].QuestID != 5 {
		t.Errorf("unexpected decline entry: %+v", rec.entries[2])
	}
	if rec.entries[2].Reason != intercept.ErrMissingDelayStep.Error() {
		t.Errorf("expected decline reason, got %q", rec.entries[2].Reason)
	}
	if rec.entries[0].Time.IsZero() {
		t.Error("expected dispatch to stamp the event time")
	}
}

func TestDispatcher_JournalFailureIsLogged(t *testing.T) {
	d, logger := newTestDispatcher(t)
	rec := &recorder{err: errors.New("disk full")}

	d.Register("test:hook", func(e Event) (intercept.Result, error) {
		return intercept.Defer(), nil
	}, Journaled(rec))

	if _, err := d.Dispatch(Event{Hook: "test:hook"}); err != nil {
		t.Errorf("journal failure must not fail the dispatch: %v", err)
	}
	if !logger.has("ERROR") {
		t.Error("expected error log message")
	}
}

func TestDispatcher_HasHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	d.Register("test:exists", func(e Event) (intercept.Result, error) { return intercept.Defer(), nil })

	if !d.HasHandler("test:exists") {
		t.Error("expected handler to exist")
	}

	if d.HasHandler("test:missing") {
		t.Error("expected handler to not exist")
	}

	if d.Hooks() != 1 {
		t.Errorf("expected 1 hook, got %d", d.Hooks())
	}
}
