package pagerduty

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetLevel(logrus.DebugLevel)
}

type testCallback struct {
	handled []AlertEvent
	err     error
}

func (t *testCallback) Initialize(RawConfiguration) error { return nil }

func (t *testCallback) Handle(_ context.Context, ev AlertEvent) error {
	t.handled = append(t.handled, ev)
	return t.err
}

func (t *testCallback) RequestedConfiguration() ConfigurationRequest { return ConfigurationRequest{} }
func (t *testCallback) Attributes() map[string]any                   { return map[string]any{} }
func (t *testCallback) CheckConfiguration() error                    { return nil }
func (t *testCallback) Name() string                                 { return "test" }

func testEvent(streamID, conditionID string) *AlertEvent {
	return &AlertEvent{
		Stream: Stream{ID: streamID, Title: "stream " + streamID},
		Result: CheckResult{
			ConditionID:          conditionID,
			ConditionDescription: "message count > 10",
			TriggeredAt:          time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
			MatchedMessages:      11,
		},
	}
}

func TestProcessEvent(t *testing.T) {
	cb := &testCallback{}
	holder := &Holder{}
	holder.Store(cb)

	pro := NewProcessor(nil, holder)
	if err := pro.processEvent(context.Background(), testEvent("S1", "C1")); err != nil {
		t.Fatal(err)
	}

	if len(cb.handled) != 1 {
		t.Fatalf("handled %d events, want 1", len(cb.handled))
	}
	if cb.handled[0].Stream.ID != "S1" {
		t.Fatalf("handled stream %q, want S1", cb.handled[0].Stream.ID)
	}
}

func TestProcessEventDoesNotRetry(t *testing.T) {
	cb := &testCallback{err: &TransportError{StatusCode: 500}}
	holder := &Holder{}
	holder.Store(cb)

	pro := NewProcessor(nil, holder)
	err := pro.processEvent(context.Background(), testEvent("S1", "C1"))
	if KindOf(err) != TransportFailure {
		t.Fatalf("kind = %v, want transport failure", KindOf(err))
	}
	if len(cb.handled) != 1 {
		t.Fatalf("handled %d times, want exactly 1", len(cb.handled))
	}
}

func TestProcessEventWithoutCallback(t *testing.T) {
	pro := NewProcessor(nil, &Holder{})
	if err := pro.processEvent(context.Background(), testEvent("S1", "C1")); !errors.Is(err, errNoCallback) {
		t.Fatalf("err = %v, want errNoCallback", err)
	}
}

func TestRunDrainsUntilClosed(t *testing.T) {
	cb := &testCallback{}
	holder := &Holder{}
	holder.Store(cb)

	drain := make(chan *AlertEvent, 3)
	drain <- testEvent("S1", "C1")
	drain <- testEvent("S1", "C2")
	drain <- testEvent("S2", "C1")
	close(drain)

	NewProcessor(drain, holder).Run(context.Background())

	if len(cb.handled) != 3 {
		t.Fatalf("handled %d events, want 3", len(cb.handled))
	}
}

func TestRunStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewProcessor(make(chan *AlertEvent), &Holder{}).Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop")
	}
}

func TestHolderSwap(t *testing.T) {
	h := &Holder{}
	if h.Load() != nil {
		t.Fatal("empty holder returned a callback")
	}

	first, second := &testCallback{}, &testCallback{}
	h.Store(first)
	h.Store(second)
	if h.Load() != AlarmCallback(second) {
		t.Fatal("holder did not return the latest callback")
	}
}
