package pagerduty

import (
	"context"
	"os"
	"testing"
	"time"
)

func newTestReloader(h *Holder) *Reloader {
	return NewReloader(h, func() *Callback { return NewCallback(&recordingTransport{}) })
}

func TestReloaderApply(t *testing.T) {
	h := &Holder{}
	r := newTestReloader(h)

	if err := r.Apply(validRaw()); err != nil {
		t.Fatal(err)
	}
	first := h.Load()
	if first == nil {
		t.Fatal("valid configuration was not published")
	}

	if err := r.Apply(RawConfiguration{KeyServiceKey: "short"}); err == nil {
		t.Fatal("expected error for invalid configuration")
	}
	if h.Load() != first {
		t.Fatal("invalid configuration replaced the running callback")
	}

	next := validRaw()
	next[KeyClient] = "graylog-staging"
	if err := r.Apply(next); err != nil {
		t.Fatal(err)
	}
	if h.Load() == first {
		t.Fatal("valid change did not publish a new callback")
	}
	if h.Load().Attributes()[KeyClient] != "graylog-staging" {
		t.Fatalf("attributes = %v", h.Load().Attributes())
	}
}

func TestFileWatcherReloads(t *testing.T) {
	p := writeConfig(t, "service_key: abcdefghijklmnopqrstuvwxyz123456\nclient: before\n")

	h := &Holder{}
	r := newTestReloader(h)
	raw, err := LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Apply(raw); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewFileWatcher(p, r)
	go w.Run(ctx)

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(p, []byte("service_key: abcdefghijklmnopqrstuvwxyz123456\nclient: after\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if h.Load().Attributes()[KeyClient] == "after" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("configuration not reloaded, attributes = %v", h.Load().Attributes())
}

func TestNewConsulWatcher(t *testing.T) {
	w, err := NewConsulWatcher("127.0.0.1:8500", "pagerduty", newTestReloader(&Holder{}))
	if err != nil {
		t.Fatal(err)
	}
	if w.wp.Handler == nil {
		t.Fatal("watch plan has no handler")
	}
}

func TestConsulWatcherHandler(t *testing.T) {
	h := &Holder{}
	w, err := NewConsulWatcher("127.0.0.1:8500", "/pagerduty/", newTestReloader(h))
	if err != nil {
		t.Fatal(err)
	}

	w.wp.Handler(3, "unexpected")
	if h.Load() != nil {
		t.Fatal("unknown payload published a callback")
	}

	w.wp.Handler(4, pairsFor("pagerduty/", map[string]string{
		KeyServiceKey: testServiceKey,
		KeyClient:     "from-consul",
	}))
	if h.Load() == nil || h.Load().Attributes()[KeyClient] != "from-consul" {
		t.Fatal("consul change was not applied")
	}
}
