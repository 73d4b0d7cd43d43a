package session

import (
	"testing"
	"time"
)

func newRegistryController(t *testing.T) *Controller {
	t.Helper()
	return New(false, newTestConfig(t, nil, proberStub{}, nil, nil))
}

func TestRegistryPutGetRemove(t *testing.T) {
	r := NewRegistry(time.Hour, nil)
	defer r.Stop()

	c := newRegistryController(t)
	r.Put(c)

	got, ok := r.Get(c.ID())
	if !ok || got != c {
		t.Fatalf("expected to get the stored session back, ok=%v", ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Fatal("unknown id must miss")
	}
	if r.Len() != 1 {
		t.Fatalf("expected one entry, got %d", r.Len())
	}

	r.Remove(c.ID())
	if _, ok := r.Get(c.ID()); ok {
		t.Fatal("removed session still retrievable")
	}
	waitForState(t, c, StateTerminated)
}

func TestRegistrySweepExpiresIdleSessions(t *testing.T) {
	r := NewRegistry(time.Hour, nil)
	defer r.Stop()

	clock := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	idle := newRegistryController(t)
	active := newRegistryController(t)
	r.Put(idle)
	r.Put(active)

	// Only the active session is touched after the idle TTL elapses.
	clock = clock.Add(2 * time.Hour)
	if _, ok := r.Get(active.ID()); !ok {
		t.Fatal("active session lost before sweep")
	}
	clock = clock.Add(30 * time.Minute)
	r.sweep()

	if _, ok := r.Get(idle.ID()); ok {
		t.Fatal("idle session survived the sweep")
	}
	if _, ok := r.Get(active.ID()); !ok {
		t.Fatal("recently touched session was swept")
	}
	waitForState(t, idle, StateTerminated)
}

func TestRegistryStopTearsDownEverything(t *testing.T) {
	r := NewRegistry(time.Hour, nil)

	a := newRegistryController(t)
	b := newRegistryController(t)
	r.Put(a)
	r.Put(b)

	r.Stop()
	if r.Len() != 0 {
		t.Fatalf("expected empty registry after stop, got %d", r.Len())
	}
	waitForState(t, a, StateTerminated)
	waitForState(t, b, StateTerminated)
}
