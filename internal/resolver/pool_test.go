package resolver

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lumeview/backend/internal/media"
)

func TestPoolDeliversExactlyOnce(t *testing.T) {
	res := New(&lookupStub{}, proberStub{}, nil)
	pool := NewPool(res, PoolConfig{Workers: 1, QueueSize: 2}, nil)
	defer pool.Shutdown(context.Background())

	results := make(chan error, 2)
	err := pool.Enqueue(context.Background(), OpenRequest{
		Action:   ActionView,
		Locator:  "x",
		MimeHint: "image/jpeg",
	}, func(ref media.Reference, err error) {
		if ref.Kind != media.RefExternalURI {
			t.Errorf("expected external uri got %v", ref.Kind)
		}
		results <- err
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case err := <-results:
		if err != nil {
			t.Fatalf("unexpected resolution error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}

	select {
	case <-results:
		t.Fatal("callback delivered more than once")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPoolDeliversFailures(t *testing.T) {
	res := New(&lookupStub{}, proberStub{}, nil)
	pool := NewPool(res, PoolConfig{Workers: 1}, nil)
	defer pool.Shutdown(context.Background())

	results := make(chan error, 1)
	if err := pool.Enqueue(context.Background(), OpenRequest{Action: ActionView}, func(_ media.Reference, err error) {
		results <- err
	}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case err := <-results:
		if err != ErrMissingLocator {
			t.Fatalf("expected ErrMissingLocator got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestPoolRejectsAfterShutdown(t *testing.T) {
	res := New(&lookupStub{}, proberStub{}, nil)
	pool := NewPool(res, PoolConfig{Workers: 1}, nil)

	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	err := pool.Enqueue(context.Background(), OpenRequest{Action: ActionView, Locator: "x"}, func(media.Reference, error) {})
	if err != ErrPoolClosed {
		t.Fatalf("expected ErrPoolClosed got %v", err)
	}
}

// Enqueue and Shutdown may run concurrently: every accepted job must still be
// delivered, later attempts must see ErrPoolClosed, and nothing may panic on
// the closed queue.
func TestPoolShutdownDoesNotDropAcceptedJobs(t *testing.T) {
	res := New(&lookupStub{}, proberStub{}, nil)
	pool := NewPool(res, PoolConfig{Workers: 2, QueueSize: 4}, nil)

	var accepted, delivered atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				err := pool.Enqueue(context.Background(), OpenRequest{
					Action:   ActionView,
					Locator:  "x",
					MimeHint: "image/jpeg",
				}, func(media.Reference, error) { delivered.Add(1) })
				if err == nil {
					accepted.Add(1)
				} else if err != ErrPoolClosed {
					t.Errorf("unexpected enqueue error: %v", err)
				}
			}
		}()
	}

	time.Sleep(5 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	wg.Wait()

	if accepted.Load() != delivered.Load() {
		t.Fatalf("accepted %d jobs but delivered %d callbacks", accepted.Load(), delivered.Load())
	}
}
