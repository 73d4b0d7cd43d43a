package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lumeview/backend/internal/media"
)

type listerStub struct {
	mu      sync.Mutex
	records []media.Record
}

func (s *listerStub) ListAlbum(_ context.Context, _ int64) ([]media.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records, nil
}

func (s *listerStub) set(records []media.Record) {
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
}

func receiveSnapshot(t *testing.T, w *AlbumWatch) []media.Record {
	t.Helper()
	select {
	case snapshot := <-w.Snapshots():
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestWatchAlbumEmitsOnChange(t *testing.T) {
	rec := media.Record{ID: 1, BucketID: 10, Type: media.TypeImage}
	lister := &listerStub{records: []media.Record{rec}}

	w := WatchAlbum(lister, 10, 5*time.Millisecond, nil)
	defer w.Stop()

	first := receiveSnapshot(t, w)
	if len(first) != 1 || first[0].ID != 1 {
		t.Fatalf("unexpected initial snapshot: %+v", first)
	}

	// An unchanged poll must not emit; flipping a flag must.
	flipped := rec
	flipped.Favorite = true
	lister.set([]media.Record{flipped})

	second := receiveSnapshot(t, w)
	if len(second) != 1 || !second[0].Favorite {
		t.Fatalf("expected the favorite flip to emit, got %+v", second)
	}
}

func TestWatchAlbumEmitsEmptyInitialSnapshot(t *testing.T) {
	lister := &listerStub{}

	w := WatchAlbum(lister, 10, 5*time.Millisecond, nil)
	defer w.Stop()

	if snapshot := receiveSnapshot(t, w); len(snapshot) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", snapshot)
	}
}

func TestWatchAlbumStopClosesChannel(t *testing.T) {
	lister := &listerStub{}

	w := WatchAlbum(lister, 10, time.Minute, nil)
	receiveSnapshot(t, w)
	w.Stop()

	select {
	case _, ok := <-w.Snapshots():
		if ok {
			t.Fatal("expected closed channel after stop")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after stop")
	}
}

func TestPublishCoalescesToFreshest(t *testing.T) {
	w := &AlbumWatch{snapshots: make(chan []media.Record, 1)}
	ctx := context.Background()

	stale := []media.Record{{ID: 1}}
	fresh := []media.Record{{ID: 1}, {ID: 2}}

	w.publish(ctx, stale)
	w.publish(ctx, fresh)

	got := <-w.snapshots
	if len(got) != 2 {
		t.Fatalf("expected the freshest snapshot, got %+v", got)
	}
	select {
	case extra := <-w.snapshots:
		t.Fatalf("unexpected second snapshot: %+v", extra)
	default:
	}
}
