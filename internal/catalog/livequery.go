package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/lumeview/backend/internal/media"
)

// AlbumLister is the query surface the watcher polls. Satisfied by Store.
type AlbumLister interface {
	ListAlbum(ctx context.Context, albumID int64) ([]media.Record, error)
}

// AlbumWatch streams snapshots of an album's record sequence over time.
// Snapshots are coalesced: a slow consumer observes the latest state, never a
// half-applied one.
type AlbumWatch struct {
	snapshots chan []media.Record
	cancel    context.CancelFunc
	done      chan struct{}
}

// WatchAlbum polls the lister at the given interval and emits a snapshot
// whenever the album's sequence changes (full-tuple comparison per record).
// The first snapshot is emitted immediately after the initial query.
func WatchAlbum(lister AlbumLister, albumID int64, interval time.Duration, logger *slog.Logger) *AlbumWatch {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &AlbumWatch{
		snapshots: make(chan []media.Record, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go w.run(ctx, lister, albumID, interval, logger)
	return w
}

// Snapshots returns the channel of album sequence snapshots. The channel is
// closed when the watch stops.
func (w *AlbumWatch) Snapshots() <-chan []media.Record {
	return w.snapshots
}

// Stop terminates polling and closes the snapshot channel.
func (w *AlbumWatch) Stop() {
	w.cancel()
	<-w.done
}

func (w *AlbumWatch) run(ctx context.Context, lister AlbumLister, albumID int64, interval time.Duration, logger *slog.Logger) {
	defer close(w.done)
	defer close(w.snapshots)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		last    []media.Record
		emitted bool
	)

	for {
		records, err := lister.ListAlbum(ctx, albumID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("album poll failed", "albumId", albumID, "error", err)
		} else if !emitted || !media.SequencesEqual(last, records) {
			last = records
			emitted = true
			w.publish(ctx, records)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// publish replaces any pending snapshot so the consumer always sees the
// freshest sequence.
func (w *AlbumWatch) publish(ctx context.Context, records []media.Record) {
	for {
		select {
		case <-ctx.Done():
			return
		case w.snapshots <- records:
			return
		default:
		}
		select {
		case <-w.snapshots:
		default:
		}
	}
}
