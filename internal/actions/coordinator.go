// Package actions coordinates destructive catalog operations (trash, restore,
// favorite, permanent delete) issued against the record currently visible in a
// viewing session, including the single-slot undo window for trash.
package actions

import (
	"context"
	"log/slog"
	"time"

	"github.com/lumeview/backend/internal/media"
)

// Outcome reports the result of a destructive request. The confirmation
// channel does not distinguish user cancellation from execution failure; both
// arrive as OK == false and only the surfaced notice text differs.
type Outcome struct {
	OK bool
}

// Gateway is the external confirmation channel for destructive requests. Each
// call blocks until the catalog (or the user, for OS-level confirmations) has
// settled the request, and is invoked at most once per issued action.
type Gateway interface {
	RequestFavorite(ctx context.Context, recordID int64, desired bool) Outcome
	RequestTrash(ctx context.Context, recordID int64, desired bool) Outcome
	RequestDelete(ctx context.Context, recordID int64) Outcome
}

// Hooks carries the UI-facing callbacks. All hooks are invoked on the session
// event loop via the coordinator's post function.
type Hooks struct {
	// Notice surfaces a transient user-visible message.
	Notice func(text string)
	// OfferUndo surfaces an undo affordance; invoking the supplied function
	// restores the trashed record.
	OfferUndo func(undo func())
	// Applied is called with the post-confirmation record after a successful
	// favorite/trash/restore so the session can refresh a static sequence.
	Applied func(record media.Record)
	// Deleted is called after a successful permanent delete.
	Deleted func()
}

// Coordinator runs the trash/restore/favorite/delete workflow. All of its
// state is owned by the session event loop: public methods must only be called
// from that loop, and gateway outcomes are posted back onto it.
type Coordinator struct {
	gateway Gateway
	post    func(func()) bool
	hooks   Hooks
	timeout time.Duration
	logger  *slog.Logger

	// Single pending-undo slot. A second trash issued before the first
	// confirmation arrives overwrites it; the earlier record is then lost for
	// undo purposes.
	pending    media.Record
	pendingSet bool
}

// NewCoordinator wires a coordinator to its gateway. post must serialize the
// supplied function onto the session event loop, returning false once the
// session has been torn down.
func NewCoordinator(gateway Gateway, post func(func()) bool, hooks Hooks, timeout time.Duration, logger *slog.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		gateway: gateway,
		post:    post,
		hooks:   hooks,
		timeout: timeout,
		logger:  logger,
	}
}

// SetFavorite requests the favorite flag change for the record.
func (c *Coordinator) SetFavorite(record media.Record, desired bool) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		outcome := c.gateway.RequestFavorite(ctx, record.ID, desired)
		c.post(func() { c.onFavoriteOutcome(record, desired, outcome) })
	}()
}

// Trash requests a move to trash (desired true) or a restore (desired false).
// When trashing, the record is remembered as the pending-undo candidate before
// the request is issued.
func (c *Coordinator) Trash(record media.Record, desired bool) {
	if desired {
		c.pending = record
		c.pendingSet = true
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		outcome := c.gateway.RequestTrash(ctx, record.ID, desired)
		c.post(func() { c.onTrashOutcome(record, desired, outcome) })
	}()
}

// Delete permanently removes the record. Callers are responsible for the
// two-step confirmation before invoking this.
func (c *Coordinator) Delete(record media.Record) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		outcome := c.gateway.RequestDelete(ctx, record.ID)
		c.post(func() { c.onDeleteOutcome(record, outcome) })
	}()
}

// HasPendingUndo reports whether a trash confirmation is still outstanding.
func (c *Coordinator) HasPendingUndo() bool {
	return c.pendingSet
}

func (c *Coordinator) onTrashOutcome(record media.Record, desired bool, outcome Outcome) {
	// Capture the pending record by value, then clear the slot
	// unconditionally: the callback has fired, so the slot is spent whether or
	// not the undo affordance is ever used.
	captured := c.pending
	hadPending := c.pendingSet
	c.pending = media.Record{}
	c.pendingSet = false

	if !outcome.OK {
		if desired {
			c.notice("Could not move item to the trash")
		} else {
			c.notice("Could not restore item")
		}
		return
	}

	if desired {
		c.notice("Item moved to the trash")
		if hadPending && c.hooks.OfferUndo != nil {
			c.hooks.OfferUndo(func() { c.Trash(captured, false) })
		}
	} else {
		c.notice("Item restored")
	}
	if c.hooks.Applied != nil {
		record.Trashed = desired
		c.hooks.Applied(record)
	}
}

func (c *Coordinator) onFavoriteOutcome(record media.Record, desired bool, outcome Outcome) {
	if !outcome.OK {
		c.notice("Could not update favorite")
		return
	}
	if c.hooks.Applied != nil {
		record.Favorite = desired
		c.hooks.Applied(record)
	}
}

func (c *Coordinator) onDeleteOutcome(record media.Record, outcome Outcome) {
	if !outcome.OK {
		c.notice("Could not delete item")
		return
	}
	c.notice("Item deleted")
	if c.hooks.Deleted != nil {
		c.hooks.Deleted()
	}
}

func (c *Coordinator) notice(text string) {
	if c.hooks.Notice != nil {
		c.hooks.Notice(text)
	}
}
