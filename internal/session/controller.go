// Package session holds the viewing-session state machine: it ingests the
// resolved media reference, owns the ordered record sequence and the current
// position, and drives the destructive-action coordinator and the playback
// synchronizer. All session state is mutated from a single event-loop
// goroutine; background work posts discrete events onto it.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumeview/backend/internal/actions"
	"github.com/lumeview/backend/internal/media"
	"github.com/lumeview/backend/internal/playback"
	"github.com/lumeview/backend/internal/resolver"
)

// State names the lifecycle phase of a session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateResolving     State = "resolving"
	StateReady         State = "ready"
	StateEmpty         State = "empty"
	StateTerminated    State = "terminated"
)

// AlbumFeed streams album sequence snapshots. Satisfied by catalog.AlbumWatch.
type AlbumFeed interface {
	Snapshots() <-chan []media.Record
	Stop()
}

// AlbumWatcher opens a live query against the catalog for one album.
type AlbumWatcher interface {
	WatchAlbum(albumID int64) AlbumFeed
}

// ResolveEnqueuer schedules background reference resolution.
type ResolveEnqueuer interface {
	Enqueue(ctx context.Context, request resolver.OpenRequest, deliver func(media.Reference, error)) error
}

// PositionStore remembers viewing positions across session restarts.
type PositionStore interface {
	Get(ctx context.Context, key string) (int, bool, error)
	Set(ctx context.Context, key string, position int) error
	Clear(ctx context.Context, key string) error
}

// Config wires a controller to its collaborators.
type Config struct {
	Gate          Gate
	Resolver      ResolveEnqueuer
	Watcher       AlbumWatcher
	Positions     PositionStore
	Gateway       actions.Gateway
	PlayerFactory playback.Factory
	ActionTimeout time.Duration
	Logger        *slog.Logger
}

// Snapshot is the host-facing view of session state, published atomically on
// every transition.
type Snapshot struct {
	ID            string
	State         State
	Secure        bool
	ReadOnly      bool
	Position      int // -1 while unset
	Length        int
	Current       *media.Record
	Notice        string
	UndoAvailable bool
}

// Controller is the viewing-session state machine. Public methods may be
// called from any goroutine; they serialize onto the internal event loop.
type Controller struct {
	id     string
	secure bool
	logger *slog.Logger

	gate      Gate
	resolver  ResolveEnqueuer
	watcher   AlbumWatcher
	positions PositionStore

	events    chan func()
	done      chan struct{}
	closeOnce sync.Once

	// Loop-owned state below; never touched off-loop.
	state       State
	ref         media.Reference
	sequence    []media.Record
	position    int
	readOnly    bool
	notice      string
	undo        func()
	feed        AlbumFeed
	posKey      string
	coordinator *actions.Coordinator
	player      *playback.Synchronizer

	mu   sync.RWMutex
	snap Snapshot
}

// New constructs a controller in the Uninitialized state and starts its event
// loop.
func New(secure bool, cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gate := cfg.Gate
	if gate == nil {
		gate = OpenGate{}
	}

	c := &Controller{
		id:        uuid.NewString(),
		secure:    secure,
		logger:    logger,
		gate:      gate,
		resolver:  cfg.Resolver,
		watcher:   cfg.Watcher,
		positions: cfg.Positions,
		events:    make(chan func(), 32),
		done:      make(chan struct{}),
		state:     StateUninitialized,
		position:  -1,
		readOnly:  true,
	}
	c.logger = logger.With(slog.String("session_id", c.id))

	c.coordinator = actions.NewCoordinator(cfg.Gateway, c.post, actions.Hooks{
		Notice:    c.setNotice,
		OfferUndo: c.offerUndo,
		Applied:   c.onRecordApplied,
		Deleted:   c.onRecordDeleted,
	}, cfg.ActionTimeout, c.logger)
	c.player = playback.NewSynchronizer(cfg.PlayerFactory, c.logger)

	c.publish()
	go c.run()
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// Snapshot returns the last published session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// CurrentRecord returns the record at the current position. It fails when the
// sequence is empty.
func (c *Controller) CurrentRecord() (media.Record, error) {
	snap := c.Snapshot()
	if snap.Current == nil {
		return media.Record{}, ErrNoCurrentRecord
	}
	return *snap.Current, nil
}

// BeginRequest starts the session from an external open request. The access
// gate must pass first; resolution then runs on the background pool and its
// result arrives as a single event.
func (c *Controller) BeginRequest(ctx context.Context, request resolver.OpenRequest) {
	go func() {
		if err := c.gate.Wait(ctx); err != nil {
			c.post(func() { c.terminate("access prerequisite not satisfied") })
			return
		}
		c.post(func() { c.toResolving() })

		err := c.resolver.Enqueue(ctx, request, func(ref media.Reference, err error) {
			c.post(func() { c.onResolved(ref, err) })
		})
		if err != nil {
			c.post(func() { c.fatal(fmt.Errorf("schedule resolution: %w", err)) })
		}
	}()
}

// BeginReference starts the session from an already-constructed reference
// (direct record, album-only, or none).
func (c *Controller) BeginReference(ctx context.Context, ref media.Reference) {
	go func() {
		if err := c.gate.Wait(ctx); err != nil {
			c.post(func() { c.terminate("access prerequisite not satisfied") })
			return
		}
		c.post(func() {
			c.toResolving()
			c.onResolved(ref, nil)
		})
	}()
}

// MoveTo changes the current position. Indices are not clamped: out-of-range
// input is rejected and the session state left untouched.
func (c *Controller) MoveTo(index int) error {
	return c.call(func() error { return c.moveTo(index) })
}

// Favorite requests the favorite flag change on the current record.
func (c *Controller) Favorite(desired bool) error {
	return c.withCurrent(func(rec media.Record) { c.coordinator.SetFavorite(rec, desired) })
}

// Trash moves the current record to the trash, arming the undo affordance
// once the catalog confirms.
func (c *Controller) Trash() error {
	return c.withCurrent(func(rec media.Record) { c.coordinator.Trash(rec, true) })
}

// Restore moves the current record out of the trash.
func (c *Controller) Restore() error {
	return c.withCurrent(func(rec media.Record) { c.coordinator.Trash(rec, false) })
}

// Delete permanently removes the current record. The caller must have
// completed the explicit confirmation step.
func (c *Controller) Delete(confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	return c.withCurrent(func(rec media.Record) { c.coordinator.Delete(rec) })
}

// Undo invokes the outstanding undo affordance, if any.
func (c *Controller) Undo() error {
	return c.call(func() error {
		if c.undo == nil {
			return ErrNothingToUndo
		}
		undo := c.undo
		c.undo = nil
		undo()
		c.publish()
		return nil
	})
}

// Pause pauses playback.
func (c *Controller) Pause() {
	c.post(func() { c.player.Pause() })
}

// Resume resumes playback when the current record is a video.
func (c *Controller) Resume() {
	c.post(func() {
		current := c.current()
		c.player.Resume(current)
	})
}

// Teardown terminates the session and releases the playback resource. Events
// arriving afterwards are discarded.
func (c *Controller) Teardown() {
	c.post(func() {
		c.terminate("")
		c.closeOnce.Do(func() { close(c.done) })
	})
}

func (c *Controller) run() {
	for {
		select {
		case fn := <-c.events:
			fn()
		case <-c.done:
			return
		}
	}
}

// post serializes fn onto the event loop, reporting false once the session is
// gone.
func (c *Controller) post(fn func()) bool {
	select {
	case <-c.done:
		return false
	case c.events <- fn:
		return true
	}
}

// call posts fn and waits for its result.
func (c *Controller) call(fn func() error) error {
	errCh := make(chan error, 1)
	if !c.post(func() { errCh <- fn() }) {
		return ErrTerminated
	}
	select {
	case err := <-errCh:
		return err
	case <-c.done:
		return ErrTerminated
	}
}

func (c *Controller) withCurrent(fn func(media.Record)) error {
	return c.call(func() error {
		if c.state != StateReady {
			return ErrNotReady
		}
		if c.readOnly {
			return ErrReadOnly
		}
		rec := c.sequence[c.position]
		fn(rec)
		return nil
	})
}

func (c *Controller) toResolving() {
	if c.state != StateUninitialized {
		return
	}
	c.state = StateResolving
	c.publish()
}

func (c *Controller) onResolved(ref media.Reference, err error) {
	if c.state == StateTerminated {
		c.logger.Debug("stale resolution discarded")
		return
	}
	if c.state != StateResolving {
		return
	}
	if err != nil {
		c.fatal(err)
		return
	}

	c.ref = ref
	c.posKey = positionKey(ref, c.id)

	switch ref.Kind {
	case media.RefNone:
		c.toEmpty()
	case media.RefExternalURI:
		rec := externalRecord(ref)
		c.applySequence([]media.Record{rec})
	case media.RefAlbumOnly:
		albumID, ok := ref.AlbumID()
		if !ok || c.watcher == nil {
			c.toEmpty()
			return
		}
		c.startWatch(albumID)
	case media.RefReviewPrimary, media.RefDirectRecord:
		albumID, ok := ref.AlbumID()
		if ok && c.watcher != nil {
			c.startWatch(albumID)
			return
		}
		c.applySequence(media.CombineAndSort(ref.Record, ref.Siblings))
	}
}

// startWatch opens the live album query; the session stays in Resolving until
// the first snapshot arrives.
func (c *Controller) startWatch(albumID int64) {
	feed := c.watcher.WatchAlbum(albumID)
	c.feed = feed
	go func() {
		for snapshot := range feed.Snapshots() {
			c.post(func() { c.onSequenceUpdated(snapshot) })
		}
	}()
}

// onSequenceUpdated applies a live sequence snapshot atomically: sequence and
// re-resolved position together, never observed half-updated.
func (c *Controller) onSequenceUpdated(sequence []media.Record) {
	switch c.state {
	case StateTerminated:
		return
	case StateResolving:
		if len(sequence) == 0 {
			c.toEmpty()
			return
		}
	case StateReady:
		if len(sequence) == 0 {
			c.forgetPosition()
			c.terminate("album is empty")
			return
		}
	default:
		return
	}
	c.applySequence(sequence)
}

func (c *Controller) applySequence(sequence []media.Record) {
	c.sequence = sequence
	c.position = c.resolvePosition(sequence)
	c.state = StateReady
	c.recomputeReadOnly()
	c.rememberPosition()
	c.player.OnPositionChanged(sequence[c.position])
	c.publish()
}

// resolvePosition picks the initial index: a remembered in-bounds position is
// reused verbatim, else the primary record's index by identifier, else zero.
func (c *Controller) resolvePosition(sequence []media.Record) int {
	if c.positions != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		pos, ok, err := c.positions.Get(ctx, c.posKey)
		cancel()
		if err != nil {
			c.logger.Warn("position recall failed", "key", c.posKey, "error", err)
		} else if ok && pos >= 0 && pos < len(sequence) {
			return pos
		}
	}

	if primaryID := c.ref.PrimaryID(); primaryID != 0 {
		for i, rec := range sequence {
			if rec.ID == primaryID {
				return i
			}
		}
	}
	return 0
}

func (c *Controller) moveTo(index int) error {
	if c.state != StateReady {
		return ErrNotReady
	}
	if index < 0 || index >= len(c.sequence) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(c.sequence))
	}
	c.position = index
	c.rememberPosition()
	c.player.OnPositionChanged(c.sequence[index])
	c.publish()
	return nil
}

func (c *Controller) rememberPosition() {
	if c.positions == nil || c.position < 0 {
		return
	}
	key, position := c.posKey, c.position
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.positions.Set(ctx, key, position); err != nil {
			c.logger.Warn("position persist failed", "key", key, "error", err)
		}
	}()
}

// forgetPosition drops the remembered position once the sequence is gone for
// good; a stale index would only mislead the next session on this key.
func (c *Controller) forgetPosition() {
	if c.positions == nil || c.posKey == "" {
		return
	}
	key := c.posKey
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.positions.Clear(ctx, key); err != nil {
			c.logger.Warn("position clear failed", "key", key, "error", err)
		}
	}()
}

// onRecordApplied swaps the refreshed record into a static sequence after a
// confirmed favorite, trash, or restore. Album-backed sequences refresh
// through the live query instead.
func (c *Controller) onRecordApplied(rec media.Record) {
	if c.state != StateReady || c.feed != nil {
		return
	}
	for i := range c.sequence {
		if c.sequence[i].ID == rec.ID {
			c.sequence[i] = rec
		}
	}
	c.publish()
}

// onRecordDeleted drops the current record from a static sequence after a
// confirmed permanent delete. Album-backed sequences refresh through the live
// query instead.
func (c *Controller) onRecordDeleted() {
	if c.state != StateReady || c.feed != nil {
		return
	}
	if c.position < 0 || c.position >= len(c.sequence) {
		return
	}
	sequence := append(c.sequence[:c.position:c.position], c.sequence[c.position+1:]...)
	if len(sequence) == 0 {
		c.forgetPosition()
		c.terminate("no items left")
		return
	}
	c.sequence = sequence
	if c.position >= len(sequence) {
		c.position = len(sequence) - 1
	}
	c.rememberPosition()
	c.player.OnPositionChanged(sequence[c.position])
	c.publish()
}

func (c *Controller) fatal(err error) {
	c.logger.Error("session resolution failed", "error", err)
	c.terminate(err.Error())
}

func (c *Controller) toEmpty() {
	c.sequence = nil
	c.position = -1
	c.state = StateEmpty
	c.recomputeReadOnly()
	c.publish()
}

func (c *Controller) terminate(notice string) {
	if c.state == StateTerminated {
		return
	}
	c.state = StateTerminated
	if notice != "" {
		c.notice = notice
	}
	if c.feed != nil {
		c.feed.Stop()
		c.feed = nil
	}
	c.player.Teardown()
	c.undo = nil
	c.publish()
}

// recomputeReadOnly derives the read-only flag: raw external locators, review
// sessions carrying siblings, references without a resolvable album, and
// secure sessions are all read-only.
func (c *Controller) recomputeReadOnly() {
	_, hasAlbum := c.ref.AlbumID()
	c.readOnly = c.ref.Kind == media.RefExternalURI ||
		c.ref.HasSiblings() ||
		!hasAlbum ||
		c.secure
}

func (c *Controller) setNotice(text string) {
	c.notice = text
	c.publish()
}

func (c *Controller) offerUndo(undo func()) {
	if c.state == StateTerminated {
		return
	}
	c.undo = undo
	c.publish()
}

func (c *Controller) current() *media.Record {
	if c.state != StateReady || c.position < 0 || c.position >= len(c.sequence) {
		return nil
	}
	rec := c.sequence[c.position]
	return &rec
}

func (c *Controller) publish() {
	snap := Snapshot{
		ID:            c.id,
		State:         c.state,
		Secure:        c.secure,
		ReadOnly:      c.readOnly,
		Position:      c.position,
		Length:        len(c.sequence),
		Current:       c.current(),
		Notice:        c.notice,
		UndoAvailable: c.undo != nil,
	}
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}

func positionKey(ref media.Reference, sessionID string) string {
	if albumID, ok := ref.AlbumID(); ok {
		return fmt.Sprintf("album:%d", albumID)
	}
	if primaryID := ref.PrimaryID(); primaryID != 0 {
		return fmt.Sprintf("primary:%d", primaryID)
	}
	return "session:" + sessionID
}

// externalRecord synthesizes the one-element sequence entry for a raw
// external locator.
func externalRecord(ref media.Reference) media.Record {
	return media.Record{
		DisplayName: path.Base(ref.Locator),
		Locator:     ref.Locator,
		Type:        ref.MediaType,
		MimeType:    ref.MimeType,
	}
}
