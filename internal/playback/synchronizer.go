// Package playback keeps the session's video playback resource aligned with
// whichever record is currently visible, avoiding needless teardown and
// rebuild while paging across mixed media.
package playback

import (
	"log/slog"

	"github.com/lumeview/backend/internal/media"
)

// VideoResource is the externally-provided playback handle. The synchronizer
// is its sole owner: no other component may drive it directly.
type VideoResource interface {
	Load(locator string)
	SeekToDefault()
	Prepare()
	SetAutoplay(enabled bool)
	Play()
	Pause()
	Stop()
	Release()
}

// Factory creates the playback resource on first need.
type Factory func() VideoResource

// Synchronizer lazily creates a single video resource for the session
// lifetime and reconfigures it as the visible record changes. The resource is
// never recreated; it is released only at teardown.
type Synchronizer struct {
	factory    Factory
	resource   VideoResource
	lastPlayed string
	logger     *slog.Logger
}

// NewSynchronizer constructs a synchronizer. The factory is invoked at most
// once, the first time a video record becomes visible.
func NewSynchronizer(factory Factory, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	if factory == nil {
		factory = func() VideoResource { return NoopResource{} }
	}
	return &Synchronizer{factory: factory, logger: logger}
}

// NoopResource is the playback handle used when no real player is attached.
type NoopResource struct{}

func (NoopResource) Load(string)       {}
func (NoopResource) SeekToDefault()    {}
func (NoopResource) Prepare()          {}
func (NoopResource) SetAutoplay(bool)  {}
func (NoopResource) Play()             {}
func (NoopResource) Pause()            {}
func (NoopResource) Stop()             {}
func (NoopResource) Release()          {}

// OnPositionChanged reacts to the session's current record changing.
//
// For a video record with a new locator the source is loaded, the position
// reset, preparation started, and autoplay armed. The same locator twice is a
// no-op: the source is already loaded, e.g. when returning from a
// configuration-triggered rebuild. Any non-video record stops playback and
// clears the last-played locator, so coming back to the same video reloads it
// instead of silently staying stopped.
func (s *Synchronizer) OnPositionChanged(record media.Record) {
	if record.Type == media.TypeVideo {
		locator := record.ExternalRef()
		if locator == s.lastPlayed {
			return
		}
		res := s.ensureCreated()
		s.lastPlayed = locator
		res.Load(locator)
		res.SeekToDefault()
		res.Prepare()
		res.SetAutoplay(true)
		s.logger.Debug("playback source loaded", "locator", locator)
		return
	}

	if s.resource != nil {
		s.resource.Stop()
	}
	s.lastPlayed = ""
}

// Resume plays if a resource exists and the active record is a video.
func (s *Synchronizer) Resume(current *media.Record) {
	if s.resource == nil || current == nil || current.Type != media.TypeVideo {
		return
	}
	s.resource.Play()
}

// Pause pauses playback when a resource exists.
func (s *Synchronizer) Pause() {
	if s.resource == nil {
		return
	}
	s.resource.Pause()
}

// Teardown releases the resource at session end. The synchronizer must not be
// used afterwards.
func (s *Synchronizer) Teardown() {
	if s.resource != nil {
		s.resource.Release()
		s.resource = nil
	}
	s.lastPlayed = ""
}

// LastPlayed exposes the last loaded locator for state snapshots.
func (s *Synchronizer) LastPlayed() string {
	return s.lastPlayed
}

func (s *Synchronizer) ensureCreated() VideoResource {
	if s.resource == nil {
		s.resource = s.factory()
	}
	return s.resource
}
