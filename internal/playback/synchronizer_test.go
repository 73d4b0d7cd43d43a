package playback

import (
	"testing"

	"github.com/lumeview/backend/internal/media"
)

type fakeResource struct {
	ops     []string
	loaded  string
	created int
}

func (f *fakeResource) Load(locator string) {
	f.loaded = locator
	f.ops = append(f.ops, "load:"+locator)
}
func (f *fakeResource) SeekToDefault()        { f.ops = append(f.ops, "seek") }
func (f *fakeResource) Prepare()              { f.ops = append(f.ops, "prepare") }
func (f *fakeResource) SetAutoplay(on bool)   { f.ops = append(f.ops, "autoplay") }
func (f *fakeResource) Play()                 { f.ops = append(f.ops, "play") }
func (f *fakeResource) Pause()                { f.ops = append(f.ops, "pause") }
func (f *fakeResource) Stop()                 { f.ops = append(f.ops, "stop") }
func (f *fakeResource) Release()              { f.ops = append(f.ops, "release") }

func videoRecord(id int64) media.Record {
	return media.Record{ID: id, Type: media.TypeVideo, MimeType: "video/mp4"}
}

func imageRecord(id int64) media.Record {
	return media.Record{ID: id, Type: media.TypeImage, MimeType: "image/jpeg"}
}

func newFixture() (*Synchronizer, *fakeResource) {
	res := &fakeResource{}
	sync := NewSynchronizer(func() VideoResource {
		res.created++
		return res
	}, nil)
	return sync, res
}

func TestVideoLoadsAndAutoplays(t *testing.T) {
	sync, res := newFixture()

	rec := videoRecord(1)
	sync.OnPositionChanged(rec)

	if res.created != 1 {
		t.Fatalf("expected lazy creation exactly once, got %d", res.created)
	}
	if res.loaded != rec.ExternalRef() {
		t.Fatalf("expected %q loaded, got %q", rec.ExternalRef(), res.loaded)
	}
	want := []string{"load:" + rec.ExternalRef(), "seek", "prepare", "autoplay"}
	for i, op := range want {
		if res.ops[i] != op {
			t.Fatalf("unexpected op sequence %v", res.ops)
		}
	}
}

func TestSameLocatorIsNoOp(t *testing.T) {
	sync, res := newFixture()

	sync.OnPositionChanged(videoRecord(1))
	opsBefore := len(res.ops)

	sync.OnPositionChanged(videoRecord(1))
	if len(res.ops) != opsBefore {
		t.Fatalf("repeated locator must not touch the resource, ops: %v", res.ops)
	}
}

func TestLeavingVideoStopsAndForcesReloadOnReturn(t *testing.T) {
	sync, res := newFixture()

	video := videoRecord(1)
	sync.OnPositionChanged(video)
	sync.OnPositionChanged(imageRecord(2))

	if res.ops[len(res.ops)-1] != "stop" {
		t.Fatalf("expected stop on leaving video, ops: %v", res.ops)
	}
	if sync.LastPlayed() != "" {
		t.Fatalf("last played locator should be cleared, got %q", sync.LastPlayed())
	}

	// Returning to the same video must reload, not silently stay stopped.
	sync.OnPositionChanged(video)
	if res.ops[len(res.ops)-4] != "load:"+video.ExternalRef() {
		t.Fatalf("expected reload after returning, ops: %v", res.ops)
	}
	if res.created != 1 {
		t.Fatalf("resource must never be recreated, got %d creations", res.created)
	}
}

func TestNonVideoWithoutResourceDoesNothing(t *testing.T) {
	sync, res := newFixture()

	sync.OnPositionChanged(imageRecord(1))
	if res.created != 0 {
		t.Fatal("image records must not create the resource")
	}
	if len(res.ops) != 0 {
		t.Fatalf("no ops expected, got %v", res.ops)
	}
}

func TestResumePauseAndTeardown(t *testing.T) {
	sync, res := newFixture()

	video := videoRecord(1)
	image := imageRecord(2)

	// Resume before the resource exists is a no-op.
	sync.Resume(&video)
	if res.created != 0 {
		t.Fatal("resume must not create the resource")
	}

	sync.OnPositionChanged(video)
	sync.Pause()
	if res.ops[len(res.ops)-1] != "pause" {
		t.Fatalf("expected pause, ops: %v", res.ops)
	}

	sync.Resume(&video)
	if res.ops[len(res.ops)-1] != "play" {
		t.Fatalf("expected play, ops: %v", res.ops)
	}

	// Resume on a non-video record is a no-op.
	sync.Resume(&image)
	if res.ops[len(res.ops)-1] != "play" {
		t.Fatalf("resume on image must not play, ops: %v", res.ops)
	}

	sync.Teardown()
	if res.ops[len(res.ops)-1] != "release" {
		t.Fatalf("expected release at teardown, ops: %v", res.ops)
	}
	if sync.LastPlayed() != "" {
		t.Fatal("teardown clears the locator")
	}
}
