package resolver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lumeview/backend/internal/catalog"
	"github.com/lumeview/backend/internal/media"
)

type lookupStub struct {
	mu      sync.Mutex
	records map[string]media.Record
	err     error
	calls   []string
}

func (s *lookupStub) LookupByLocator(_ context.Context, locator string) (media.Record, error) {
	s.mu.Lock()
	s.calls = append(s.calls, locator)
	s.mu.Unlock()
	if s.err != nil {
		return media.Record{}, s.err
	}
	rec, ok := s.records[locator]
	if !ok {
		return media.Record{}, catalog.ErrNotFound
	}
	return rec, nil
}

type proberStub struct {
	types map[string]string
	err   error
}

func (s proberStub) Probe(_ context.Context, locator string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.types[locator], nil
}

func catalogRecord(id, bucket int64, locator string) media.Record {
	return media.Record{
		ID:        id,
		BucketID:  bucket,
		Locator:   locator,
		Type:      media.TypeImage,
		MimeType:  "image/jpeg",
		DateAdded: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestResolveMissingLocatorIsFatal(t *testing.T) {
	res := New(&lookupStub{}, proberStub{}, nil)

	_, err := res.Resolve(context.Background(), OpenRequest{Action: ActionView})
	if err != ErrMissingLocator {
		t.Fatalf("expected ErrMissingLocator got %v", err)
	}
	if !Fatal(err) {
		t.Fatal("missing locator must be fatal")
	}
}

func TestResolveViewWithMimeHint(t *testing.T) {
	res := New(&lookupStub{}, proberStub{}, nil)

	ref, err := res.Resolve(context.Background(), OpenRequest{
		Action:   ActionView,
		Locator:  "x",
		MimeHint: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ref.Kind != media.RefExternalURI {
		t.Fatalf("expected external uri got %v", ref.Kind)
	}
	if ref.Locator != "x" || ref.MediaType != media.TypeImage || ref.MimeType != "image/jpeg" {
		t.Fatalf("unexpected reference %+v", ref)
	}
}

func TestResolveViewProbesWhenNoHint(t *testing.T) {
	prober := proberStub{types: map[string]string{"https://example.com/clip": "video/mp4"}}
	res := New(&lookupStub{}, prober, nil)

	ref, err := res.Resolve(context.Background(), OpenRequest{
		Action:  ActionView,
		Locator: "https://example.com/clip",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ref.MediaType != media.TypeVideo {
		t.Fatalf("expected video got %v", ref.MediaType)
	}
}

func TestResolveViewUnresolvedType(t *testing.T) {
	res := New(&lookupStub{}, proberStub{}, nil)

	_, err := res.Resolve(context.Background(), OpenRequest{Action: ActionView, Locator: "mystery"})
	if err != ErrUnresolvedType {
		t.Fatalf("expected ErrUnresolvedType got %v", err)
	}
	if !Fatal(err) {
		t.Fatal("unresolved type must be fatal")
	}
}

func TestResolveViewUnsupportedType(t *testing.T) {
	res := New(&lookupStub{}, proberStub{}, nil)

	_, err := res.Resolve(context.Background(), OpenRequest{
		Action:   ActionView,
		Locator:  "doc.pdf",
		MimeHint: "application/pdf",
	})
	if !Fatal(err) {
		t.Fatalf("expected fatal unsupported type got %v", err)
	}
}

func TestResolveReviewExactlyOne(t *testing.T) {
	rec := catalogRecord(7, 5, "r1")
	lookup := &lookupStub{records: map[string]media.Record{"r1": rec}}
	res := New(lookup, proberStub{}, nil)

	ref, err := res.Resolve(context.Background(), OpenRequest{Action: ActionReview, Locator: "r1"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ref.Kind != media.RefReviewPrimary {
		t.Fatalf("expected review primary got %v", ref.Kind)
	}
	if id, ok := ref.AlbumID(); !ok || id != 5 {
		t.Fatalf("expected adopted bucket 5 got %d %v", id, ok)
	}
	if ref.HasSiblings() {
		t.Fatal("no siblings expected")
	}
}

func TestResolveReviewSecureNeverAdoptsAlbum(t *testing.T) {
	rec := catalogRecord(7, 5, "r1")
	lookup := &lookupStub{records: map[string]media.Record{"r1": rec}}
	res := New(lookup, proberStub{}, nil)

	ref, err := res.Resolve(context.Background(), OpenRequest{
		Action:  ActionReview,
		Locator: "r1",
		Secure:  true,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, ok := ref.AlbumID(); ok {
		t.Fatal("secure review must not adopt the record's bucket")
	}
}

func TestResolveReviewExplicitAlbumWins(t *testing.T) {
	rec := catalogRecord(7, 5, "r1")
	lookup := &lookupStub{records: map[string]media.Record{"r1": rec}}
	res := New(lookup, proberStub{}, nil)

	ref, err := res.Resolve(context.Background(), OpenRequest{
		Action:  ActionReview,
		Locator: "r1",
		AlbumID: 11,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id, _ := ref.AlbumID(); id != 11 {
		t.Fatalf("expected explicit album 11 got %d", id)
	}
}

func TestResolveReviewLookupFailureFallsBackToView(t *testing.T) {
	lookup := &lookupStub{err: catalog.ErrAmbiguous}
	prober := proberStub{types: map[string]string{"r1": "image/png"}}
	res := New(lookup, prober, nil)

	ref, err := res.Resolve(context.Background(), OpenRequest{
		Action:  ActionReview,
		Locator: "r1",
		Secure:  true,
	})
	if err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}
	if ref.Kind != media.RefExternalURI {
		t.Fatalf("expected external uri fallback got %v", ref.Kind)
	}
}

func TestResolveReviewDropsFailedSiblings(t *testing.T) {
	rec := catalogRecord(7, 5, "r1")
	sibling := catalogRecord(8, 5, "s1")
	lookup := &lookupStub{records: map[string]media.Record{"r1": rec, "s1": sibling}}
	res := New(lookup, proberStub{}, nil)

	ref, err := res.Resolve(context.Background(), OpenRequest{
		Action:   ActionReview,
		Locator:  "r1",
		Siblings: []string{"s1", "missing"},
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(ref.Siblings) != 1 || ref.Siblings[0].ID != 8 {
		t.Fatalf("expected one surviving sibling, got %+v", ref.Siblings)
	}
}

func TestResolveUnsupportedAction(t *testing.T) {
	res := New(&lookupStub{}, proberStub{}, nil)

	_, err := res.Resolve(context.Background(), OpenRequest{Action: "edit", Locator: "x"})
	if !Fatal(err) {
		t.Fatalf("expected fatal unsupported action got %v", err)
	}
}
