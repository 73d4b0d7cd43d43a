package media

import "testing"

func TestReferenceAlbumID(t *testing.T) {
	rec := sampleRecord()

	if _, ok := NewExternalURI("file:///tmp/x.jpg", TypeImage, "image/jpeg").AlbumID(); ok {
		t.Fatalf("external uri must not resolve an album")
	}

	if id, ok := NewReviewPrimary(rec, 5, nil).AlbumID(); !ok || id != 5 {
		t.Fatalf("expected explicit album 5, got %d %v", id, ok)
	}
	if _, ok := NewReviewPrimary(rec, 0, nil).AlbumID(); ok {
		t.Fatalf("review without explicit album must not resolve one")
	}

	if id, ok := NewDirectRecord(rec).AlbumID(); !ok || id != rec.BucketID {
		t.Fatalf("direct record should adopt its bucket, got %d %v", id, ok)
	}

	if id, ok := NewAlbumOnly(9).AlbumID(); !ok || id != 9 {
		t.Fatalf("expected album 9, got %d %v", id, ok)
	}
	if _, ok := NewAlbumOnly(0).AlbumID(); ok {
		t.Fatalf("zero album id must not resolve")
	}

	if _, ok := (Reference{}).AlbumID(); ok {
		t.Fatalf("none reference must not resolve an album")
	}
}

func TestReferenceHasSiblings(t *testing.T) {
	rec := sampleRecord()

	if NewReviewPrimary(rec, 5, nil).HasSiblings() {
		t.Fatalf("no siblings expected")
	}
	if !NewReviewPrimary(rec, 5, []Record{sampleRecord()}).HasSiblings() {
		t.Fatalf("expected siblings")
	}
	if NewDirectRecord(rec).HasSiblings() {
		t.Fatalf("direct record never has siblings")
	}
}

func TestReferencePrimaryID(t *testing.T) {
	rec := sampleRecord()

	if got := NewReviewPrimary(rec, 5, nil).PrimaryID(); got != rec.ID {
		t.Fatalf("unexpected primary id %d", got)
	}
	if got := NewAlbumOnly(3).PrimaryID(); got != 0 {
		t.Fatalf("album-only has no primary, got %d", got)
	}
}
