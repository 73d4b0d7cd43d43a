package media

import (
	"testing"
	"time"
)

func sampleRecord() Record {
	return Record{
		ID:           7,
		BucketID:     5,
		DisplayName:  "beach.jpg",
		Locator:      "photos/beach.jpg",
		Type:         TypeImage,
		MimeType:     "image/jpeg",
		DateAdded:    time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC),
		DateModified: time.Date(2025, time.March, 2, 10, 0, 0, 0, time.UTC),
		Width:        4000,
		Height:       3000,
		Orientation:  90,
	}
}

func TestCompareAgreesWithEqual(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()

	if Compare(a, b) != 0 {
		t.Fatalf("expected identical records to compare equal")
	}
	if !Equal(a, b) {
		t.Fatalf("expected identical records to be equal")
	}

	b.Trashed = true
	if Compare(a, b) == 0 {
		t.Fatalf("expected trashed flag to affect comparison")
	}
	if Equal(a, b) {
		t.Fatalf("expected trashed flag to break equality")
	}
}

func TestCompareUsesFullTupleNotJustID(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.Favorite = true

	if Equal(a, b) {
		t.Fatalf("records sharing an id but differing in favorite must not be equal")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("id-derived hashes should still collide for same-id records")
	}
}

func TestCompareIsAntisymmetric(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.DateAdded = b.DateAdded.Add(time.Hour)

	if Compare(a, b) != -Compare(b, a) {
		t.Fatalf("expected antisymmetric comparison: %d vs %d", Compare(a, b), Compare(b, a))
	}
}

func TestEqualImpliesSameHash(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()

	if !Equal(a, b) {
		t.Fatalf("fixture records should be equal")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("equal records must share a hash")
	}
}

func TestExternalRef(t *testing.T) {
	rec := sampleRecord()
	if got := rec.ExternalRef(); got != "catalog://image/7" {
		t.Fatalf("unexpected external ref %q", got)
	}

	rec.Type = TypeVideo
	rec.ID = 12
	if got := rec.ExternalRef(); got != "catalog://video/12" {
		t.Fatalf("unexpected external ref %q", got)
	}
}

func TestTypeFromMime(t *testing.T) {
	if got := TypeFromMime("image/png"); got != TypeImage {
		t.Fatalf("expected image got %v", got)
	}
	if got := TypeFromMime("video/mp4"); got != TypeVideo {
		t.Fatalf("expected video got %v", got)
	}
	if got := TypeFromMime("application/pdf"); got != TypeOther {
		t.Fatalf("expected other got %v", got)
	}
}
