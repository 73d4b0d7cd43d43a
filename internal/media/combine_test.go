package media

import (
	"testing"
	"time"
)

func recordAt(id int64, added time.Time) Record {
	return Record{
		ID:        id,
		BucketID:  1,
		Type:      TypeImage,
		MimeType:  "image/jpeg",
		DateAdded: added,
	}
}

func TestCombineAndSortDropsDuplicatesAndOrders(t *testing.T) {
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	recordA := recordAt(1, base.Add(-time.Hour))
	recordB := recordAt(2, base.Add(-2*time.Hour))
	primary := recordAt(3, base)

	out := CombineAndSort(primary, []Record{recordA, recordA, recordB})

	if len(out) != 3 {
		t.Fatalf("expected 3 records got %d", len(out))
	}
	if !Equal(out[0], primary) || !Equal(out[1], recordA) || !Equal(out[2], recordB) {
		t.Fatalf("unexpected order: %+v", out)
	}
}

func TestCombineAndSortIsIdempotent(t *testing.T) {
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	siblings := []Record{
		recordAt(4, base.Add(-time.Minute)),
		recordAt(2, base.Add(-time.Hour)),
		recordAt(9, base.Add(time.Minute)),
	}
	first := CombineAndSort(recordAt(1, base), siblings)
	second := CombineAndSort(first[0], first[1:])

	if !SequencesEqual(first, second) {
		t.Fatalf("expected idempotent output, got %+v then %+v", first, second)
	}
}

func TestCombineAndSortDateAddedNonIncreasing(t *testing.T) {
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	out := CombineAndSort(recordAt(1, base), []Record{
		recordAt(2, base.Add(3*time.Hour)),
		recordAt(3, base.Add(-time.Hour)),
		recordAt(4, base.Add(2*time.Hour)),
	})

	for i := 1; i < len(out); i++ {
		if out[i].DateAdded.After(out[i-1].DateAdded) {
			t.Fatalf("dateAdded increased at index %d: %+v", i, out)
		}
	}
}

func TestCombineAndSortBreaksTiesByFullTuple(t *testing.T) {
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	a := recordAt(10, base)
	b := recordAt(11, base)

	out := CombineAndSort(b, []Record{a})
	if len(out) != 2 {
		t.Fatalf("expected both records kept got %d", len(out))
	}
	if out[0].ID != 10 || out[1].ID != 11 {
		t.Fatalf("expected tuple order on equal dateAdded, got %+v", out)
	}
}

func TestCombineAndSortNoFullEqualPairsSurvive(t *testing.T) {
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	// Same id, different trashed flag: both must survive dedupe.
	a := recordAt(1, base)
	b := recordAt(1, base)
	b.Trashed = true

	out := CombineAndSort(a, []Record{b, a, b})
	if len(out) != 2 {
		t.Fatalf("expected 2 distinct records got %d", len(out))
	}
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if Equal(out[i], out[j]) {
				t.Fatalf("duplicate records survived: %+v", out)
			}
		}
	}
}
