package media

import "sort"

// CombineAndSort merges a primary record with zero or more siblings into the
// canonical navigation sequence: exact duplicates (full-tuple equality, not
// id equality) are dropped, and the result is ordered by dateAdded descending
// with ties broken by the full comparison tuple. The ordering is total and
// stable, so it is safe to back navigation indices, and reapplying it to its
// own output yields the same sequence.
func CombineAndSort(primary Record, siblings []Record) []Record {
	combined := make([]Record, 0, len(siblings)+1)
	combined = append(combined, primary)
	combined = append(combined, siblings...)

	deduped := combined[:0:0]
	for _, candidate := range combined {
		duplicate := false
		for _, kept := range deduped {
			if Equal(kept, candidate) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			deduped = append(deduped, candidate)
		}
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		if c := compareTime(deduped[i].DateAdded, deduped[j].DateAdded); c != 0 {
			return c > 0
		}
		return Compare(deduped[i], deduped[j]) < 0
	})

	return deduped
}

// SequencesEqual reports whether two sequences hold the same records in the
// same order, using full-tuple equality per element.
func SequencesEqual(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
