package media

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

// Type classifies a catalog record by its broad content kind.
type Type string

const (
	TypeImage Type = "image"
	TypeVideo Type = "video"
	TypeOther Type = "other"
)

// TypeFromMime maps a mime type onto the coarse media Type.
func TypeFromMime(mimeType string) Type {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return TypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return TypeVideo
	default:
		return TypeOther
	}
}

// Record is one catalog entry. Records are immutable values: state changes
// (favorite, trash) show up as a new record replacing the old one in a
// sequence, never as mutation.
type Record struct {
	ID           int64
	BucketID     int64
	DisplayName  string
	Locator      string
	Favorite     bool
	Trashed      bool
	Type         Type
	MimeType     string
	DateAdded    time.Time
	DateModified time.Time
	Width        int
	Height       int
	Orientation  int
}

// ExternalRef returns the stable locator derived from the record's type and
// catalog id.
func (r Record) ExternalRef() string {
	return fmt.Sprintf("catalog://%s/%d", r.Type, r.ID)
}

// Compare orders two records over the fixed field tuple
// [id, bucketId, favorite, trashed, type, mimeType, dateAdded, dateModified,
// width, height, orientation]. The ordering is total, so any two records are
// comparable, and Equal(a, b) holds exactly when Compare(a, b) == 0.
func Compare(a, b Record) int {
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.BucketID, b.BucketID); c != 0 {
		return c
	}
	if c := compareBool(a.Favorite, b.Favorite); c != 0 {
		return c
	}
	if c := compareBool(a.Trashed, b.Trashed); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	if c := cmp.Compare(a.MimeType, b.MimeType); c != 0 {
		return c
	}
	if c := compareTime(a.DateAdded, b.DateAdded); c != 0 {
		return c
	}
	if c := compareTime(a.DateModified, b.DateModified); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Width, b.Width); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Height, b.Height); c != 0 {
		return c
	}
	return cmp.Compare(a.Orientation, b.Orientation)
}

// Equal reports full-tuple equality. Identifier equality alone is not enough:
// two records sharing an id but differing in, say, the trashed flag are
// distinct values.
func Equal(a, b Record) bool {
	return Compare(a, b) == 0
}

// Hash returns a hash derived from the id alone. Equal records always share an
// id, so the hash is consistent with Equal, but it is a weaker key: records
// that collide here still need full comparison to disambiguate.
func (r Record) Hash() uint64 {
	return uint64(r.ID)
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func compareTime(a, b time.Time) int {
	if a.Before(b) {
		return -1
	}
	if a.After(b) {
		return 1
	}
	return 0
}
