package media

// RefKind discriminates the Reference union.
type RefKind int

const (
	// RefNone means the viewer was opened without anything to show.
	RefNone RefKind = iota
	// RefExternalURI wraps a raw locator handed in from outside the catalog.
	RefExternalURI
	// RefReviewPrimary wraps a catalog record reviewed alongside optional
	// sibling records from the same request.
	RefReviewPrimary
	// RefDirectRecord wraps a single already-known catalog record.
	RefDirectRecord
	// RefAlbumOnly opens an album with no particular record selected.
	RefAlbumOnly
)

// Reference describes how a viewing session was asked to open something.
// Exactly one variant is active; sessions construct a Reference once and
// replace it atomically, never field by field.
type Reference struct {
	Kind RefKind

	// ExternalURI fields.
	Locator   string
	MediaType Type
	MimeType  string

	// ReviewPrimary / DirectRecord fields.
	Record          Record
	Siblings        []Record
	explicitAlbumID int64

	// AlbumOnly field.
	albumID int64
}

// NewExternalURI builds the variant for a raw external locator.
func NewExternalURI(locator string, mediaType Type, mimeType string) Reference {
	return Reference{Kind: RefExternalURI, Locator: locator, MediaType: mediaType, MimeType: mimeType}
}

// NewReviewPrimary builds the variant for a catalog record under review.
// explicitAlbumID of zero means no album was resolved for the session.
func NewReviewPrimary(record Record, explicitAlbumID int64, siblings []Record) Reference {
	return Reference{Kind: RefReviewPrimary, Record: record, explicitAlbumID: explicitAlbumID, Siblings: siblings}
}

// NewDirectRecord builds the variant for a single known record.
func NewDirectRecord(record Record) Reference {
	return Reference{Kind: RefDirectRecord, Record: record}
}

// NewAlbumOnly builds the variant for an album identifier alone.
func NewAlbumOnly(albumID int64) Reference {
	return Reference{Kind: RefAlbumOnly, albumID: albumID}
}

// AlbumID reports the album backing this reference, if one is resolvable.
func (ref Reference) AlbumID() (int64, bool) {
	switch ref.Kind {
	case RefReviewPrimary:
		return ref.explicitAlbumID, ref.explicitAlbumID != 0
	case RefDirectRecord:
		return ref.Record.BucketID, ref.Record.BucketID != 0
	case RefAlbumOnly:
		return ref.albumID, ref.albumID != 0
	default:
		return 0, false
	}
}

// HasSiblings reports whether the reference carried sibling records.
func (ref Reference) HasSiblings() bool {
	return ref.Kind == RefReviewPrimary && len(ref.Siblings) > 0
}

// PrimaryID returns the identifier of the record the session was opened on,
// or zero when the variant carries none.
func (ref Reference) PrimaryID() int64 {
	switch ref.Kind {
	case RefReviewPrimary, RefDirectRecord:
		return ref.Record.ID
	default:
		return 0
	}
}
