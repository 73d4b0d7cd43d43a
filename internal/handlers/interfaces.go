package handlers

import (
	"context"
	"io"

	"github.com/lumeview/backend/internal/media"
	"github.com/lumeview/backend/internal/session"
)

// SessionRegistry tracks live viewing sessions by identifier.
type SessionRegistry interface {
	Put(c *session.Controller)
	Get(id string) (*session.Controller, bool)
	Remove(id string)
}

// SessionFactory creates a new viewing session wired to its collaborators.
type SessionFactory func(secure bool) *session.Controller

// ShareLinker mints time-limited share links for object-store keys.
type ShareLinker interface {
	ShareURL(ctx context.Context, key string) (string, error)
}

// CatalogStore is the slice of the catalog the HTTP layer reads and writes
// directly: record lookup for direct-record sessions, inserts for ingest.
type CatalogStore interface {
	FindByID(ctx context.Context, id int64) (media.Record, error)
	Insert(ctx context.Context, rec media.Record) error
}

// MediaSaver stores uploaded originals and returns their locator.
type MediaSaver interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}
