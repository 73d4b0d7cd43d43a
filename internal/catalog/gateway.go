package catalog

import (
	"context"
	"log/slog"

	"github.com/lumeview/backend/internal/actions"
)

// FlagWriter covers the mutations the action gateway needs from the store.
type FlagWriter interface {
	SetFavorite(ctx context.Context, id int64, favorite bool) error
	SetTrashed(ctx context.Context, id int64, trashed bool) error
	Delete(ctx context.Context, id int64) error
}

// Gateway confirms destructive session actions directly against the catalog.
// Deployments that need an out-of-band confirmation step wrap this with their
// own prompt.
type Gateway struct {
	store  FlagWriter
	logger *slog.Logger
}

// NewGateway constructs a catalog-backed action gateway.
func NewGateway(store FlagWriter, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, logger: logger}
}

// RequestFavorite implements actions.Gateway.
func (g *Gateway) RequestFavorite(ctx context.Context, recordID int64, desired bool) actions.Outcome {
	err := g.store.SetFavorite(ctx, recordID, desired)
	if err != nil {
		g.logger.Warn("favorite update rejected", "record_id", recordID, "error", err)
	}
	return actions.Outcome{OK: err == nil}
}

// RequestTrash implements actions.Gateway.
func (g *Gateway) RequestTrash(ctx context.Context, recordID int64, desired bool) actions.Outcome {
	err := g.store.SetTrashed(ctx, recordID, desired)
	if err != nil {
		g.logger.Warn("trash update rejected", "record_id", recordID, "desired", desired, "error", err)
	}
	return actions.Outcome{OK: err == nil}
}

// RequestDelete implements actions.Gateway.
func (g *Gateway) RequestDelete(ctx context.Context, recordID int64) actions.Outcome {
	err := g.store.Delete(ctx, recordID)
	if err != nil {
		g.logger.Warn("delete rejected", "record_id", recordID, "error", err)
	}
	return actions.Outcome{OK: err == nil}
}
