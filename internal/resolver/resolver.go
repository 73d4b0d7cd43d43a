// Package resolver turns the heterogeneous ways a caller can ask to view
// media into a single tagged reference, performing catalog lookups and
// content-type probes off the session event loop.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lumeview/backend/internal/media"
)

// Action names the way a viewing request was issued.
type Action string

const (
	// ActionView opens a single external item by locator.
	ActionView Action = "view"
	// ActionReview opens a catalog item, optionally alongside siblings.
	ActionReview Action = "review"
)

// OpenRequest is the opaque external request handed to the resolver.
type OpenRequest struct {
	Action   Action
	Locator  string
	MimeHint string
	Siblings []string
	AlbumID  int64
	Secure   bool
}

// CatalogLookup finds the single catalog record behind a locator.
type CatalogLookup interface {
	LookupByLocator(ctx context.Context, locator string) (media.Record, error)
}

// TypeProber determines a locator's mime type. Probes may be slow (network
// metadata fetches) and are never retried automatically.
type TypeProber interface {
	Probe(ctx context.Context, locator string) (string, error)
}

const maxSiblingConcurrency = 4

// Resolver applies the reference resolution precedence.
type Resolver struct {
	lookup CatalogLookup
	prober TypeProber
	logger *slog.Logger
}

// New constructs a resolver over the catalog and prober collaborators.
func New(lookup CatalogLookup, prober TypeProber, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{lookup: lookup, prober: prober, logger: logger}
}

// Resolve turns an open request into a media reference. The precedence is
// fixed and first-match-wins:
//
//  1. a missing primary locator fails immediately;
//  2. a view action resolves the locator's content type and wraps it as an
//     external URI;
//  3. a review action looks the locator up in the catalog; the lookup must
//     match exactly one row, anything else falls back to the view path with
//     the secure flag carried over;
//  4. any other action is unsupported.
func (r *Resolver) Resolve(ctx context.Context, req OpenRequest) (media.Reference, error) {
	if req.Locator == "" {
		return media.Reference{}, ErrMissingLocator
	}

	switch req.Action {
	case ActionView:
		return r.resolveExternal(ctx, req)
	case ActionReview:
		return r.resolveReview(ctx, req)
	default:
		return media.Reference{}, fmt.Errorf("%w: %q", ErrUnsupportedAction, req.Action)
	}
}

func (r *Resolver) resolveExternal(ctx context.Context, req OpenRequest) (media.Reference, error) {
	mimeType := req.MimeHint
	if mimeType == "" {
		if r.prober == nil {
			return media.Reference{}, ErrUnresolvedType
		}
		probed, err := r.prober.Probe(ctx, req.Locator)
		if err != nil || probed == "" {
			r.logger.Warn("content type probe failed", "locator", req.Locator, "error", err)
			return media.Reference{}, ErrUnresolvedType
		}
		mimeType = probed
	}

	mediaType := media.TypeFromMime(mimeType)
	if mediaType != media.TypeImage && mediaType != media.TypeVideo {
		return media.Reference{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	return media.NewExternalURI(req.Locator, mediaType, mimeType), nil
}

func (r *Resolver) resolveReview(ctx context.Context, req OpenRequest) (media.Reference, error) {
	record, err := r.lookup.LookupByLocator(ctx, req.Locator)
	if err != nil {
		// Zero or multiple rows: not fatal, fall back to the external path
		// with the secure flag propagated.
		r.logger.Warn("catalog lookup failed, falling back to external view",
			"locator", req.Locator, "secure", req.Secure, "error", err)
		return r.resolveExternal(ctx, req)
	}

	siblings := r.resolveSiblings(ctx, req.Siblings)

	albumID := req.AlbumID
	if albumID == 0 && !req.Secure {
		// Secure sessions never auto-adopt an album id.
		albumID = record.BucketID
	}

	return media.NewReviewPrimary(record, albumID, siblings), nil
}

// resolveSiblings looks up each sibling locator best-effort: individual
// failures are dropped silently, preserving the order of the survivors.
func (r *Resolver) resolveSiblings(ctx context.Context, locators []string) []media.Record {
	if len(locators) == 0 {
		return nil
	}

	resolved := make([]*media.Record, len(locators))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSiblingConcurrency)
	for i, locator := range locators {
		g.Go(func() error {
			rec, err := r.lookup.LookupByLocator(gctx, locator)
			if err != nil {
				r.logger.Debug("sibling lookup dropped", "locator", locator, "error", err)
				return nil
			}
			mu.Lock()
			resolved[i] = &rec
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	siblings := make([]media.Record, 0, len(locators))
	for _, rec := range resolved {
		if rec != nil {
			siblings = append(siblings, *rec)
		}
	}
	return siblings
}
