package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lumeview/backend/internal/catalog"
	"github.com/lumeview/backend/internal/logging"
	"github.com/lumeview/backend/internal/media"
	"github.com/lumeview/backend/internal/resolver"
	"github.com/lumeview/backend/internal/session"
)

// SessionHandler provides the session lifecycle endpoints.
type SessionHandler struct {
	Registry   SessionRegistry
	NewSession SessionFactory
	Catalog    CatalogStore
	Limiter    RateLimiter
}

type openSessionRequest struct {
	Action   string   `json:"action,omitempty"`
	Locator  string   `json:"locator,omitempty"`
	MimeHint string   `json:"mimeHint,omitempty"`
	Siblings []string `json:"siblings,omitempty"`
	RecordID int64    `json:"recordId,omitempty"`
	AlbumID  int64    `json:"albumId,omitempty"`
	Secure   bool     `json:"secure,omitempty"`
}

type moveRequest struct {
	Index int `json:"index"`
}

type recordPayload struct {
	ID           int64     `json:"id"`
	BucketID     int64     `json:"bucketId,omitempty"`
	DisplayName  string    `json:"displayName,omitempty"`
	Locator      string    `json:"locator,omitempty"`
	Favorite     bool      `json:"favorite"`
	Trashed      bool      `json:"trashed"`
	MediaType    string    `json:"mediaType"`
	MimeType     string    `json:"mimeType,omitempty"`
	DateAdded    time.Time `json:"dateAdded,omitempty"`
	DateModified time.Time `json:"dateModified,omitempty"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	Orientation  int       `json:"orientation,omitempty"`
}

type sessionPayload struct {
	ID            string         `json:"id"`
	State         string         `json:"state"`
	Secure        bool           `json:"secure"`
	ReadOnly      bool           `json:"readOnly"`
	Position      int            `json:"position"`
	Length        int            `json:"length"`
	Current       *recordPayload `json:"current,omitempty"`
	Notice        string         `json:"notice,omitempty"`
	UndoAvailable bool           `json:"undoAvailable"`
}

// Open handles POST /api/v1/sessions.
func (h SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	ctx, span := logging.StartSpan(r.Context(), "session.open")
	defer span.End()
	logger := logging.FromContext(ctx)

	if h.Registry == nil || h.NewSession == nil {
		logger.Error("session dependencies unavailable", "hasRegistry", h.Registry != nil, "hasFactory", h.NewSession != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "session services unavailable"})
		return
	}

	if !allowRequest(h.Limiter, r, "sessions-open") {
		logger.Warn("session open rate limited", "remote", r.RemoteAddr)
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	var req openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid open session payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	// Direct-record opens resolve the catalog row before a session exists, so
	// an unknown id costs nothing to report.
	var direct *media.Record
	if req.Action == "" && req.RecordID != 0 {
		if h.Catalog == nil {
			logger.Error("catalog unavailable for direct-record open")
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "session services unavailable"})
			return
		}
		rec, err := h.Catalog.FindByID(ctx, req.RecordID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "record not found"})
				return
			}
			logger.Error("record lookup failed", "record_id", req.RecordID, "error", err)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "could not look up record"})
			return
		}
		direct = &rec
	}

	c := h.NewSession(req.Secure)
	switch {
	case req.Action != "":
		c.BeginRequest(ctx, resolver.OpenRequest{
			Action:   resolver.Action(req.Action),
			Locator:  req.Locator,
			MimeHint: req.MimeHint,
			Siblings: req.Siblings,
			AlbumID:  req.AlbumID,
			Secure:   req.Secure,
		})
	case direct != nil:
		c.BeginReference(ctx, media.NewDirectRecord(*direct))
	case req.AlbumID != 0:
		c.BeginReference(ctx, media.NewAlbumOnly(req.AlbumID))
	default:
		c.BeginReference(ctx, media.Reference{})
	}

	h.Registry.Put(c)
	logger.Info("session opened", "session_id", c.ID(), "action", req.Action, "secure", req.Secure)

	respondJSON(ctx, w, http.StatusCreated, toSessionPayload(c.Snapshot()))
}

// Get handles GET /api/v1/sessions/{id}.
func (h SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(ctx, w, http.StatusOK, toSessionPayload(c.Snapshot()))
}

// Close handles DELETE /api/v1/sessions/{id}.
func (h SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	if h.Registry == nil {
		respondJSON(r.Context(), w, http.StatusInternalServerError, map[string]string{"error": "session services unavailable"})
		return
	}
	h.Registry.Remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// Move handles POST /api/v1/sessions/{id}/position.
func (h SessionHandler) Move(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid move payload", "session_id", c.ID(), "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := c.MoveTo(req.Index); err != nil {
		respondSessionError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, toSessionPayload(c.Snapshot()))
}

func (h SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Controller, bool) {
	ctx := r.Context()
	if h.Registry == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "session services unavailable"})
		return nil, false
	}
	c, ok := h.Registry.Get(r.PathValue("id"))
	if !ok {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return c, true
}

func respondSessionError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrIndexOutOfRange):
		respondJSON(ctx, w, http.StatusUnprocessableEntity, map[string]string{"error": "index out of range"})
	case errors.Is(err, session.ErrNotReady):
		respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "session not ready"})
	case errors.Is(err, session.ErrReadOnly):
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "session is read-only"})
	case errors.Is(err, session.ErrNothingToUndo):
		respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "nothing to undo"})
	case errors.Is(err, session.ErrConfirmationRequired):
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "confirmation required"})
	case errors.Is(err, session.ErrNoCurrentRecord):
		respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "no current record"})
	case errors.Is(err, session.ErrTerminated):
		respondJSON(ctx, w, http.StatusGone, map[string]string{"error": "session terminated"})
	default:
		logging.FromContext(ctx).Error("session operation failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "session operation failed"})
	}
}

func toSessionPayload(snap session.Snapshot) sessionPayload {
	payload := sessionPayload{
		ID:            snap.ID,
		State:         string(snap.State),
		Secure:        snap.Secure,
		ReadOnly:      snap.ReadOnly,
		Position:      snap.Position,
		Length:        snap.Length,
		Notice:        snap.Notice,
		UndoAvailable: snap.UndoAvailable,
	}
	if snap.Current != nil {
		rec := toRecordPayload(*snap.Current)
		payload.Current = &rec
	}
	return payload
}

func toRecordPayload(rec media.Record) recordPayload {
	return recordPayload{
		ID:           rec.ID,
		BucketID:     rec.BucketID,
		DisplayName:  rec.DisplayName,
		Locator:      rec.Locator,
		Favorite:     rec.Favorite,
		Trashed:      rec.Trashed,
		MediaType:    string(rec.Type),
		MimeType:     rec.MimeType,
		DateAdded:    rec.DateAdded,
		DateModified: rec.DateModified,
		Width:        rec.Width,
		Height:       rec.Height,
		Orientation:  rec.Orientation,
	}
}
