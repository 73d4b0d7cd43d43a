package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lumeview/backend/internal/logging"
	"github.com/lumeview/backend/internal/session"
)

// ActionHandler provides the destructive-action endpoints on a session's
// current record. Requests are accepted once issued; confirmation arrives
// asynchronously and shows up on the session snapshot.
type ActionHandler struct {
	Registry SessionRegistry
	Limiter  RateLimiter
}

type favoriteRequest struct {
	Desired bool `json:"desired"`
}

type deleteRequest struct {
	Confirmed bool `json:"confirmed"`
}

// Favorite handles POST /api/v1/sessions/{id}/favorite.
func (h ActionHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid favorite payload", "session_id", c.ID(), "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := c.Favorite(req.Desired); err != nil {
		respondSessionError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusAccepted, toSessionPayload(c.Snapshot()))
}

// Trash handles POST /api/v1/sessions/{id}/trash.
func (h ActionHandler) Trash(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if !allowRequest(h.Limiter, r, "actions") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	if err := c.Trash(); err != nil {
		respondSessionError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusAccepted, toSessionPayload(c.Snapshot()))
}

// Restore handles POST /api/v1/sessions/{id}/restore.
func (h ActionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := c.Restore(); err != nil {
		respondSessionError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusAccepted, toSessionPayload(c.Snapshot()))
}

// Delete handles POST /api/v1/sessions/{id}/delete.
func (h ActionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if !allowRequest(h.Limiter, r, "actions") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid delete payload", "session_id", c.ID(), "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := c.Delete(req.Confirmed); err != nil {
		respondSessionError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusAccepted, toSessionPayload(c.Snapshot()))
}

// Undo handles POST /api/v1/sessions/{id}/undo.
func (h ActionHandler) Undo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := c.Undo(); err != nil {
		respondSessionError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusAccepted, toSessionPayload(c.Snapshot()))
}

// Pause handles POST /api/v1/sessions/{id}/pause.
func (h ActionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	c.Pause()
	respondJSON(ctx, w, http.StatusAccepted, toSessionPayload(c.Snapshot()))
}

// Resume handles POST /api/v1/sessions/{id}/resume.
func (h ActionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	c.Resume()
	respondJSON(ctx, w, http.StatusAccepted, toSessionPayload(c.Snapshot()))
}

func (h ActionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Controller, bool) {
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
