package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/lumeview/backend/internal/logging"
)

// ShareHandler mints share links for a session's current record.
type ShareHandler struct {
	Registry SessionRegistry
	Share    ShareLinker
	Limiter  RateLimiter
}

type shareResponse struct {
	URL string `json:"url"`
}

// Handle implements GET /api/v1/sessions/{id}/share. Read-only sessions,
// secure sessions included, may not share.
func (h ShareHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Registry == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "session services unavailable"})
		return
	}
	if h.Share == nil {
		respondJSON(ctx, w, http.StatusServiceUnavailable, map[string]string{"error": "sharing is not configured"})
		return
	}
	if !allowRequest(h.Limiter, r, "share") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	c, ok := h.Registry.Get(r.PathValue("id"))
	if !ok {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	snap := c.Snapshot()
	if snap.ReadOnly || snap.Secure {
		logger.Warn("share rejected", "session_id", snap.ID, "readOnly", snap.ReadOnly, "secure", snap.Secure)
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "session does not permit sharing"})
		return
	}

	rec, err := c.CurrentRecord()
	if err != nil {
		respondSessionError(ctx, w, err)
		return
	}

	key, ok := objectKey(rec.Locator)
	if !ok {
		respondJSON(ctx, w, http.StatusUnprocessableEntity, map[string]string{"error": "record is not stored in the object store"})
		return
	}

	link, err := h.Share.ShareURL(ctx, key)
	if err != nil {
		logger.Error("presign share link failed", "session_id", snap.ID, "key", key, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "unable to create share link"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, shareResponse{URL: link})
}

// objectKey extracts the object-store key from an s3 locator.
func objectKey(locator string) (string, bool) {
	u, err := url.Parse(locator)
	if err != nil || u.Scheme != "s3" {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", false
	}
	return key, true
}
