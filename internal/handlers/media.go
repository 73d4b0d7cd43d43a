package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/lumeview/backend/internal/catalog"
	"github.com/lumeview/backend/internal/logging"
	"github.com/lumeview/backend/internal/media"
)

// MediaHandler ingests new media originals: the file lands in the object
// store and a catalog row is inserted with the returned locator.
type MediaHandler struct {
	Catalog CatalogStore
	Media   MediaSaver
	Limiter RateLimiter
}

const maxUploadBytes = 256 << 20

// Upload handles POST /api/v1/media.
func (h MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Catalog == nil || h.Media == nil {
		respondJSON(ctx, w, http.StatusServiceUnavailable, map[string]string{"error": "media ingest not configured"})
		return
	}
	if !allowRequest(h.Limiter, r, "media-upload") {
		logger.Warn("media upload rate limited", "remote", r.RemoteAddr)
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		logger.Warn("invalid upload form", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid media id"})
		return
	}
	albumID, err := strconv.ParseInt(r.FormValue("albumId"), 10, 64)
	if err != nil || albumID <= 0 {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid album id"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "missing file part"})
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	mediaType := media.TypeFromMime(mimeType)
	if mediaType == media.TypeOther {
		respondJSON(ctx, w, http.StatusUnsupportedMediaType, map[string]string{"error": "only image and video uploads are accepted"})
		return
	}

	name := path.Base(header.Filename)
	key := fmt.Sprintf("albums/%d/%s", albumID, name)
	locator, err := h.Media.Save(ctx, key, file)
	if err != nil {
		logger.Error("media upload failed", "key", key, "error", err)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "object store rejected upload"})
		return
	}

	now := time.Now().UTC()
	rec := media.Record{
		ID:           id,
		BucketID:     albumID,
		DisplayName:  name,
		Locator:      locator,
		Type:         mediaType,
		MimeType:     mimeType,
		DateAdded:    now,
		DateModified: now,
	}
	if err := h.Catalog.Insert(ctx, rec); err != nil {
		if errors.Is(err, catalog.ErrConflict) {
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "media id already exists"})
			return
		}
		logger.Error("media insert failed", "media_id", id, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "could not persist media item"})
		return
	}

	logger.Info("media ingested", "media_id", id, "album_id", albumID, "locator", locator)
	respondJSON(ctx, w, http.StatusCreated, toRecordPayload(rec))
}
