package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	sessions := SessionHandler{Registry: deps.Sessions, NewSession: deps.NewSession, Catalog: deps.Catalog, Limiter: deps.Limiter}
	actions := ActionHandler{Registry: deps.Sessions, Limiter: deps.Limiter}
	share := ShareHandler{Registry: deps.Sessions, Share: deps.Share, Limiter: deps.Limiter}
	uploads := MediaHandler{Catalog: deps.Catalog, Media: deps.Media, Limiter: deps.Limiter}

	mux.HandleFunc("GET /healthz", health.Handle)
	mux.HandleFunc("POST /api/v1/media", uploads.Upload)
	mux.HandleFunc("POST /api/v1/sessions", sessions.Open)
	mux.HandleFunc("GET /api/v1/sessions/{id}", sessions.Get)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", sessions.Close)
	mux.HandleFunc("POST /api/v1/sessions/{id}/position", sessions.Move)
	mux.HandleFunc("POST /api/v1/sessions/{id}/favorite", actions.Favorite)
	mux.HandleFunc("POST /api/v1/sessions/{id}/trash", actions.Trash)
	mux.HandleFunc("POST /api/v1/sessions/{id}/restore", actions.Restore)
	mux.HandleFunc("POST /api/v1/sessions/{id}/delete", actions.Delete)
	mux.HandleFunc("POST /api/v1/sessions/{id}/undo", actions.Undo)
	mux.HandleFunc("POST /api/v1/sessions/{id}/pause", actions.Pause)
	mux.HandleFunc("POST /api/v1/sessions/{id}/resume", actions.Resume)
	mux.HandleFunc("GET /api/v1/sessions/{id}/share", share.Handle)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Sessions   SessionRegistry
	NewSession SessionFactory
	Catalog    CatalogStore
	Media      MediaSaver
	Share      ShareLinker
	Limiter    RateLimiter
}
