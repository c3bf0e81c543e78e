package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter sets up routes and applies global middleware.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(CORSMiddleware(h.Cfg.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/video-info", h.VideoInfo)
		r.Post("/start-download", h.StartDownload)
		r.Get("/get-download", h.GetDownload)
		r.Post("/cancel-download", h.CancelDownload)
		r.Get("/download/{id}", h.Download)
		r.Get("/stats", h.ServerStats)
	})

	return r
}
