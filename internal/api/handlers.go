package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidfetch-server/internal/cache"
	"vidfetch-server/internal/config"
	"vidfetch-server/internal/extract"
	"vidfetch-server/internal/formats"
	"vidfetch-server/internal/jobs"
	"vidfetch-server/internal/models"
	"vidfetch-server/internal/stats"
)

type Handler struct {
	Manager   *jobs.Manager
	Store     jobs.Store
	Extractor *extract.Chain
	Cache     *cache.Cache
	Collector *stats.Collector
	Cfg       *config.Config
}

func NewHandler(m *jobs.Manager, store jobs.Store, ex *extract.Chain, c *cache.Cache, col *stats.Collector, cfg *config.Config) *Handler {
	return &Handler{
		Manager:   m,
		Store:     store,
		Extractor: ex,
		Cache:     c,
		Collector: col,
		Cfg:       cfg,
	}
}

func (h *Handler) VideoInfo(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}
	if !h.Extractor.Supports(url) {
		writeError(w, http.StatusBadRequest, "invalid or unsupported video URL")
		return
	}

	md := h.Cache.Get(url)
	if md == nil {
		var err error
		md, err = h.Extractor.Info(r.Context(), url)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.Cache.Set(url, md)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"title":       md.Title,
		"description": md.Description,
		"thumbnail":   md.Thumbnail,
		"format_options": map[string]any{
			"video": map[string]any{
				"mp4": formats.SelectQualities(md.Formats),
			},
		},
	})
}

func (h *Handler) StartDownload(w http.ResponseWriter, r *http.Request) {
	var req models.StartDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if !h.Extractor.Supports(req.URL) {
		writeError(w, http.StatusBadRequest, "invalid or unsupported video URL")
		return
	}

	id := h.Manager.Start(req.URL, req.Quality)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"download_id": id,
	})
}

func (h *Handler) GetDownload(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("download_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "download_id query parameter is required")
		return
	}

	job, err := h.Store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "download not found")
		return
	}

	switch job.Status {
	case models.StatusFailed:
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status": job.Status,
			"error":  job.Error,
		})
	case models.StatusComplete:
		writeJSON(w, http.StatusOK, map[string]any{
			"status":       job.Status,
			"progress":     100,
			"filename":     job.Filename,
			"download_url": "/api/download/" + job.ID,
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   job.Status,
			"progress": job.Progress,
		})
	}
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.Store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "download not found")
		return
	}
	if job.Status != models.StatusComplete {
		writeError(w, http.StatusNotFound, "download not complete")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", job.Filename))
	w.Header().Set("Content-Type", "video/mp4")
	http.ServeFile(w, r, job.FilePath)

	if h.Cfg.DeliverOnce {
		h.Manager.Remove(job.ID)
	}
}

func (h *Handler) CancelDownload(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("download_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "download_id query parameter is required")
		return
	}

	err := h.Manager.Cancel(id)
	switch {
	case errors.Is(err, jobs.ErrNotFound):
		writeError(w, http.StatusNotFound, "download not found")
	case errors.Is(err, jobs.ErrAlreadyDone):
		writeError(w, http.StatusConflict, "download already finished")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelling"})
	}
}

func (h *Handler) ServerStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"counters": h.Collector.Counters(),
		"system":   stats.SystemSnapshot(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
