// Package httpapi exposes the curation pipeline and post store over a small
// JSON API consumed by the dashboard. The handlers are a thin translation
// layer; all behaviour lives in the pipeline, store and generator packages.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/curatorhq/newsdesk/internal/core/domain"
	"github.com/curatorhq/newsdesk/internal/enrich"
	"github.com/curatorhq/newsdesk/internal/llm"
	"github.com/curatorhq/newsdesk/internal/store"
)

// Refresher runs one fetch-and-rank cycle.
type Refresher interface {
	FetchAll(ctx context.Context) []domain.Item
}

// Handler serves the dashboard API.
type Handler struct {
	store      store.Store
	refresher  Refresher
	generator  llm.Generator
	summarizer *enrich.Summarizer
	images     *enrich.ImageExtractor
	logger     *zerolog.Logger
}

// New creates the API handler.
func New(st store.Store, refresher Refresher, generator llm.Generator, summarizer *enrich.Summarizer, images *enrich.ImageExtractor, logger *zerolog.Logger) *Handler {
	return &Handler{
		store:      st,
		refresher:  refresher,
		generator:  generator,
		summarizer: summarizer,
		images:     images,
		logger:     logger,
	}
}

// Routes registers the API endpoints on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/posts", h.getPosts)
	mux.HandleFunc("DELETE /api/posts/{id}", h.deletePost)
	mux.HandleFunc("POST /api/posts/{id}/posted", h.markPosted)
	mux.HandleFunc("POST /api/history/clear", h.clearHistory)
	mux.HandleFunc("GET /api/stats", h.getStats)
	mux.HandleFunc("POST /api/tweet", h.generateTweets)
	mux.HandleFunc("POST /api/thread", h.generateThread)
	mux.HandleFunc("GET /api/image", h.getImage)
}

func (h *Handler) getPosts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "1" {
		items := h.refresher.FetchAll(r.Context())
		h.writeJSON(w, http.StatusOK, h.store.Save(items))

		return
	}

	h.writeJSON(w, http.StatusOK, h.store.Read())
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Delete(r.PathValue("id")))
}

func (h *Handler) markPosted(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.MarkPosted(r.PathValue("id")))
}

func (h *Handler) clearHistory(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.ClearHistory())
}

func (h *Handler) getStats(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Stats())
}

type generateRequest struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	URL   string      `json:"url"`
	Tone  domain.Tone `json:"tone"`
}

type generateResponse struct {
	Tweets []domain.GeneratedPost `json:"tweets"`
}

func (h *Handler) generateTweets(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	posts, err := h.generator.GenerateTweets(r.Context(), h.buildLLMRequest(r, req))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "generation failed")

		return
	}

	h.writeJSON(w, http.StatusOK, generateResponse{Tweets: posts})
}

func (h *Handler) generateThread(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	posts, err := h.generator.GenerateThread(r.Context(), h.buildLLMRequest(r, req))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "generation failed")

		return
	}

	h.writeJSON(w, http.StatusOK, generateResponse{Tweets: posts})
}

// decodeGenerateRequest parses the request body and resolves an item id to
// its pending entry when only an id was supplied.
func (h *Handler) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (generateRequest, bool) {
	var req generateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")

		return req, false
	}

	if req.Tone == "" {
		req.Tone = domain.ToneHotTake
	}

	if !req.Tone.Valid() {
		h.writeError(w, http.StatusBadRequest, "unknown tone")

		return req, false
	}

	if req.Title == "" && req.ID != "" {
		for _, it := range h.store.Read().Pending {
			if it.ID == req.ID {
				req.Title = it.Title
				req.URL = it.URL

				break
			}
		}
	}

	if req.Title == "" {
		h.writeError(w, http.StatusBadRequest, "title or known id required")

		return req, false
	}

	return req, true
}

func (h *Handler) buildLLMRequest(r *http.Request, req generateRequest) llm.Request {
	summary := ""
	if req.URL != "" {
		summary = h.summarizer.Summarize(r.Context(), req.URL)
	}

	return llm.Request{
		Title:          req.Title,
		Tone:           req.Tone,
		ArticleSummary: summary,
		CompanyContext: enrich.CompanyContext(req.Title),
	}
}

func (h *Handler) getImage(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeError(w, http.StatusBadRequest, "url parameter required")

		return
	}

	image := h.images.ExtractImage(r.Context(), rawURL)

	h.writeJSON(w, http.StatusOK, map[string]string{"image_url": image})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
