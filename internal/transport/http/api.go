package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"eneagramas-site/internal/app"
	"eneagramas-site/internal/domain"
)

// CatalogHandler serves the read-only site content and the newsletter form.
type CatalogHandler struct {
	Catalog  *app.CatalogService
	Limiter  *ClientLimiter
	Interval time.Duration
	Logger   *zap.Logger
}

func (h CatalogHandler) Stations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Catalog.Stations(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, stations)
}

// StationByPath expects /api/stations/{slug}.
func (h CatalogHandler) StationByPath(w http.ResponseWriter, r *http.Request) {
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/stations/"), "/")
	if slug == "" || strings.Contains(slug, "/") {
		WriteError(w, r, http.StatusNotFound, "not_found", "station not found")
		return
	}
	detail, err := h.Catalog.Station(r.Context(), slug)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, detail)
}

func (h CatalogHandler) Resources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resources, err := h.Catalog.SearchResources(r.Context(), q.Get("q"), domain.ResourceKind(q.Get("kind")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, resources)
}

func (h CatalogHandler) Events(w http.ResponseWriter, r *http.Request) {
	listing, err := h.Catalog.Events(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, listing)
}

func (h CatalogHandler) Testimonials(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.Testimonials(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

// TestimonialStream pushes the rotating testimonial as server-sent events.
func (h CatalogHandler) TestimonialStream(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.Testimonials(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "Streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	interval := h.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	app.NewCarousel(items).Run(r.Context(), interval, func(t domain.Testimonial) {
		data, err := json.Marshal(t)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "event: testimonial\ndata: %s\n\n", data)
		flusher.Flush()
	})
}

type newsletterRequest struct {
	Email string `json:"email"`
}

func (h CatalogHandler) Newsletter(w http.ResponseWriter, r *http.Request) {
	if h.Limiter != nil && !h.Limiter.Allow(r) {
		WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests")
		return
	}
	var req newsletterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if err := h.Catalog.Subscribe(r.Context(), req.Email); err != nil {
		writeDomainError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]string{"status": "subscribed"})
}

// ScoreHandler ranks an answer set without opening a session.
type ScoreHandler struct {
	Quiz *app.QuizService
}

type scoreRequest struct {
	Answers []domain.AnswerRecord `json:"answers"`
	TopK    *int                  `json:"topK"`
}

type scoreResponse struct {
	TopK    int                    `json:"topK"`
	Results []domain.RankedStation `json:"results"`
}

func (h ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	topK := h.Quiz.TopK()
	if req.TopK != nil {
		topK = *req.TopK
	}
	results, err := h.Quiz.Score(r.Context(), req.Answers, topK)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if results == nil {
		results = []domain.RankedStation{}
	}
	WriteJSON(w, http.StatusOK, scoreResponse{TopK: topK, Results: results})
}

func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}
