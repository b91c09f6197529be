package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"eneagramas-site/internal/app"
)

// Deps is everything the router needs.
type Deps struct {
	Quiz                *app.QuizService
	Catalog             *app.CatalogService
	Logger              *zap.Logger
	NewsletterRate      float64
	NewsletterBurst     int
	TestimonialInterval time.Duration
}

// NewMux returns the raw mux; NewHandler wraps it with middleware.
func NewMux(d Deps) *http.ServeMux {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	site := SiteHandler{Catalog: d.Catalog, Logger: d.Logger}
	mux.HandleFunc("/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: site.Index,
	}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	// Quiz
	mux.HandleFunc("/ws", NewWSHandler(d.Quiz, d.Logger).ServeWS)
	sh := ScoreHandler{Quiz: d.Quiz}
	mux.HandleFunc("/api/score", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Score,
	}))

	// Catalog
	ch := CatalogHandler{
		Catalog:  d.Catalog,
		Limiter:  NewClientLimiter(d.NewsletterRate, d.NewsletterBurst),
		Interval: d.TestimonialInterval,
		Logger:   d.Logger,
	}
	mux.HandleFunc("/api/stations", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Stations,
	}))
	mux.HandleFunc("/api/stations/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.StationByPath,
	}))
	mux.HandleFunc("/api/resources", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Resources,
	}))
	mux.HandleFunc("/api/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Events,
	}))
	mux.HandleFunc("/api/testimonials", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Testimonials,
	}))
	mux.HandleFunc("/api/testimonials/stream", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.TestimonialStream,
	}))
	mux.HandleFunc("/api/newsletter", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ch.Newsletter,
	}))

	return mux
}

// NewHandler is the mux behind request id, recovery and access logging.
func NewHandler(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return Chain(NewMux(d), RequestID, Recover(d.Logger), AccessLog(d.Logger))
}
