package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eneagramas-site/internal/app"
	"eneagramas-site/internal/dataset"
	"eneagramas-site/internal/domain"
	"eneagramas-site/internal/infra/memory"
)

func newTestHandler(t *testing.T, d Deps) http.Handler {
	t.Helper()
	repo := memory.NewDatasetRepository(memory.NewStaticDatasetLoader(dataset.MustDefault()), time.Minute)
	if d.Quiz == nil {
		d.Quiz = app.NewQuizService(memory.NewSessionStore(), repo, app.QuizConfig{DatasetID: dataset.DefaultID})
	}
	if d.Catalog == nil {
		d.Catalog = app.NewCatalogService(repo, dataset.DefaultID, nil, nil)
	}
	return NewHandler(d)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var e APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return e
}

func TestStationsEndpoints(t *testing.T) {
	h := newTestHandler(t, Deps{})

	rec := do(h, http.MethodGet, "/api/stations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stations []domain.Station
	if err := json.Unmarshal(rec.Body.Bytes(), &stations); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(stations) != 9 {
		t.Fatalf("expected 9 stations, got %d", len(stations))
	}

	rec = do(h, http.MethodGet, "/api/stations/patrones-invisibles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var detail app.StationDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.ID != 5 || len(detail.WingStations) != 2 {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	rec = do(h, http.MethodGet, "/api/stations/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	e := decodeError(t, rec)
	if e.Error.Code != "not_found" || e.Error.RequestID == "" {
		t.Fatalf("unexpected error envelope: %+v", e)
	}
	if rec.Header().Get("X-Request-ID") != e.Error.RequestID {
		t.Fatalf("request id header and body disagree")
	}
}

func TestResourcesFilterByKind(t *testing.T) {
	h := newTestHandler(t, Deps{})

	rec := do(h, http.MethodGet, "/api/resources?kind=pdf", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resources []domain.Resource
	if err := json.Unmarshal(rec.Body.Bytes(), &resources); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resources) != 2 {
		t.Fatalf("expected 2 pdf resources, got %d", len(resources))
	}
	for _, r := range resources {
		if r.Kind != domain.ResourcePDF {
			t.Fatalf("unexpected kind %s", r.Kind)
		}
	}

	rec = do(h, http.MethodGet, "/api/resources?q=VOZ", "")
	resources = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &resources); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resources) != 1 || resources[0].Title != "Encontrar tu voz única" {
		t.Fatalf("unexpected search result: %+v", resources)
	}
}

func TestEventsEndpointSplitsFeatured(t *testing.T) {
	h := newTestHandler(t, Deps{})
	rec := do(h, http.MethodGet, "/api/events", "")
	var listing app.EventListing
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listing.Featured == nil || listing.Featured.ID != 1 {
		t.Fatalf("expected event 1 featured, got %+v", listing.Featured)
	}
	if len(listing.Others) != 3 {
		t.Fatalf("expected 3 other events, got %d", len(listing.Others))
	}
}

func TestScoreEndpoint(t *testing.T) {
	h := newTestHandler(t, Deps{})

	rec := do(h, http.MethodPost, "/api/score", `{"answers":[[1],[1],[1],[1,4],[9]]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp scoreResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TopK != 2 || len(resp.Results) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Results[0].Station.ID != 1 || resp.Results[0].Count != 4 || resp.Results[1].Station.ID != 4 {
		t.Fatalf("unexpected ranking: %+v", resp.Results)
	}

	rec = do(h, http.MethodPost, "/api/score", `{"answers":[[1],[2]],"topK":0}`)
	resp = scoreResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Fatalf("expected empty results for topK 0, got %+v", resp.Results)
	}

	rec = do(h, http.MethodPost, "/api/score", `{"answers":[[42]]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown station, got %d", rec.Code)
	}

	rec = do(h, http.MethodPost, "/api/score", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", rec.Code)
	}

	rec = do(h, http.MethodGet, "/api/score", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestNewsletterValidatesAndRateLimits(t *testing.T) {
	h := newTestHandler(t, Deps{NewsletterRate: 0.001, NewsletterBurst: 2})

	rec := do(h, http.MethodPost, "/api/newsletter", `{"email":"no-at-sign"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if e := decodeError(t, rec); e.Error.Code != "invalid_contact" {
		t.Fatalf("unexpected code %q", e.Error.Code)
	}

	rec = do(h, http.MethodPost, "/api/newsletter", `{"email":"ana@example.com"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	rec = do(h, http.MethodPost, "/api/newsletter", `{"email":"ana@example.com"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", rec.Code)
	}
}

func TestIndexRendersPage(t *testing.T) {
	h := newTestHandler(t, Deps{})
	rec := do(h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Saber Consentido", `href="#estacion-9"`, "Test de orientación"} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}

	if rec := do(h, http.MethodGet, "/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown page, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, Deps{})
	rec := do(h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestRecoverReturnsJSONError(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := Chain(panicking, RequestID, Recover(nopLogger()))

	rec := do(h, http.MethodGet, "/", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if e := decodeError(t, rec); e.Error.Code != "internal_error" {
		t.Fatalf("unexpected code %q", e.Error.Code)
	}
}

func TestTestimonialStream(t *testing.T) {
	server := httptest.NewServer(newTestHandler(t, Deps{TestimonialInterval: 10 * time.Millisecond}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/testimonials/stream", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var ids []int
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() && len(ids) < 4 {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var tm domain.Testimonial
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &tm); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		ids = append(ids, tm.ID)
	}
	want := []int{1, 2, 3, 1}
	for i := range want {
		if i >= len(ids) || ids[i] != want[i] {
			t.Fatalf("expected rotation %v, got %v", want, ids)
		}
	}
}
