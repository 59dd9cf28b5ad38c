package server

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/briefer/internal/briefing"
)

// offlinePipeline has no search, retrieval or generation backends wired, so
// every request bottoms out at the static catalog. That is exactly the shape
// we want for handler tests: deterministic and network-free.
func offlinePipeline() *briefing.Pipeline {
	agg := briefing.NewAggregator(nil, nil, 0, 0, 0, nil, nil)
	retr := briefing.NewRetriever(nil, nil, briefing.RetrieverConfig{}, nil)
	gen := briefing.NewGenerator(nil, nil)
	return briefing.NewPipeline(agg, retr, gen, briefing.ComposerConfig{}, time.Second, nil)
}

func newTestServer() *echo.Echo {
	e := echo.New()
	h := &BriefingsHandler{
		Pipeline: offlinePipeline(),
		Logger:   log.New(log.Writer(), "[TEST] ", log.LstdFlags),
	}
	h.Register(e.Group("/api"))
	return e
}

func TestBriefingsEndpoint(t *testing.T) {
	e := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/briefings", strings.NewReader(`{"location":"Berlin"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res briefing.PipelineResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("response did not decode: %v", err)
	}
	if !res.Success {
		t.Error("offline pipeline must still succeed")
	}
	if res.Source != briefing.TierStaticFallback {
		t.Errorf("expected static-fallback with no backends, got %q", res.Source)
	}
	if len(res.Cards) == 0 {
		t.Fatal("response must carry cards")
	}
	for _, card := range res.Cards {
		if card.ID == "" || card.Timestamp.IsZero() {
			t.Errorf("card not normalized: %+v", card)
		}
	}
}

func TestBriefingsEndpointEmptyBody(t *testing.T) {
	e := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/briefings", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("location is optional; expected 200, got %d", rec.Code)
	}
}

func TestBriefingsEndpointMalformedBody(t *testing.T) {
	e := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/briefings", strings.NewReader(`{"location":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
	var res failureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("error response did not decode: %v", err)
	}
	if res.Success {
		t.Error("malformed request must report success=false")
	}
	if len(res.Cards) == 0 {
		t.Error("even an error response ships the static catalog")
	}
	if res.Source != briefing.TierStaticFallback {
		t.Errorf("error response source = %q", res.Source)
	}
}

func TestBriefingsEndpointPanicRecovery(t *testing.T) {
	e := echo.New()
	// A pipeline with a nil *Generator dereferences it during Run and
	// panics; the handler must absorb that and still return cards.
	agg := briefing.NewAggregator(nil, nil, 0, 0, 0, nil, nil)
	retr := briefing.NewRetriever(nil, nil, briefing.RetrieverConfig{}, nil)
	broken := briefing.NewPipeline(agg, retr, nil, briefing.ComposerConfig{}, time.Second, nil)
	h := &BriefingsHandler{
		Pipeline: broken,
		Logger:   log.New(log.Writer(), "[TEST] ", log.LstdFlags),
	}
	h.Register(e.Group("/api"))

	req := httptest.NewRequest(http.MethodPost, "/api/briefings", strings.NewReader(`{"location":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
	var res failureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("panic response did not decode: %v", err)
	}
	if res.Success || len(res.Cards) == 0 {
		t.Errorf("panic response must be a failure with static cards: %+v", res)
	}
}
