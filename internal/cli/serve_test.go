package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lanekit/lanekit/pkg/cache"
	"github.com/lanekit/lanekit/pkg/pipeline"
)

const serveDoc = `
settings:
  title: Serve Test
  start_date: "2026-01-01"
  end_date: "2026-06-30"
workstreams:
  - name: Platform
tasks:
  - id: auth
    workstream: Platform
    title: Auth rollout
    start_date: "2026-01-05"
    end_date: "2026-02-13"
`

func newTestMux(t *testing.T) http.Handler {
	t.Helper()
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
	t.Cleanup(func() { _ = runner.Close() })
	return newServeMux(runner, nil, 1<<20)
}

func postRender(t *testing.T, mux http.Handler, opts pipeline.Options) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(opts)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/render", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestServeHealthz(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("GET /healthz body = %q, want status ok", rec.Body.String())
	}
}

func TestServeRender(t *testing.T) {
	mux := newTestMux(t)

	rec := postRender(t, mux, pipeline.Options{
		Source:       []byte(serveDoc),
		SourceFormat: "yaml",
		Formats:      []string{pipeline.FormatSVG},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/render status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp renderResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Title != "Serve Test" {
		t.Errorf("Title = %q, want %q", resp.Title, "Serve Test")
	}
	if resp.TaskCount != 1 {
		t.Errorf("TaskCount = %d, want 1", resp.TaskCount)
	}
	if resp.DocHash == "" || resp.ChartHash == "" {
		t.Error("response should carry document and chart hashes")
	}
	svg, ok := resp.Artifacts[pipeline.FormatSVG]
	if !ok {
		t.Fatal("response should carry an svg artifact")
	}
	if !bytes.Contains(svg, []byte("Auth rollout")) {
		t.Error("svg artifact should contain the task title")
	}
}

func TestServeRenderRejectsPath(t *testing.T) {
	mux := newTestMux(t)

	rec := postRender(t, mux, pipeline.Options{
		Path:    "/etc/passwd",
		Formats: []string{pipeline.FormatSVG},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error.Code != "INVALID_INPUT" {
		t.Errorf("error code = %q, want INVALID_INPUT", resp.Error.Code)
	}
	if !strings.Contains(resp.Error.Message, "inline") {
		t.Errorf("error message = %q, should ask for inline source", resp.Error.Message)
	}
}

func TestServeRenderBadDocument(t *testing.T) {
	mux := newTestMux(t)

	rec := postRender(t, mux, pipeline.Options{
		Source:       []byte("settings: ["),
		SourceFormat: "yaml",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error.Code != "INVALID_DOCUMENT" {
		t.Errorf("error code = %q, want INVALID_DOCUMENT", resp.Error.Code)
	}
}

func TestServeRenderBadFormat(t *testing.T) {
	mux := newTestMux(t)

	rec := postRender(t, mux, pipeline.Options{
		Source:       []byte(serveDoc),
		SourceFormat: "yaml",
		Formats:      []string{"pdf"},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeRenderMalformedBody(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/render", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
