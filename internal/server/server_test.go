package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/tmdlayout/pkg/cache"
	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/heuristics"
	"github.com/matzehuels/tmdlayout/pkg/layout"
	"github.com/matzehuels/tmdlayout/pkg/pipeline"
)

const starBody = `{
  "name": "Retail",
  "tables": ["Sales", "Date", "Product", "Customer"],
  "relationships": [
    {"from_table": "Sales", "to_table": "Date"},
    {"from_table": "Sales", "to_table": "Product"},
    {"from_table": "Sales", "to_table": "Customer"}
  ]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(Config{Runner: pipeline.NewRunner(c, cache.NewScopedKeyer(nil, "api:"), nil)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/layout", starBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Cache"); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	doc, err := layout.Read(resp.Body, layout.FormatJSON)
	if err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if doc.Model != "Retail" || len(doc.Positions) != 4 {
		t.Errorf("document = %q with %d positions", doc.Model, len(doc.Positions))
	}

	again := post(t, ts.URL+"/v1/layout", starBody)
	if got := again.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
}

func TestLayoutYAML(t *testing.T) {
	ts := newTestServer(t)
	body := strings.Replace(starBody, `"name": "Retail",`, `"name": "Retail", "format": "yaml",`, 1)
	resp := post(t, ts.URL+"/v1/layout", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if _, err := layout.Read(resp.Body, layout.FormatYAML); err != nil {
		t.Errorf("decode yaml document: %v", err)
	}
}

func TestLayoutErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"malformed", `{"tables": [`, errors.ErrCodeInvalidFormat},
		{"unknown field", `{"tables": ["A"], "colour": "red"}`, errors.ErrCodeInvalidFormat},
		{"no tables", `{"tables": []}`, errors.ErrCodeInvalidInput},
		{"bad format", `{"tables": ["A"], "format": "svg"}`, errors.ErrCodeInvalidFormat},
		{"bad canvas", `{"tables": ["A"], "canvas_width": 5}`, errors.ErrCodeInvalidCanvas},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/layout", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", body.Error.Code, tt.code, body.Error.Message)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/profile")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/toml" {
		t.Errorf("Content-Type = %q", ct)
	}
	p, err := heuristics.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if p.Name != heuristics.DefaultName {
		t.Errorf("profile name = %q", p.Name)
	}

	jresp, err := http.Get(ts.URL + "/v1/profile?format=json")
	if err != nil {
		t.Fatal(err)
	}
	defer jresp.Body.Close()
	var jp heuristics.Profile
	if err := json.NewDecoder(jresp.Body).Decode(&jp); err != nil {
		t.Fatal(err)
	}
	if jp.Geometry.TableWidth != p.Geometry.TableWidth {
		t.Errorf("json profile width = %v", jp.Geometry.TableWidth)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body.Status)
	}
}

func TestNewRejectsBadProfile(t *testing.T) {
	p := heuristics.Default()
	p.Geometry.TableWidth = 0
	if _, err := New(Config{Options: pipeline.Options{Profile: &p}}); !errors.Is(err, errors.ErrCodeInvalidProfile) {
		t.Errorf("New() error = %v, want INVALID_PROFILE", err)
	}
}

func TestServeListenerShutdown(t *testing.T) {
	s, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ServeListener() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
