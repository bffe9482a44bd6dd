package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type testRequest struct {
	ID    string `path:"id" json:"-"`
	Limit int    `form:"limit" json:"-"`
	Name  string `json:"name"`
}

func TestParsePathFormAndBody(t *testing.T) {
	r := chi.NewRouter()

	var got testRequest
	r.Post("/things/{id}", func(w http.ResponseWriter, req *http.Request) {
		if err := Parse(req, &got); err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	body := strings.NewReader(`{"name":"widget"}`)
	req := httptest.NewRequest(http.MethodPost, "/things/abc123?limit=5", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got.ID != "abc123" {
		t.Fatalf("expected path var abc123, got %q", got.ID)
	}
	if got.Limit != 5 {
		t.Fatalf("expected limit 5, got %d", got.Limit)
	}
	if got.Name != "widget" {
		t.Fatalf("expected name widget, got %q", got.Name)
	}
}

func TestParseBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{bad`))
	req.Header.Set("Content-Type", "application/json")

	var got testRequest
	if err := Parse(req, &got); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestErrorWithCode(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorWithCode(w, http.StatusTeapot, "nope")

	if w.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Code != http.StatusTeapot || resp.Message != "nope" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?n=7&bad=x", nil)
	if got := QueryInt(req, "n", 1); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := QueryInt(req, "bad", 1); got != 1 {
		t.Fatalf("expected default 1, got %d", got)
	}
	if got := QueryInt(req, "missing", 3); got != 3 {
		t.Fatalf("expected default 3, got %d", got)
	}
}
