package sessions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/novaagent/nova/internal/config"
	"github.com/novaagent/nova/internal/svc"
	"github.com/novaagent/nova/internal/types"
)

func newTestRouter(t *testing.T) (*chi.Mux, *svc.ServiceContext) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("NOVA_DATA_DIR", tmp)
	t.Setenv("NOVA_KEYRING_DISABLED", "1")

	var c config.Config
	c.Database.Path = filepath.Join(tmp, "nova.db")
	c.Screenshots.Dir = filepath.Join(tmp, "screenshots")
	c.Vision.Provider = "openai"
	c.Vision.Model = "test-model"

	svcCtx, err := svc.NewServiceContext(c, "test")
	if err != nil {
		t.Fatalf("NewServiceContext failed: %v", err)
	}
	t.Cleanup(svcCtx.Close)

	r := chi.NewRouter()
	r.Get("/sessions", ListHandler(svcCtx))
	r.Get("/sessions/{id}", GetHandler(svcCtx))
	r.Delete("/sessions/{id}", CloseHandler(svcCtx))
	r.Get("/sessions/{id}/actions", ActionsHandler(svcCtx))
	r.Post("/sessions/{id}/navigate", NavigateHandler(svcCtx))
	r.Post("/sessions/{id}/click", ClickHandler(svcCtx))
	return r, svcCtx
}

func TestListSessionsEmpty(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp types.ListSessionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(resp.Sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(resp.Sessions))
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	r, _ := newTestRouter(t)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/sessions/nope", nil),
		httptest.NewRequest(http.MethodDelete, "/sessions/nope", nil),
		httptest.NewRequest(http.MethodGet, "/sessions/nope/actions", nil),
	}
	for _, req := range requests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", req.Method, req.URL.Path, w.Code)
		}
	}
}

func TestNavigateUnknownSession(t *testing.T) {
	r, _ := newTestRouter(t)

	body := strings.NewReader(`{"url":"https://example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/sessions/nope/navigate", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestNavigateMissingURL(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/sessions/nope/navigate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestClickMissingSelector(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/sessions/nope/click", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestScreenshotURLMapping(t *testing.T) {
	if got := screenshotURL(""); got != "" {
		t.Fatalf("expected empty url, got %q", got)
	}
	got := screenshotURL("/data/screenshots/screenshot_abc.png")
	if got != "/api/v1/files/screenshot_abc.png" {
		t.Fatalf("unexpected url: %q", got)
	}
}
