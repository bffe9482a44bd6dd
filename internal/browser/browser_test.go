package browser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

type fakePage struct {
	mu       sync.Mutex
	url      string
	title    string
	failNext error
	pressed  []string
	filled   map[string]string
	clicked  []string
	shots    int
	closed   bool
}

func newFakePage() *fakePage {
	return &fakePage{filled: make(map[string]string)}
}

func (p *fakePage) takeErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.failNext
	p.failNext = nil
	return err
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	if err := p.takeErr(); err != nil {
		return err
	}
	p.mu.Lock()
	p.url = url
	p.mu.Unlock()
	return nil
}

func (p *fakePage) Click(ctx context.Context, selector string) error {
	if err := p.takeErr(); err != nil {
		return err
	}
	p.mu.Lock()
	p.clicked = append(p.clicked, selector)
	p.mu.Unlock()
	return nil
}

func (p *fakePage) Fill(ctx context.Context, selector, text string) error {
	if err := p.takeErr(); err != nil {
		return err
	}
	p.mu.Lock()
	p.filled[selector] = text
	p.mu.Unlock()
	return nil
}

func (p *fakePage) Press(ctx context.Context, key string) error {
	if err := p.takeErr(); err != nil {
		return err
	}
	p.mu.Lock()
	p.pressed = append(p.pressed, key)
	p.mu.Unlock()
	return nil
}

func (p *fakePage) Screenshot(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	p.shots++
	p.mu.Unlock()
	return []byte("png-bytes"), nil
}

func (p *fakePage) URL() string   { return p.url }
func (p *fakePage) Title() string { return p.title }

func (p *fakePage) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

type fakeDriver struct {
	mu     sync.Mutex
	pages  []*fakePage
	closed bool
}

func (d *fakeDriver) Name() string { return "fake" }

func (d *fakeDriver) NewPage(ctx context.Context) (PageHandle, error) {
	p := newFakePage()
	d.mu.Lock()
	d.pages = append(d.pages, p)
	d.mu.Unlock()
	return p, nil
}

func (d *fakeDriver) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

type recordedEvent struct {
	kind      string
	sessionID string
	action    Action
	url       string
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *fakeRecorder) SessionCreated(id, driver string) {
	r.add(recordedEvent{kind: "created", sessionID: id})
}

func (r *fakeRecorder) SessionClosed(id string) {
	r.add(recordedEvent{kind: "closed", sessionID: id})
}

func (r *fakeRecorder) ActionLogged(id string, act Action) {
	r.add(recordedEvent{kind: "action", sessionID: id, action: act})
}

func (r *fakeRecorder) URLChanged(id, url string) {
	r.add(recordedEvent{kind: "url", sessionID: id, url: url})
}

func (r *fakeRecorder) add(e recordedEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *fakeRecorder) byKind(kind string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func newTestManager(t *testing.T, rec Recorder) (*Manager, *fakeDriver) {
	t.Helper()
	m := NewManager(Config{ScreenshotsDir: t.TempDir()}, rec)
	d := &fakeDriver{}
	m.driver = d
	t.Cleanup(m.Stop)
	return m, d
}

func TestManagerSessionLifecycle(t *testing.T) {
	m, d := newTestManager(t, nil)
	ctx := context.Background()

	sess, err := m.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sess.ID() == "" {
		t.Fatal("expected non-empty session ID")
	}
	if m.Count() != 1 {
		t.Fatalf("expected 1 session, got %d", m.Count())
	}

	got, err := m.GetSession(sess.ID())
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got != sess {
		t.Fatal("GetSession returned a different session")
	}

	if err := m.CloseSession(sess.ID()); err != nil {
		t.Fatalf("CloseSession failed: %v", err)
	}
	if m.Count() != 0 {
		t.Fatalf("expected 0 sessions after close, got %d", m.Count())
	}
	if !d.pages[0].closed {
		t.Fatal("expected underlying page to be closed")
	}

	if _, err := m.GetSession(sess.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManagerCloseUnknownSession(t *testing.T) {
	m, _ := newTestManager(t, nil)

	if err := m.CloseSession("no-such-id"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManagerStopClosesEverything(t *testing.T) {
	m, d := newTestManager(t, nil)
	ctx := context.Background()

	if _, err := m.CreateSession(ctx); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := m.CreateSession(ctx); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	m.Stop()

	if m.Count() != 0 {
		t.Fatalf("expected 0 sessions after stop, got %d", m.Count())
	}
	for i, p := range d.pages {
		if !p.closed {
			t.Fatalf("page %d not closed after Stop", i)
		}
	}
	if !d.closed {
		t.Fatal("driver not closed after Stop")
	}

	if _, err := m.CreateSession(ctx); err == nil {
		t.Fatal("expected CreateSession to fail after Stop")
	}
}

func TestSessionActionLogOrder(t *testing.T) {
	m, d := newTestManager(t, nil)
	ctx := context.Background()

	sess, err := m.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if res := sess.Navigate(ctx, "example.com"); !res.Success {
		t.Fatalf("navigate failed: %s", res.Message)
	}
	if res := sess.Click(ctx, "#login"); !res.Success {
		t.Fatalf("click failed: %s", res.Message)
	}
	if res := sess.Type(ctx, "#user", "alice"); !res.Success {
		t.Fatalf("type failed: %s", res.Message)
	}

	if got := sess.CurrentURL(); got != "https://example.com" {
		t.Fatalf("expected https:// to be prepended, got %q", got)
	}
	if got := d.pages[0].filled["#user"]; got != "alice" {
		t.Fatalf("expected typed text to reach the page, got %q", got)
	}

	acts := sess.Actions()
	if len(acts) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(acts))
	}
	wantTypes := []string{ActionNavigate, ActionClick, ActionType}
	for i, want := range wantTypes {
		if acts[i].Type != want {
			t.Fatalf("action %d: expected %s, got %s", i, want, acts[i].Type)
		}
		if !acts[i].Success {
			t.Fatalf("action %d: expected success", i)
		}
		if acts[i].ID == "" {
			t.Fatalf("action %d: missing ID", i)
		}
	}
}

func TestSessionScrollKeys(t *testing.T) {
	m, d := newTestManager(t, nil)
	ctx := context.Background()

	sess, err := m.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	for _, dir := range []string{"down", "up", "top", "bottom"} {
		if res := sess.Scroll(ctx, dir); !res.Success {
			t.Fatalf("scroll %s failed: %s", dir, res.Message)
		}
	}

	want := []string{"PageDown", "PageUp", "Home", "End"}
	got := d.pages[0].pressed
	if len(got) != len(want) {
		t.Fatalf("expected %d key presses, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("press %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	res := sess.Scroll(ctx, "sideways")
	if res.Success {
		t.Fatal("expected unknown direction to fail")
	}
	acts := sess.Actions()
	last := acts[len(acts)-1]
	if last.Success || last.Error == "" {
		t.Fatal("expected failed scroll to be recorded with an error")
	}
}

func TestSessionPress(t *testing.T) {
	m, d := newTestManager(t, nil)
	ctx := context.Background()

	sess, err := m.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if res := sess.Press(ctx, "Enter"); !res.Success {
		t.Fatalf("press failed: %s", res.Message)
	}
	if got := d.pages[0].pressed; len(got) != 1 || got[0] != "Enter" {
		t.Fatalf("expected Enter press, got %v", got)
	}
}

func TestManagerCloseAll(t *testing.T) {
	m, d := newTestManager(t, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := m.CreateSession(ctx); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}

	m.CloseAll()

	if m.Count() != 0 {
		t.Fatalf("expected 0 sessions, got %d", m.Count())
	}
	if d.closed {
		t.Fatal("CloseAll must not shut down the driver")
	}
}

func TestSessionFailedActionRecorded(t *testing.T) {
	m, d := newTestManager(t, nil)
	ctx := context.Background()

	sess, err := m.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	d.pages[0].failNext = errors.New("element not visible")
	res := sess.Click(ctx, "#missing")
	if res.Success {
		t.Fatal("expected click to fail")
	}
	if res.Message != "element not visible" {
		t.Fatalf("unexpected message: %q", res.Message)
	}

	acts := sess.Actions()
	if len(acts) != 1 {
		t.Fatalf("expected failed action in the log, got %d entries", len(acts))
	}
	if acts[0].Success || acts[0].Error != "element not visible" {
		t.Fatalf("failed action not recorded: %+v", acts[0])
	}
}

func TestSessionScreenshotOverwrite(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(Config{ScreenshotsDir: dir}, nil)
	m.driver = &fakeDriver{}
	t.Cleanup(m.Stop)
	ctx := context.Background()

	sess, err := m.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sess.Navigate(ctx, "https://example.com")
	sess.Click(ctx, "#a")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single screenshot file, got %d", len(entries))
	}
	want := filepath.Join(dir, "screenshot_"+sess.ID()+".png")
	if sess.ScreenshotPath() != want {
		t.Fatalf("unexpected screenshot path: %q", sess.ScreenshotPath())
	}
}

func TestRecorderHooks(t *testing.T) {
	rec := &fakeRecorder{}
	m, _ := newTestManager(t, rec)
	ctx := context.Background()

	sess, err := m.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	sess.Navigate(ctx, "https://example.com")
	m.CloseSession(sess.ID())

	if got := rec.byKind("created"); len(got) != 1 || got[0].sessionID != sess.ID() {
		t.Fatalf("expected one created event for %s, got %+v", sess.ID(), got)
	}
	if got := rec.byKind("url"); len(got) != 1 || got[0].url != "https://example.com" {
		t.Fatalf("expected one url event, got %+v", got)
	}
	if got := rec.byKind("action"); len(got) != 1 || got[0].action.Type != ActionNavigate {
		t.Fatalf("expected one action event, got %+v", got)
	}
	if got := rec.byKind("closed"); len(got) != 1 {
		t.Fatalf("expected one closed event, got %+v", got)
	}
}
