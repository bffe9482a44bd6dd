package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action types recorded in a session's log.
const (
	ActionNavigate = "navigate"
	ActionClick    = "click"
	ActionType     = "type"
	ActionScroll   = "scroll"
	ActionPress    = "press"
	ActionAnalyze  = "analyze"
)

// scrollKeys maps scroll directions to the keyboard key that performs
// them.
var scrollKeys = map[string]string{
	"down":   "PageDown",
	"up":     "PageUp",
	"top":    "Home",
	"bottom": "End",
}

// Action is one entry in a session's append-only action log.
type Action struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Selector       string    `json:"selector,omitempty"`
	Text           string    `json:"text,omitempty"`
	Success        bool      `json:"success"`
	Error          string    `json:"error,omitempty"`
	ScreenshotPath string    `json:"screenshot_path,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ActionResult is what a session operation reports back.
type ActionResult struct {
	Success        bool
	Message        string
	ScreenshotPath string
}

// Session is one live browser bundle: a page handle plus the log of
// everything done to it.
type Session struct {
	mu sync.RWMutex

	id         string
	driverName string
	page       PageHandle

	screenshotsDir string

	actions    []Action
	currentURL string
	createdAt  time.Time
	lastUsed   time.Time
	closed     bool

	// onAction fires after each recorded action, outside error paths.
	onAction func(sessionID string, act Action)
	onURL    func(sessionID, url string)
}

func newSession(id, driverName string, page PageHandle, screenshotsDir string) *Session {
	now := time.Now()
	return &Session{
		id:             id,
		driverName:     driverName,
		page:           page,
		screenshotsDir: screenshotsDir,
		createdAt:      now,
		lastUsed:       now,
	}
}

// ID returns the session's UUID.
func (s *Session) ID() string { return s.id }

// DriverName returns which automation backend runs this session.
func (s *Session) DriverName() string { return s.driverName }

// CreatedAt returns when the session was opened.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastUsed returns when the session last performed an action.
func (s *Session) LastUsed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUsed
}

// CurrentURL returns the last URL the session navigated to.
func (s *Session) CurrentURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentURL
}

// Actions returns a copy of the session's action log, oldest first.
func (s *Session) Actions() []Action {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Action, len(s.actions))
	copy(out, s.actions)
	return out
}

// ActionCount returns how many actions the session has recorded.
func (s *Session) ActionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.actions)
}

// Navigate loads a URL in the session's page. URLs without a scheme get
// https:// prepended.
func (s *Session) Navigate(ctx context.Context, url string) *ActionResult {
	url = normalizeURL(url)

	act := Action{Type: ActionNavigate, Text: url}
	if err := s.page.Navigate(ctx, url); err != nil {
		return s.record(act, err)
	}

	s.mu.Lock()
	s.currentURL = url
	s.mu.Unlock()
	if s.onURL != nil {
		s.onURL(s.id, url)
	}

	res := s.record(act, nil)
	res.Message = fmt.Sprintf("Navigated to %s", url)
	return res
}

// Click waits for the selector and clicks it.
func (s *Session) Click(ctx context.Context, selector string) *ActionResult {
	act := Action{Type: ActionClick, Selector: selector}
	if err := s.page.Click(ctx, selector); err != nil {
		return s.record(act, err)
	}
	res := s.record(act, nil)
	res.Message = fmt.Sprintf("Clicked element: %s", selector)
	return res
}

// Type clears the field behind the selector and types text into it.
func (s *Session) Type(ctx context.Context, selector, text string) *ActionResult {
	act := Action{Type: ActionType, Selector: selector, Text: text}
	if err := s.page.Fill(ctx, selector, text); err != nil {
		return s.record(act, err)
	}
	res := s.record(act, nil)
	res.Message = fmt.Sprintf("Typed text into: %s", selector)
	return res
}

// Scroll scrolls the page via keyboard keys. Directions are down, up,
// top, bottom.
func (s *Session) Scroll(ctx context.Context, direction string) *ActionResult {
	act := Action{Type: ActionScroll, Text: direction}

	key, ok := scrollKeys[strings.ToLower(direction)]
	if !ok {
		return s.record(act, fmt.Errorf("unknown scroll direction: %s", direction))
	}
	if err := s.page.Press(ctx, key); err != nil {
		return s.record(act, err)
	}
	res := s.record(act, nil)
	res.Message = fmt.Sprintf("Scrolled %s", strings.ToLower(direction))
	return res
}

// Press sends a raw keyboard key to the page.
func (s *Session) Press(ctx context.Context, key string) *ActionResult {
	act := Action{Type: ActionPress, Text: key}
	if err := s.page.Press(ctx, key); err != nil {
		return s.record(act, err)
	}
	res := s.record(act, nil)
	res.Message = fmt.Sprintf("Pressed %s", key)
	return res
}

// Screenshot captures the current viewport as PNG bytes without
// recording an action.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	s.touch()
	return s.page.Screenshot(ctx)
}

// RecordAnalyze appends an analyze entry to the action log.
func (s *Session) RecordAnalyze(success bool, errMsg string) Action {
	a := s.appendAction(Action{Type: ActionAnalyze, Success: success, Error: errMsg}, "")
	if s.onAction != nil {
		s.onAction(s.id, a)
	}
	return a
}

// Close releases the underlying page. Safe to call twice.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.page.Close()
}

// record finishes an action: captures a screenshot, appends the entry,
// and notifies the hook. A failed screenshot never fails the action.
func (s *Session) record(act Action, opErr error) *ActionResult {
	if opErr != nil {
		act.Error = opErr.Error()
	} else {
		act.Success = true
	}

	shot := s.captureToFile()
	a := s.appendAction(act, shot)
	if s.onAction != nil {
		s.onAction(s.id, a)
	}

	res := &ActionResult{
		Success:        a.Success,
		ScreenshotPath: a.ScreenshotPath,
	}
	if !a.Success {
		res.Message = a.Error
	}
	return res
}

func (s *Session) appendAction(act Action, screenshotPath string) Action {
	act.ID = uuid.NewString()
	act.CreatedAt = time.Now()
	if screenshotPath != "" {
		act.ScreenshotPath = screenshotPath
	}

	s.mu.Lock()
	s.actions = append(s.actions, act)
	s.lastUsed = act.CreatedAt
	s.mu.Unlock()
	return act
}

// captureToFile writes the current viewport to the session's screenshot
// file, overwriting the previous capture. Returns "" on any failure.
func (s *Session) captureToFile() string {
	if s.screenshotsDir == "" {
		return ""
	}
	buf, err := s.page.Screenshot(context.Background())
	if err != nil {
		return ""
	}
	path := filepath.Join(s.screenshotsDir, fmt.Sprintf("screenshot_%s.png", s.id))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return ""
	}
	return path
}

// normalizeURL prepends https:// when no scheme is given.
func normalizeURL(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return "https://" + url
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

// ScreenshotPath returns where this session's latest screenshot lives,
// or "" if none has been captured.
func (s *Session) ScreenshotPath() string {
	path := filepath.Join(s.screenshotsDir, fmt.Sprintf("screenshot_%s.png", s.id))
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
