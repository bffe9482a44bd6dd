package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/novaagent/nova/internal/crashlog"
	"github.com/novaagent/nova/internal/logging"
)

// ErrSessionNotFound is returned for operations on unknown session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Recorder observes session lifecycle and actions. All methods are
// called synchronously from the session's goroutine; implementations
// must not block.
type Recorder interface {
	SessionCreated(sessionID, driver string)
	SessionClosed(sessionID string)
	ActionLogged(sessionID string, act Action)
	URLChanged(sessionID, url string)
}

// Manager owns the registry of live sessions. One Manager per process.
type Manager struct {
	mu sync.RWMutex

	cfg      Config
	driver   Driver
	sessions map[string]*Session
	recorder Recorder
	reaper   *cron.Cron
	stopped  bool
}

// NewManager builds a manager. The browser driver starts lazily on the
// first session. recorder may be nil.
func NewManager(cfg Config, recorder Recorder) *Manager {
	m := &Manager{
		cfg:      ResolveConfig(cfg),
		sessions: make(map[string]*Session),
		recorder: recorder,
	}

	if m.cfg.SessionTTL > 0 {
		m.reaper = cron.New()
		m.reaper.AddFunc("@every 1m", m.reapIdle)
		m.reaper.Start()
	}
	return m
}

// ensureDriver starts the configured driver once, under the lock.
func (m *Manager) ensureDriver() (Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return nil, errors.New("manager is stopped")
	}
	if m.driver != nil {
		return m.driver, nil
	}

	d, err := NewDriver(m.cfg)
	if err != nil {
		crashlog.LogError("browser", err, map[string]string{"driver": m.cfg.Driver})
		return nil, fmt.Errorf("failed to start browser driver: %w", err)
	}
	m.driver = d
	return d, nil
}

// CreateSession opens a fresh browser page and registers it under a new
// UUID.
func (m *Manager) CreateSession(ctx context.Context) (*Session, error) {
	d, err := m.ensureDriver()
	if err != nil {
		return nil, err
	}

	page, err := d.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open browser page: %w", err)
	}

	id := uuid.NewString()
	sess := newSession(id, d.Name(), page, m.cfg.ScreenshotsDir)
	if m.recorder != nil {
		sess.onAction = m.recorder.ActionLogged
		sess.onURL = m.recorder.URLChanged
	}

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	logging.Infof("browser session created: %s (%s)", id, d.Name())
	if m.recorder != nil {
		m.recorder.SessionCreated(id, d.Name())
	}
	return sess, nil
}

// GetSession looks up a live session by ID.
func (m *Manager) GetSession(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// ListSessions returns all live sessions in no particular order.
func (m *Manager) ListSessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// CloseSession closes a session's browser resources and removes it from
// the registry.
func (m *Manager) CloseSession(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	if err := sess.Close(); err != nil {
		logging.Errorf("error closing session %s: %v", id, err)
	}
	logging.Infof("browser session closed: %s", id)
	if m.recorder != nil {
		m.recorder.SessionClosed(id)
	}
	return nil
}

// CloseAll closes every live session but keeps the driver running.
func (m *Manager) CloseAll() {
	for _, s := range m.ListSessions() {
		if err := m.CloseSession(s.ID()); err != nil && !errors.Is(err, ErrSessionNotFound) {
			logging.Errorf("error closing session %s: %v", s.ID(), err)
		}
	}
}

// Count returns how many sessions are live.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// reapIdle closes sessions that have been idle past the TTL.
func (m *Manager) reapIdle() {
	cutoff := time.Now().Add(-m.cfg.SessionTTL)

	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		if s.LastUsed().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		logging.Infof("reaping idle browser session: %s", id)
		if err := m.CloseSession(id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			logging.Errorf("failed to reap session %s: %v", id, err)
		}
	}
}

// Stop closes every session and shuts down the driver and reaper.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	driver := m.driver
	m.driver = nil
	m.mu.Unlock()

	if m.reaper != nil {
		m.reaper.Stop()
	}

	for id, s := range sessions {
		if err := s.Close(); err != nil {
			logging.Errorf("error closing session %s: %v", id, err)
		}
		if m.recorder != nil {
			m.recorder.SessionClosed(id)
		}
	}
	if driver != nil {
		if err := driver.Close(); err != nil {
			logging.Errorf("error closing browser driver: %v", err)
		}
	}
}
