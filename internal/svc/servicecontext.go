package svc

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/novaagent/nova/internal/browser"
	"github.com/novaagent/nova/internal/config"
	"github.com/novaagent/nova/internal/crashlog"
	"github.com/novaagent/nova/internal/db"
	"github.com/novaagent/nova/internal/defaults"
	"github.com/novaagent/nova/internal/keyring"
	"github.com/novaagent/nova/internal/logging"
	"github.com/novaagent/nova/internal/realtime"
	"github.com/novaagent/nova/internal/vision"
)

// ServiceContext carries the shared services every handler needs.
type ServiceContext struct {
	Config  config.Config
	DataDir string
	Version string

	DB      *db.Store
	Browser *browser.Manager
	Hub     *realtime.Hub

	analyzer     vision.Analyzer
	visionConfig config.VisionConfig
	analyzerMu   sync.RWMutex
}

// NewServiceContext wires up storage, the browser manager, the realtime
// hub, and the vision analyzer.
func NewServiceContext(c config.Config, version string) (*ServiceContext, error) {
	dataDir, err := defaults.EnsureDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	dbPath := c.Database.Path
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "data", "nova.db")
	}
	store, err := db.NewSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	crashlog.Init(store.DB())

	screenshotsDir := c.Screenshots.Dir
	if screenshotsDir == "" {
		screenshotsDir, err = defaults.ScreenshotsDir()
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	svcCtx := &ServiceContext{
		Config:  c,
		DataDir: dataDir,
		Version: version,
		DB:      store,
		Hub:     realtime.NewHub(),
	}

	svcCtx.Browser = browser.NewManager(browser.Config{
		Driver:            c.Browser.Driver,
		Headless:          c.Browser.Headless,
		NoSandbox:         c.Browser.NoSandbox,
		ViewportWidth:     c.Browser.ViewportWidth,
		ViewportHeight:    c.Browser.ViewportHeight,
		UserAgent:         c.Browser.UserAgent,
		ScreenshotsDir:    screenshotsDir,
		SessionTTL:        time.Duration(c.Browser.SessionTTLMinutes) * time.Minute,
		NavigationTimeout: time.Duration(c.Browser.NavigationTimeoutSeconds) * time.Second,
		ActionTimeout:     time.Duration(c.Browser.ActionTimeoutSeconds) * time.Second,
	}, svcCtx)

	svcCtx.visionConfig = c.Vision
	if err := svcCtx.buildAnalyzer(resolveVisionKey(c.Vision)); err != nil {
		logging.Warnf("vision analyzer unavailable: %v", err)
	}

	return svcCtx, nil
}

// resolveVisionKey prefers the configured key, then the OS keychain.
func resolveVisionKey(vc config.VisionConfig) string {
	if vc.APIKey != "" {
		return vc.APIKey
	}
	if key, err := keyring.GetVisionKey(); err == nil && key != "" {
		return key
	}
	return ""
}

func (s *ServiceContext) buildAnalyzer(apiKey string) error {
	s.analyzerMu.RLock()
	vc := s.visionConfig
	s.analyzerMu.RUnlock()
	analyzer, err := vision.NewAnalyzer(vision.Config{
		Provider:    vc.Provider,
		BaseURL:     vc.BaseURL,
		Model:       vc.Model,
		APIKey:      apiKey,
		MaxTokens:   vc.MaxTokensOrDefault(),
		Temperature: vc.TemperatureOrDefault(),
		Timeout:     time.Duration(vc.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return err
	}
	s.analyzerMu.Lock()
	s.analyzer = analyzer
	s.analyzerMu.Unlock()
	return nil
}

// Analyzer returns the current vision analyzer, or nil when none is
// configured.
func (s *ServiceContext) Analyzer() vision.Analyzer {
	s.analyzerMu.RLock()
	defer s.analyzerMu.RUnlock()
	return s.analyzer
}

// UpdateVisionConfig swaps in new vision settings, typically after a
// config file reload.
func (s *ServiceContext) UpdateVisionConfig(vc config.VisionConfig) {
	s.analyzerMu.Lock()
	s.visionConfig = vc
	s.analyzerMu.Unlock()

	if err := s.buildAnalyzer(resolveVisionKey(vc)); err != nil {
		logging.Warnf("vision analyzer unavailable after reload: %v", err)
	}
}

// SetVisionKey rebuilds the analyzer with a new API key and optionally
// persists the key to the OS keychain.
func (s *ServiceContext) SetVisionKey(apiKey string, persist bool) error {
	if err := s.buildAnalyzer(apiKey); err != nil {
		return err
	}
	if persist {
		if err := keyring.SetVisionKey(apiKey); err != nil {
			return fmt.Errorf("key set but not persisted to keychain: %w", err)
		}
	}
	return nil
}

// Close shuts down sessions and storage.
func (s *ServiceContext) Close() {
	if s.Browser != nil {
		s.Browser.Stop()
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			logging.Errorf("error closing database: %v", err)
		}
	}
}

// SessionCreated persists a new session and announces it.
func (s *ServiceContext) SessionCreated(sessionID, driver string) {
	if err := s.DB.InsertSession(sessionID, driver, time.Now()); err != nil {
		logging.Errorf("failed to persist session %s: %v", sessionID, err)
	}
	s.Hub.Broadcast(&realtime.Message{
		Type: realtime.EventSessionCreated,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"driver":     driver,
		},
	})
}

// SessionClosed marks a session closed and announces it.
func (s *ServiceContext) SessionClosed(sessionID string) {
	if err := s.DB.CloseSession(sessionID, time.Now()); err != nil {
		logging.Errorf("failed to close session %s in db: %v", sessionID, err)
	}
	s.Hub.Broadcast(&realtime.Message{
		Type: realtime.EventSessionClosed,
		Data: map[string]interface{}{
			"session_id": sessionID,
		},
	})
}

// ActionLogged persists an action log entry and announces it.
func (s *ServiceContext) ActionLogged(sessionID string, act browser.Action) {
	if err := s.DB.AppendAction(db.ActionRow{
		ID:             act.ID,
		SessionID:      sessionID,
		Type:           act.Type,
		Selector:       act.Selector,
		Text:           act.Text,
		Success:        act.Success,
		ErrorMessage:   act.Error,
		ScreenshotPath: act.ScreenshotPath,
		CreatedAt:      act.CreatedAt,
	}); err != nil {
		logging.Errorf("failed to persist action for session %s: %v", sessionID, err)
	}
	s.Hub.Broadcast(&realtime.Message{
		Type: realtime.EventAction,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"action": map[string]interface{}{
				"id":       act.ID,
				"type":     act.Type,
				"selector": act.Selector,
				"text":     act.Text,
				"success":  act.Success,
				"error":    act.Error,
			},
		},
	})
}

// URLChanged records the session's new URL and announces it.
func (s *ServiceContext) URLChanged(sessionID, url string) {
	if err := s.DB.UpdateSessionURL(sessionID, url); err != nil {
		logging.Errorf("failed to update url for session %s: %v", sessionID, err)
	}
	s.Hub.Broadcast(&realtime.Message{
		Type: realtime.EventURLChanged,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"url":        url,
		},
	})
}
