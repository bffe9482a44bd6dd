package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultPrompt is sent when the caller supplies no prompt of its own.
const DefaultPrompt = "Analyze this webpage screenshot. Describe the main content, " +
	"list the interactive elements (buttons, links, forms, inputs, menus), " +
	"and point out anything notable for someone automating this page."

// ErrNoAPIKey is returned when analysis is requested without a key
// configured.
var ErrNoAPIKey = errors.New("no vision API key configured")

// Config selects and tunes an analysis provider.
type Config struct {
	// Provider is "openai" (any OpenAI-compatible endpoint) or
	// "anthropic".
	Provider string

	// BaseURL overrides the API endpoint. Ignored by the anthropic
	// provider.
	BaseURL string

	Model  string
	APIKey string

	// MaxTokens caps the response length. Values <= 0 leave the
	// provider default in place.
	MaxTokens int

	// Temperature is sent as-is, including 0. Negative values leave
	// the provider default in place.
	Temperature float64

	Timeout time.Duration
}

// Result is what the model said about a screenshot.
type Result struct {
	Analysis string   `json:"analysis"`
	Elements []string `json:"elements,omitempty"`
	Model    string   `json:"model"`
}

// Analyzer sends screenshots to a vision model.
type Analyzer interface {
	// Analyze describes a PNG screenshot. An empty prompt falls back to
	// DefaultPrompt.
	Analyze(ctx context.Context, png []byte, prompt string) (*Result, error)

	// Provider returns which backend this analyzer talks to.
	Provider() string
}

// NewAnalyzer builds the configured provider.
func NewAnalyzer(cfg Config) (Analyzer, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	switch cfg.Provider {
	case ProviderOpenAI, "":
		return newOpenAIAnalyzer(cfg), nil
	case ProviderAnthropic:
		return newAnthropicAnalyzer(cfg), nil
	default:
		return nil, fmt.Errorf("unknown vision provider: %s", cfg.Provider)
	}
}

// elementKeywords are the element kinds extracted from analysis text.
var elementKeywords = []string{
	"button", "link", "form", "input", "menu",
	"image", "navigation", "search", "dropdown", "checkbox",
}

// ScanElements pulls the lines of an analysis that mention interactive
// elements. Duplicate lines are dropped and the result is capped.
func ScanElements(analysis string) []string {
	const maxElements = 20

	seen := make(map[string]bool)
	var out []string
	for _, line := range strings.Split(analysis, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• "))
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range elementKeywords {
			if strings.Contains(lower, kw) {
				if !seen[line] {
					seen[line] = true
					out = append(out, line)
				}
				break
			}
		}
		if len(out) >= maxElements {
			break
		}
	}
	return out
}
