package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Nova configuration.
type Config struct {
	Port int `yaml:"port"`

	App struct {
		Name   string `yaml:"name"`
		Domain string `yaml:"domain"`
	} `yaml:"app"`

	Browser BrowserConfig `yaml:"browser"`
	Vision  VisionConfig  `yaml:"vision"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Screenshots struct {
		Dir string `yaml:"dir"`
	} `yaml:"screenshots"`
}

// BrowserConfig configures the headless browser sessions.
type BrowserConfig struct {
	// Driver selects the automation backend: "playwright" or "cdp".
	Driver string `yaml:"driver"`

	Headless  bool `yaml:"headless"`
	NoSandbox bool `yaml:"noSandbox"`

	ViewportWidth  int    `yaml:"viewportWidth"`
	ViewportHeight int    `yaml:"viewportHeight"`
	UserAgent      string `yaml:"userAgent"`

	// SessionTTLMinutes is how long an idle session lives before the
	// reaper closes it. 0 disables reaping.
	SessionTTLMinutes int `yaml:"sessionTTLMinutes"`

	NavigationTimeoutSeconds int `yaml:"navigationTimeoutSeconds"`
	ActionTimeoutSeconds     int `yaml:"actionTimeoutSeconds"`
}

// VisionConfig configures the screenshot analysis provider.
type VisionConfig struct {
	// Provider is "openai" (any OpenAI-compatible endpoint, e.g. Groq)
	// or "anthropic".
	Provider string `yaml:"provider"`

	BaseURL string `yaml:"baseUrl"`
	Model   string `yaml:"model"`

	// APIKey may be left empty and set at runtime via the UI or keychain.
	APIKey string `yaml:"apiKey"`

	// MaxTokens and Temperature are pointers so an explicit zero in the
	// YAML survives defaulting.
	MaxTokens      *int     `yaml:"maxTokens"`
	Temperature    *float64 `yaml:"temperature"`
	TimeoutSeconds int      `yaml:"timeoutSeconds"`
}

const (
	defaultMaxTokens   = 1000
	defaultTemperature = 0.1
)

// MaxTokensOrDefault returns the configured token limit, falling back
// to the default when the key is absent. An explicit 0 is kept.
func (v VisionConfig) MaxTokensOrDefault() int {
	if v.MaxTokens == nil {
		return defaultMaxTokens
	}
	return *v.MaxTokens
}

// TemperatureOrDefault returns the configured sampling temperature,
// falling back to the default when the key is absent. An explicit 0
// is kept.
func (v VisionConfig) TemperatureOrDefault() float64 {
	if v.Temperature == nil {
		return defaultTemperature
	}
	return *v.Temperature
}

// LoadFromBytes loads configuration from YAML bytes with environment
// variable expansion, then applies defaults.
func LoadFromBytes(data []byte) (Config, error) {
	var c Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return c, nil
}

// LoadFile loads configuration from a YAML file on disk.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		if p := envInt("PORT"); p > 0 {
			c.Port = p
		} else {
			c.Port = 7860
		}
	}
	if c.App.Name == "" {
		c.App.Name = "Nova"
	}
	if c.App.Domain == "" {
		c.App.Domain = "localhost"
	}

	b := &c.Browser
	if b.Driver == "" {
		b.Driver = "playwright"
	}
	if b.ViewportWidth == 0 {
		b.ViewportWidth = 1920
	}
	if b.ViewportHeight == 0 {
		b.ViewportHeight = 1080
	}
	if b.UserAgent == "" {
		b.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if b.NavigationTimeoutSeconds == 0 {
		b.NavigationTimeoutSeconds = 30
	}
	if b.ActionTimeoutSeconds == 0 {
		b.ActionTimeoutSeconds = 10
	}

	v := &c.Vision
	if v.Provider == "" {
		v.Provider = "openai"
	}
	if v.BaseURL == "" && v.Provider == "openai" {
		v.BaseURL = "https://api.groq.com/openai/v1"
	}
	if v.Model == "" {
		v.Model = defaultModel(v.Provider)
	}
	if v.APIKey == "" {
		v.APIKey = envKey(v.Provider)
	}
	if v.MaxTokens == nil {
		n := defaultMaxTokens
		v.MaxTokens = &n
	}
	if v.Temperature == nil {
		f := defaultTemperature
		v.Temperature = &f
	}
	if v.TimeoutSeconds == 0 {
		v.TimeoutSeconds = 30
	}
}

func defaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case "anthropic":
		return "claude-sonnet-4-20250514"
	default:
		return "meta-llama/llama-4-maverick-17b-128e-instruct"
	}
}

func envKey(provider string) string {
	switch strings.ToLower(provider) {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		if k := os.Getenv("GROQ_API_KEY"); k != "" {
			return k
		}
		return os.Getenv("OPENAI_API_KEY")
	}
}

func envInt(name string) int {
	var n int
	fmt.Sscanf(os.Getenv(name), "%d", &n)
	return n
}
