package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicAnalyzer struct {
	client anthropic.Client
	cfg    Config
}

func newAnthropicAnalyzer(cfg Config) *anthropicAnalyzer {
	return &anthropicAnalyzer{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:    cfg,
	}
}

func (a *anthropicAnalyzer) Provider() string {
	return ProviderAnthropic
}

func (a *anthropicAnalyzer) Analyze(ctx context.Context, png []byte, prompt string) (*Result, error) {
	if a.cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}

	encoded := base64.StdEncoding.EncodeToString(png)

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.cfg.Model),
		MaxTokens: int64(a.cfg.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64("image/png", encoded),
				anthropic.NewTextBlock(prompt),
			),
		},
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = 1024
	}
	if a.cfg.Temperature >= 0 {
		params.Temperature = anthropic.Float(a.cfg.Temperature)
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	analysis := sb.String()
	if analysis == "" {
		return nil, fmt.Errorf("vision model returned no text")
	}

	return &Result{
		Analysis: analysis,
		Elements: ScanElements(analysis),
		Model:    a.cfg.Model,
	}, nil
}
