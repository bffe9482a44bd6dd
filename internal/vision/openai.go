package vision

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// openaiAnalyzer talks to any OpenAI-compatible chat completions
// endpoint, including Groq.
type openaiAnalyzer struct {
	client openai.Client
	cfg    Config
}

func newOpenAIAnalyzer(cfg Config) *openaiAnalyzer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openaiAnalyzer{
		client: openai.NewClient(opts...),
		cfg:    cfg,
	}
}

func (a *openaiAnalyzer) Provider() string {
	return ProviderOpenAI
}

func (a *openaiAnalyzer) Analyze(ctx context.Context, png []byte, prompt string) (*Result, error) {
	if a.cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		}),
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(a.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
	}
	if a.cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(a.cfg.MaxTokens))
	}
	if a.cfg.Temperature >= 0 {
		params.Temperature = openai.Float(a.cfg.Temperature)
	}

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("vision model returned no choices")
	}

	analysis := resp.Choices[0].Message.Content
	return &Result{
		Analysis: analysis,
		Elements: ScanElements(analysis),
		Model:    a.cfg.Model,
	}, nil
}
