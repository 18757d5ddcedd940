package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// XAIBaseURL is the OpenAI-compatible endpoint of the xAI API.
const XAIBaseURL = "https://api.x.ai/v1"

// ResponsesProvider talks to any service exposing the OpenAI Responses API
// with server-side tools. xAI and OpenAI differ only in endpoint, default
// model and the request field that caps tool-use turns.
type ResponsesProvider struct {
	client       openai.Client
	name         string
	model        string
	turnCapField string
}

// NewXAIProvider creates a provider for xAI's Grok models. The search tool
// is sent as {"type": "x_search"} and the turn cap as max_turns.
func NewXAIProvider(cfg ProviderConfig) (*ResponsesProvider, error) {
	return newResponsesProvider("xai", XAIBaseURL, "max_turns", cfg)
}

// NewOpenAIProvider creates a provider for OpenAI. The turn cap is sent as
// max_tool_calls.
func NewOpenAIProvider(cfg ProviderConfig) (*ResponsesProvider, error) {
	return newResponsesProvider("openai", "", "max_tool_calls", cfg)
}

func newResponsesProvider(name, defaultBaseURL, turnCapField string, cfg ProviderConfig) (*ResponsesProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w (set %s)", name, ErrMissingAPIKey, EnvKey(name))
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if baseURL := coalesce(cfg.BaseURL, defaultBaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &ResponsesProvider{
		client:       openai.NewClient(opts...),
		name:         name,
		model:        coalesce(cfg.Model, GetDefaultModel(name)),
		turnCapField: turnCapField,
	}, nil
}

// Execute sends one Responses API request and returns the output text.
func (p *ResponsesProvider) Execute(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	system, prompt := splitMessages(req.Messages)

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(p.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
	}
	if system != "" {
		params.Instructions = openai.String(system)
	}
	if req.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxTokens))
	}

	// Server-side search tools are not part of the SDK's typed tool union,
	// so they are set on the raw request body.
	var reqOpts []option.RequestOption
	if req.SearchTool != "" {
		reqOpts = append(reqOpts, option.WithJSONSet("tools", []map[string]any{
			{"type": req.SearchTool},
		}))
		if req.MaxTurns > 0 {
			reqOpts = append(reqOpts, option.WithJSONSet(p.turnCapField, req.MaxTurns))
		}
	}

	resp, err := p.client.Responses.New(ctx, params, reqOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}

	return &Response{
		Content:      resp.OutputText(),
		FinishReason: string(resp.Status),
		Model:        string(resp.Model),
		ID:           resp.ID,
		Usage: Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
		Duration: time.Since(start),
	}, nil
}

// Name returns the provider identifier.
func (p *ResponsesProvider) Name() string {
	return p.name
}

// Model returns the configured model name.
func (p *ResponsesProvider) Model() string {
	return p.model
}

var _ Provider = (*ResponsesProvider)(nil)
