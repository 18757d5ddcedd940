package sentiment

import (
	"context"
	"errors"

	"github.com/jmylchreest/doxa/internal/logger"
	"github.com/jmylchreest/doxa/pkg/article"
	"github.com/jmylchreest/doxa/pkg/llm"
)

// DefaultMaxTurns caps the model's internal search iterations.
const DefaultMaxTurns = 10

// ArticleFetcher looks up metadata for the source article.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (*article.Article, error)
}

// Analyzer runs one sentiment analysis per call.
type Analyzer struct {
	provider   llm.Provider
	searchTool string
	maxTurns   int
	maxTokens  int
	structured bool
	fetcher    ArticleFetcher
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithSearchTool sets the server-side search tool. An empty name keeps the
// default.
func WithSearchTool(name string) AnalyzerOption {
	return func(a *Analyzer) {
		if name != "" {
			a.searchTool = name
		}
	}
}

// WithMaxTurns caps the number of internal tool-use turns.
func WithMaxTurns(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxTurns = n
		}
	}
}

// WithMaxTokens caps the reply length. 0 keeps the provider default.
func WithMaxTokens(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n >= 0 {
			a.maxTokens = n
		}
	}
}

// WithStructuredOutput asks the model for a JSON reply. Markdown replies are
// still parsed.
func WithStructuredOutput(enabled bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.structured = enabled
	}
}

// WithArticleFetcher enables article metadata lookup before prompting.
func WithArticleFetcher(f ArticleFetcher) AnalyzerOption {
	return func(a *Analyzer) {
		a.fetcher = f
	}
}

// NewAnalyzer creates an analyzer backed by p.
func NewAnalyzer(p llm.Provider, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		provider:   p,
		searchTool: DefaultSearchTool,
		maxTurns:   DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze asks the model about title/url and extracts the report. Provider
// errors are returned unchanged; extraction itself cannot fail, so a nil
// error always comes with a complete report.
func (a *Analyzer) Analyze(ctx context.Context, title, url string) (*Report, error) {
	if a.provider == nil {
		return nil, errors.New("sentiment: no provider configured")
	}

	opts := []PromptOption{WithSearchToolName(a.searchTool)}
	if a.structured {
		opts = append(opts, WithStructuredReply())
	}
	if a.fetcher != nil {
		art, err := a.fetcher.Fetch(ctx, url)
		if err != nil {
			logger.Warn("article fetch failed, continuing without context", "url", url, "error", err)
		} else {
			opts = append(opts, WithArticleContext(art))
		}
	}

	system, prompt := BuildPrompts(title, url, opts...)
	logger.Debug("prompt built",
		"provider", a.provider.Name(),
		"model", a.provider.Model(),
		"search_tool", a.searchTool,
		"max_turns", a.maxTurns,
		"prompt_size", len(prompt))

	resp, err := a.provider.Execute(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: prompt},
		},
		SearchTool: a.searchTool,
		MaxTurns:   a.maxTurns,
		MaxTokens:  a.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	var report Report
	if a.structured {
		report = Parse(resp.Content)
	} else {
		report = Extract(resp.Content)
	}

	logger.Info("analysis complete",
		"model", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"duration", resp.Duration,
		"citations", len(report.Left.Tweets)+len(report.Center.Tweets)+len(report.Right.Tweets))
	return &report, nil
}
