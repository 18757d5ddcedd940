// Package commands implements the doxa command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/doxa/internal/config"
	"github.com/jmylchreest/doxa/internal/logger"
	"github.com/jmylchreest/doxa/internal/output"
	"github.com/jmylchreest/doxa/internal/version"
	"github.com/jmylchreest/doxa/pkg/article"
	"github.com/jmylchreest/doxa/pkg/llm"
	"github.com/jmylchreest/doxa/pkg/sentiment"
)

// UsageMessage is reported when the title or URL is missing.
const UsageMessage = "Usage: doxa <title> <url>"

// ErrUsage marks a missing positional argument.
var ErrUsage = errors.New("usage")

// newProvider is swapped out in tests.
var newProvider = llm.NewProvider

// Run executes the CLI and returns the process exit code. A usage error is
// written to stdout; every other failure is written to stderr. Both use the
// {"error": ...} record.
func Run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		_ = output.WriteError(stdout, UsageMessage)
	default:
		_ = output.WriteError(stderr, err.Error())
	}
	return 1
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "doxa <title> <url>",
		Short: "Political sentiment breakdown of a news story",
		Long: `Doxa asks a search-enabled language model how the political left,
center and right are reacting to a news story on X, and prints a JSON report
with a neutral summary, a score per group and example posts.

Examples:
  # Analyze a story with xAI (reads XAI_API_KEY)
  doxa "City council approves zoning plan" "https://example.com/news/zoning"

  # Use OpenAI's web search instead
  doxa -p openai "Rate cut announced" "https://example.com/rates"

  # YAML output with a five minute deadline
  doxa --format yaml --timeout 5m "Title" "https://example.com/a"

  # A title starting with "-" goes after the -- separator
  doxa -- "-5% drop in markets" "https://example.com/markets"`,
		Args:          cobra.ArbitraryArgs,
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return ErrUsage
			}
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, args[0], args[1], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(fmt.Sprintf("doxa %s\n", version.Full()))

	flags := cmd.Flags()

	// LLM settings
	flags.StringP("provider", "p", "xai", "LLM provider: xai, openai, anthropic")
	flags.StringP("model", "m", "", "model name (default depends on provider)")
	flags.StringP("api-key", "k", "", "API key (or use the provider's env var, e.g. XAI_API_KEY)")
	flags.String("base-url", "", "custom API base URL")
	flags.Int("max-turns", sentiment.DefaultMaxTurns, "max search iterations the model may run")
	flags.Int("max-tokens", 0, "max reply tokens (0 = provider default)")
	flags.String("search-tool", "", "server-side search tool (default depends on provider)")
	flags.Duration("timeout", 0, "overall deadline, e.g. 5m (0 = none)")
	flags.Bool("structured", false, "ask the model for a JSON reply instead of Markdown")

	// Output settings
	flags.String("format", "json", "output format: json, jsonl, yaml")

	// Article settings
	flags.Bool("fetch-article", false, "fetch the article's headline metadata and add it to the prompt")

	// Global
	flags.String("config", "", "config file (default $HOME/.doxa.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("verbose", "v", false, "enable info logging")
	flags.Bool("log-json", false, "write logs to stderr as JSON")

	for key, flag := range map[string]string{
		"provider":      "provider",
		"model":         "model",
		"api_key":       "api-key",
		"base_url":      "base-url",
		"max_turns":     "max-turns",
		"max_tokens":    "max-tokens",
		"search_tool":   "search-tool",
		"timeout":       "timeout",
		"structured":    "structured",
		"format":        "format",
		"fetch_article": "fetch-article",
		"debug":         "debug",
		"verbose":       "verbose",
		"log_json":      "log-json",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

func run(ctx context.Context, cfg *config.Config, title, url string, stdout, stderr io.Writer) error {
	logger.Init(logger.Options{
		Debug:   cfg.Debug,
		Verbose: cfg.Verbose,
		JSON:    cfg.LogJSON,
		Output:  stderr,
	})

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if cfg.Timeout > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, cfg.Timeout)
		defer stop()
	}

	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	provider, err := newProvider(cfg.Provider, llm.ProviderConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		return err
	}
	provider = llm.Observed(provider, llm.ObserverFunc(logCall))

	opts := []sentiment.AnalyzerOption{
		sentiment.WithSearchTool(cfg.SearchTool),
		sentiment.WithMaxTurns(cfg.MaxTurns),
		sentiment.WithMaxTokens(cfg.MaxTokens),
		sentiment.WithStructuredOutput(cfg.Structured),
	}
	if cfg.FetchArticle {
		opts = append(opts, sentiment.WithArticleFetcher(article.NewFetcher(article.DefaultConfig())))
	}

	logger.Info("starting analysis",
		"provider", provider.Name(),
		"model", provider.Model(),
		"title", title,
		"url", url)

	report, err := sentiment.NewAnalyzer(provider, opts...).Analyze(ctx, title, url)
	if err != nil {
		return err
	}

	w, err := output.NewWriter(stdout, format)
	if err != nil {
		return err
	}
	return w.Write(report)
}

// logCall reports every model call; failures are surfaced by Run, so they
// stay at info level to keep stderr a single error record by default.
func logCall(ctx context.Context, e llm.CallEvent) {
	if e.Error != nil {
		logger.InfoContext(ctx, "llm call failed",
			"provider", e.Provider,
			"model", e.Model,
			"duration", e.Duration.Round(time.Millisecond),
			"error", e.Error)
		return
	}
	logger.InfoContext(ctx, "llm call",
		"provider", e.Provider,
		"model", e.Model,
		"id", e.Response.ID,
		"finish_reason", e.Response.FinishReason,
		"search_tool", e.SearchTool,
		"max_turns", e.MaxTurns,
		"prompt", humanize.Bytes(uint64(e.PromptSize)),
		"reply", humanize.Bytes(uint64(len(e.Response.Content))),
		"input_tokens", e.Response.Usage.InputTokens,
		"output_tokens", e.Response.Usage.OutputTokens,
		"duration", e.Duration.Round(time.Millisecond))
}
