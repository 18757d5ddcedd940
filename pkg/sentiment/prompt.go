package sentiment

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/doxa/pkg/article"
)

// DefaultSearchTool is the tool the prompts tell the model to use.
const DefaultSearchTool = "x_search"

const systemTemplate = "You are a helpful assistant. Always use the %s tool to fetch real tweets from X instead of generating them. Provide sources and avoid fabrication."

// responseLayout pins the headings and labels Extract looks for.
const responseLayout = `Format your answer in Markdown using exactly this layout:

### Non-Biased Review
<three sentences>

### Left
**Score:** <number from -1 to 1>
<2-3 sentences>
**Example Tweets:**
1. **Account:** <account name>
   **Tweet Text:** <tweet text>
   **Link:** <https link to the tweet>

Repeat the same block for ### Center and ### Right.`

const structuredLayout = `Respond with ONLY a JSON object, no prose and no code fences, shaped like:
{"nonBiasedSummary": "...",
 "left":   {"sentiment": 0.0, "summary": "...", "tweets": [{"account": "...", "text": "...", "url": "https://..."}]},
 "center": {...},
 "right":  {...}}`

// PromptOption adjusts the prompt.
type PromptOption func(*promptConfig)

type promptConfig struct {
	article    *article.Article
	structured bool
	searchTool string
}

// WithSearchToolName names the search tool the model is told to use.
func WithSearchToolName(name string) PromptOption {
	return func(c *promptConfig) {
		if name != "" {
			c.searchTool = name
		}
	}
}

// WithArticleContext appends fetched article metadata to the prompt.
func WithArticleContext(a *article.Article) PromptOption {
	return func(c *promptConfig) {
		c.article = a
	}
}

// WithStructuredReply asks for a JSON object instead of Markdown.
func WithStructuredReply() PromptOption {
	return func(c *promptConfig) {
		c.structured = true
	}
}

// BuildPrompts returns the system instruction and the user prompt. title and
// url are interpolated verbatim, without escaping.
func BuildPrompts(title, url string, opts ...PromptOption) (system, user string) {
	cfg := &promptConfig{searchTool: DefaultSearchTool}
	for _, opt := range opts {
		opt(cfg)
	}

	var prompt strings.Builder

	fmt.Fprintf(&prompt, "Analyze the sentiment from the political left, right, and center for the following recent news topic: %s. Base it on this article if provided: %s\n\n", title, url)
	prompt.WriteString("Focus on analysis from the past 30 days only. Provide a 3-sentence non-biased review of the topic.\n\n")
	prompt.WriteString("Then, break it down into left, center, and right: a score from -1 (negative) to 1 (positive), 2-3 sentences on how the group feels about the topic, and three example tweets for each left, right, and center to back up the analysis, including the account name, tweet text, and link to each tweet.\n\n")
	fmt.Fprintf(&prompt, "Use %s to find REAL tweets from X/Twitter. Do not fabricate or invent examples.", cfg.searchTool)

	if a := cfg.article; a != nil && !a.Empty() {
		prompt.WriteString("\n\n## Article context\n")
		if a.Title != "" {
			fmt.Fprintf(&prompt, "Headline: %s\n", a.Title)
		}
		if a.SiteName != "" {
			fmt.Fprintf(&prompt, "Publisher: %s\n", a.SiteName)
		}
		if a.Description != "" {
			fmt.Fprintf(&prompt, "Description: %s\n", a.Description)
		}
	}

	prompt.WriteString("\n\n")
	if cfg.structured {
		prompt.WriteString(structuredLayout)
	} else {
		prompt.WriteString(responseLayout)
	}

	return fmt.Sprintf(systemTemplate, cfg.searchTool), prompt.String()
}
