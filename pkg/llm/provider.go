// Package llm provides a unified interface over hosted chat models that can
// run a server-side search tool before answering.
package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrMissingAPIKey is returned by provider constructors when no credential
// was configured.
var ErrMissingAPIKey = errors.New("API key required")

// Role represents the role of a message sender.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message represents a chat message.
type Message struct {
	Role    Role
	Content string
}

// Request represents a single completion request.
type Request struct {
	Messages []Message

	// SearchTool names the server-side search capability to enable
	// (e.g. "x_search"). Empty disables tool use.
	SearchTool string

	// MaxTurns caps the number of internal tool-use iterations the service
	// may run. 0 leaves the service default.
	MaxTurns int

	// MaxTokens caps the reply length. 0 uses the provider default.
	MaxTokens int
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response is the final assistant text plus call metadata.
type Response struct {
	Content      string
	FinishReason string
	Model        string
	ID           string
	Usage        Usage
	Duration     time.Duration
}

// Provider is implemented by every model backend.
type Provider interface {
	// Execute sends req and returns the final response text. Transport,
	// authentication and service errors are returned as-is (wrapped); no
	// retries are attempted.
	Execute(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider identifier (e.g. "xai").
	Name() string

	// Model returns the configured model name.
	Model() string
}

// ProviderConfig holds common configuration for providers.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// MaxRetries is handed to the SDK. The zero value disables SDK retries.
	MaxRetries int
}

// splitMessages separates the system instruction from the conversation and
// joins the user turns into one prompt.
func splitMessages(msgs []Message) (system string, prompt string) {
	var sys, user []string
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			sys = append(sys, m.Content)
		case RoleUser:
			user = append(user, m.Content)
		}
	}
	return strings.Join(sys, "\n\n"), strings.Join(user, "\n\n")
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
