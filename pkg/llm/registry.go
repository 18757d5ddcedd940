package llm

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ProviderFactory creates providers from config.
type ProviderFactory func(cfg ProviderConfig) (Provider, error)

// DefaultModels maps provider names to their default models.
var DefaultModels = map[string]string{
	"xai":       "grok-4",
	"openai":    "gpt-4o",
	"anthropic": "claude-sonnet-4-20250514",
}

// DefaultSearchTools maps provider names to the server-side search tool
// enabled by default.
var DefaultSearchTools = map[string]string{
	"xai":       "x_search",
	"openai":    "web_search_preview",
	"anthropic": "web_search",
}

var providerEnvKeys = map[string]string{
	"xai":       "XAI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

var registry = map[string]ProviderFactory{}

func init() {
	RegisterProvider("xai", func(cfg ProviderConfig) (Provider, error) {
		return NewXAIProvider(cfg)
	})
	RegisterProvider("openai", func(cfg ProviderConfig) (Provider, error) {
		return NewOpenAIProvider(cfg)
	})
	RegisterProvider("anthropic", func(cfg ProviderConfig) (Provider, error) {
		return NewAnthropicProvider(cfg)
	})
}

// NewProvider creates a provider by name.
func NewProvider(name string, cfg ProviderConfig) (Provider, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s (available: %s)", name, strings.Join(AvailableProviders(), ", "))
	}
	return factory(cfg)
}

// RegisterProvider adds a provider factory.
func RegisterProvider(name string, factory ProviderFactory) {
	registry[name] = factory
}

// AvailableProviders returns the registered provider names, sorted.
func AvailableProviders() []string {
	providers := make([]string, 0, len(registry))
	for name := range registry {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	return providers
}

// IsRegistered returns true if a provider is registered.
func IsRegistered(name string) bool {
	_, ok := registry[name]
	return ok
}

// GetDefaultModel returns the default model for a provider.
func GetDefaultModel(provider string) string {
	return DefaultModels[provider]
}

// GetDefaultSearchTool returns the default search tool for a provider.
func GetDefaultSearchTool(provider string) string {
	return DefaultSearchTools[provider]
}

// EnvKey returns the environment variable holding the provider's API key.
func EnvKey(provider string) string {
	if key, ok := providerEnvKeys[provider]; ok {
		return key
	}
	return strings.ToUpper(provider) + "_API_KEY"
}

// APIKeyFromEnv reads the provider's API key from the environment.
func APIKeyFromEnv(provider string) string {
	return os.Getenv(EnvKey(provider))
}
