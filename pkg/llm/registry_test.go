package llm

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type stubProvider struct {
	content string
	err     error
}

func (s *stubProvider) Execute(ctx context.Context, req Request) (*Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &Response{Content: s.content}, nil
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-1" }

func TestAvailableProviders_Sorted(t *testing.T) {
	got := AvailableProviders()
	want := []string{"anthropic", "openai", "xai"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableProviders() = %v, want %v", got, want)
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider("grokipedia", ProviderConfig{APIKey: "x"})
	if err == nil || !strings.Contains(err.Error(), "unknown provider") {
		t.Fatalf("expected unknown provider error, got %v", err)
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	for _, name := range AvailableProviders() {
		t.Run(name, func(t *testing.T) {
			_, err := NewProvider(name, ProviderConfig{})
			if !errors.Is(err, ErrMissingAPIKey) {
				t.Errorf("expected ErrMissingAPIKey, got %v", err)
			}
		})
	}
}

func TestNewProvider_Known(t *testing.T) {
	tests := []struct {
		name  string
		model string
	}{
		{"xai", "grok-4"},
		{"openai", "gpt-4o"},
		{"anthropic", "claude-sonnet-4-20250514"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.name, ProviderConfig{APIKey: "k"})
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			if p.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.name)
			}
			if p.Model() != tt.model {
				t.Errorf("Model() = %q, want %q", p.Model(), tt.model)
			}
		})
	}
}

func TestNewProvider_ModelOverride(t *testing.T) {
	p, err := NewProvider("xai", ProviderConfig{APIKey: "k", Model: "grok-4-fast"})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Model() != "grok-4-fast" {
		t.Errorf("Model() = %q, want grok-4-fast", p.Model())
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"xai":       "XAI_API_KEY",
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
		"mistral":   "MISTRAL_API_KEY",
	}
	for provider, want := range tests {
		if got := EnvKey(provider); got != want {
			t.Errorf("EnvKey(%q) = %q, want %q", provider, got, want)
		}
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("XAI_API_KEY", "from-env")
	if got := APIKeyFromEnv("xai"); got != "from-env" {
		t.Errorf("APIKeyFromEnv() = %q, want from-env", got)
	}
}

func TestGetDefaultSearchTool(t *testing.T) {
	if got := GetDefaultSearchTool("xai"); got != "x_search" {
		t.Errorf("GetDefaultSearchTool(xai) = %q", got)
	}
	if got := GetDefaultSearchTool("nope"); got != "" {
		t.Errorf("GetDefaultSearchTool(nope) = %q, want empty", got)
	}
}

func TestRegisterProvider_Custom(t *testing.T) {
	RegisterProvider("stub", func(cfg ProviderConfig) (Provider, error) {
		return &stubProvider{content: "ok"}, nil
	})
	defer delete(registry, "stub")

	if !IsRegistered("stub") {
		t.Fatal("stub should be registered")
	}
	p, err := NewProvider("stub", ProviderConfig{})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Name() != "stub" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestObserved_ReportsSuccessAndFailure(t *testing.T) {
	var events []CallEvent
	obs := ObserverFunc(func(ctx context.Context, e CallEvent) {
		events = append(events, e)
	})

	ok := Observed(&stubProvider{content: "done"}, obs)
	if _, err := ok.Execute(context.Background(), Request{
		Messages:   []Message{{Role: RoleUser, Content: "12345"}},
		SearchTool: "x_search",
		MaxTurns:   10,
	}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	boom := errors.New("boom")
	failing := Observed(&stubProvider{err: boom}, obs)
	if _, err := failing.Execute(context.Background(), Request{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	first := events[0]
	if first.Provider != "stub" || first.Model != "stub-1" || first.SearchTool != "x_search" ||
		first.MaxTurns != 10 || first.PromptSize != 5 || first.Response == nil {
		t.Errorf("unexpected success event: %+v", first)
	}
	if events[1].Error == nil || events[1].Response != nil {
		t.Errorf("unexpected failure event: %+v", events[1])
	}
}

func TestObserved_NilObserver(t *testing.T) {
	p := &stubProvider{}
	if got := Observed(p, nil); got != Provider(p) {
		t.Error("Observed(p, nil) should return p unchanged")
	}
}

func TestSplitMessages(t *testing.T) {
	system, prompt := splitMessages([]Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "one"},
		{Role: RoleUser, Content: "two"},
	})
	if system != "sys" {
		t.Errorf("system = %q", system)
	}
	if prompt != "one\n\ntwo" {
		t.Errorf("prompt = %q", prompt)
	}
}
