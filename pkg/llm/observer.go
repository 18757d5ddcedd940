package llm

import (
	"context"
	"time"
)

// Observer is notified after every provider call, successful or not.
type Observer interface {
	OnCall(ctx context.Context, event CallEvent)
}

// CallEvent describes one provider call.
type CallEvent struct {
	Provider   string
	Model      string
	SearchTool string
	MaxTurns   int
	PromptSize int

	// Response is nil when the call failed.
	Response *Response
	Error    error

	StartedAt time.Time
	Duration  time.Duration
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, event CallEvent)

// OnCall implements Observer.
func (f ObserverFunc) OnCall(ctx context.Context, event CallEvent) {
	f(ctx, event)
}

// Observed wraps p so that obs sees every Execute call.
func Observed(p Provider, obs Observer) Provider {
	if obs == nil {
		return p
	}
	return &observedProvider{Provider: p, obs: obs}
}

type observedProvider struct {
	Provider
	obs Observer
}

func (o *observedProvider) Execute(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := o.Provider.Execute(ctx, req)

	var size int
	for _, m := range req.Messages {
		size += len(m.Content)
	}

	o.obs.OnCall(ctx, CallEvent{
		Provider:   o.Name(),
		Model:      o.Model(),
		SearchTool: req.SearchTool,
		MaxTurns:   req.MaxTurns,
		PromptSize: size,
		Response:   resp,
		Error:      err,
		StartedAt:  start,
		Duration:   time.Since(start),
	})
	return resp, err
}
