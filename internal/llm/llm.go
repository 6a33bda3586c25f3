package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts text-completion providers.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt is a system instruction plus the user message sent to the model.
type Prompt struct {
	System string
	User   string
}

// Kind classifies an upstream failure.
type Kind string

const (
	KindNetwork   Kind = "network"
	KindTimeout   Kind = "timeout"
	KindStatus    Kind = "status"
	KindMalformed Kind = "malformed"

	// KindNotConfigured marks calls made while no provider is available.
	KindNotConfigured Kind = "not_configured"
)

// UpstreamError reports a failed completion call. Err carries the cause and is
// meant for server-side logs only.
type UpstreamError struct {
	Provider   string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s upstream %s (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s upstream %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstream reports whether err is, or wraps, an *UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// KindOf returns the upstream kind of err, or "" when err is not an upstream error.
func KindOf(err error) Kind {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ""
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient fails every call. It stands in when no provider could be built.
type PlaceholderClient struct{}

// Complete returns an UpstreamError wrapping ErrNotConfigured.
func (PlaceholderClient) Complete(context.Context, Prompt) (string, error) {
	return "", &UpstreamError{Provider: "none", Kind: KindNotConfigured, Err: ErrNotConfigured}
}
