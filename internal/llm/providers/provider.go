// File path: internal/llm/providers/provider.go
package providers

import (
	"context"
	"errors"
)

// ErrUnavailable reports a call against a provider that was constructed
// without credentials. Callers treat it as the signal to take their local
// fallback path.
var ErrUnavailable = errors.New("llm provider not configured")

// Provider is the boundary to the generative collaborators. Availability is
// decided once at construction; it never flips at call time.
type Provider interface {
	// AnalyzeImage sends a prompt plus an inline image and returns the raw
	// model text.
	AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
	// Generate sends a text-only prompt and returns the raw model text.
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
	Available() bool
}

// Unconfigured is the no-credential variant of the capability. Every call
// errors immediately with ErrUnavailable.
type Unconfigured struct{}

func NewUnconfigured() *Unconfigured {
	return &Unconfigured{}
}

func (u *Unconfigured) AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	return "", ErrUnavailable
}

func (u *Unconfigured) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrUnavailable
}

func (u *Unconfigured) Name() string { return "unconfigured" }

func (u *Unconfigured) Available() bool { return false }
