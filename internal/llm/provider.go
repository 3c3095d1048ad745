package llm

import "context"

// Request contains the parameters of one text generation call
type Request struct {
	Provider    string
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response contains LLM generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Generate produces text for a single prompt
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Invoker is the single capability the debate core needs:
// call a model with a prompt and get text or a failure back
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Response, error)
}
