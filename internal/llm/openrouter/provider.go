package openrouter

import (
	"time"

	"github.com/Rrens/ai-debate/internal/config"
	"github.com/Rrens/ai-debate/internal/llm"
	"github.com/Rrens/ai-debate/internal/llm/openai"
)

// NewProvider creates a new OpenRouter provider. OpenRouter speaks the
// chat completions protocol and identifies callers through HTTP-Referer and X-Title.
func NewProvider(cfg config.OpenRouterConfig, timeout time.Duration) llm.Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "meta-llama/llama-3.1-8b-instruct"
	}

	headers := map[string]string{}
	if cfg.Referer != "" {
		headers["HTTP-Referer"] = cfg.Referer
	}
	if cfg.Title != "" {
		headers["X-Title"] = cfg.Title
	}

	return openai.NewCompatible(openai.Options{
		Name:         "openrouter",
		APIKey:       cfg.APIKey,
		DefaultModel: model,
		BaseURL:      baseURL,
		Headers:      headers,
		Timeout:      timeout,
		Models: []string{
			"meta-llama/llama-3.1-8b-instruct",
			"qwen/qwen-2.5-7b-instruct",
			"mistralai/mistral-7b-instruct",
			"google/gemma-2-9b-it",
		},
	})
}
