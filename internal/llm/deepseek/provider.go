package deepseek

import (
	"github.com/Rrens/ai-debate/internal/llm"
	"github.com/Rrens/ai-debate/internal/llm/openai"
)

// NewProvider creates a new DeepSeek provider
func NewProvider(apiKey, defaultModel string) llm.Provider {
	if defaultModel == "" {
		defaultModel = "deepseek-chat"
	}
	return openai.NewCompatible(openai.Options{
		Name:         "deepseek",
		APIKey:       apiKey,
		DefaultModel: defaultModel,
		BaseURL:      "https://api.deepseek.com/v1",
		Models: []string{
			"deepseek-chat",
			"deepseek-reasoner",
		},
	})
}
