package genai

import "fmt"

// SelectConfig holds parameters for provider selection.
type SelectConfig struct {
	Provider    string // "gemini" or "openai"
	APIKey      string
	GeminiURL   string
	GeminiModel string
	OpenAIModel string
}

// Select returns the Engine for the configured provider.
func Select(cfg SelectConfig) (Engine, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGemini(cfg.GeminiURL, cfg.GeminiModel, cfg.APIKey), nil
	case "openai":
		return NewOpenAI(cfg.APIKey, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q (expected gemini or openai)", cfg.Provider)
	}
}
