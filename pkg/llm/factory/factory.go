package factory

import (
	"fmt"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/llm"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/llm/gemini"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/llm/ollama"
)

func NewProvider(providerType, modelName, baseURL, geminiKey string) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewProvider(baseURL, modelName), nil
	case "gemini":
		if geminiKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_GEMINI_API_KEY")
		}
		return gemini.NewProvider(geminiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
