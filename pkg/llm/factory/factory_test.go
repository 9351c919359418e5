package factory

import (
	"testing"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/llm/gemini"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/llm/ollama"
)

func TestNewProvider(t *testing.T) {
	t.Run("ollama with default base URL", func(t *testing.T) {
		p, err := NewProvider("ollama", "llama3", "", "")
		if err != nil {
			t.Fatalf("NewProvider() error = %v", err)
		}
		op, ok := p.(*ollama.Provider)
		if !ok {
			t.Fatalf("provider type = %T, want *ollama.Provider", p)
		}
		if op.BaseURL != "http://localhost:11434" {
			t.Errorf("BaseURL = %q, want default", op.BaseURL)
		}
	})

	t.Run("gemini requires a key", func(t *testing.T) {
		if _, err := NewProvider("gemini", "gemini-pro", "", ""); err == nil {
			t.Fatal("NewProvider() succeeded without an API key")
		}

		p, err := NewProvider("gemini", "gemini-pro", "", "test-key")
		if err != nil {
			t.Fatalf("NewProvider() error = %v", err)
		}
		if _, ok := p.(*gemini.Provider); !ok {
			t.Errorf("provider type = %T, want *gemini.Provider", p)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		if _, err := NewProvider("anthropic", "x", "", ""); err == nil {
			t.Fatal("NewProvider() accepted an unknown provider type")
		}
	})
}
