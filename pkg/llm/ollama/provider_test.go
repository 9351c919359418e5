package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/llm"
)

func TestChat(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(chatResponse{
			Model:   gotReq.Model,
			Message: apiMessage{Role: "assistant", Content: "Flight"},
			Done:    true,
		})
	}))
	defer server.Close()

	p := NewProvider(server.URL, "llama3")
	got, err := p.Chat(context.Background(), []llm.Message{
		{Role: "model", Content: "previous reply"},
		{Role: "user", Content: "book a flight"},
	}, llm.WithTemperature(0.0), llm.WithMaxTokens(64))
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if got != "Flight" {
		t.Errorf("Chat() = %q, want %q", got, "Flight")
	}

	if gotReq.Model != "llama3" {
		t.Errorf("request model = %q, want llama3", gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("request asked for streaming")
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "assistant" {
		t.Errorf("messages = %+v, want model role mapped to assistant", gotReq.Messages)
	}
	if gotReq.Options == nil || gotReq.Options.NumPredict != 64 {
		t.Errorf("options = %+v, want num_predict 64", gotReq.Options)
	}
}

func TestChatServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	p := NewProvider(server.URL, "llama3")
	if _, err := p.Generate(context.Background(), "hello"); err == nil {
		t.Fatal("Generate() succeeded on a 404 response")
	}
}
