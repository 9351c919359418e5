package fallback

import (
	"strings"
	"testing"
)

func TestHandleContextualReplies(t *testing.T) {
	agent := NewAgent()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "greeting",
			message: "Hello there",
			want:    "Hello! I'm your travel booking assistant. I can help you find flights, hotels, or plan complete trips. What are you looking to book today?",
		},
		{
			name:    "thanks",
			message: "Thanks a lot!",
			want:    "You're welcome! Is there anything else I can help you with for your travel plans?",
		},
		{
			name:    "goodbye",
			message: "ok goodbye",
			want:    "Goodbye! Feel free to come back anytime you need help with travel bookings. Have a great day!",
		},
		{
			name:    "see you",
			message: "See you later",
			want:    "Goodbye! Feel free to come back anytime you need help with travel bookings. Have a great day!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agent.Handle(tt.message); got != tt.want {
				t.Errorf("Handle(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestHandleHelp(t *testing.T) {
	agent := NewAgent()

	for _, message := range []string{"help", "What can you do?"} {
		got := agent.Handle(message)
		if !strings.Contains(got, "**Flight Bookings**") || !strings.Contains(got, "**Hotel Reservations**") {
			t.Errorf("Handle(%q) missing suggestion sections:\n%s", message, got)
		}
		if !strings.Contains(got, "What would you like to book today?") {
			t.Errorf("Handle(%q) missing closing prompt", message)
		}
	}
}

func TestHandleDefaultRotation(t *testing.T) {
	agent := NewAgent()

	known := make(map[string]bool, len(fallbackResponses))
	for _, r := range fallbackResponses {
		known[r] = true
	}

	for i := 0; i < 50; i++ {
		got := agent.Handle("what's the weather like today?")
		if !known[got] {
			t.Fatalf("Handle() returned a string outside the rotation: %q", got)
		}
	}
}
