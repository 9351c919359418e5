package fallback

import (
	"math/rand"
	"strings"
)

var fallbackResponses = []string{
	"I'm sorry, but I can only help you with flight and hotel bookings. Could you please ask me about travel-related queries?",
	"I specialize in helping you find flights and hotels. Is there anything travel-related I can assist you with?",
	"I'm a travel booking assistant. I can help you search for flights, hotels, or plan complete trips. What would you like to book?",
	"Sorry, I can't answer that. I'm here to help you with travel planning - flights, hotels, and vacation packages. How can I help with your travel needs?",
	"I'm designed to help with travel bookings only. Would you like to search for flights or hotels instead?",
}

const suggestions = `Here are some things I can help you with:

**Flight Bookings**
- "Find flights from New York to Los Angeles"
- "I need a round trip to Paris next month"

**Hotel Reservations**
- "Book a hotel in Tokyo for 3 nights"
- "Find accommodation in London for my business trip"

**Complete Trip Planning**
- "Plan a vacation to Miami with flights and hotel"
- "I need travel arrangements for a week in Barcelona"

What would you like to book today?`

// Agent answers utterances that carry no travel intent. Greetings,
// thanks, help requests and goodbyes get a contextual reply; everything
// else gets one of the rotating redirect messages.
type Agent struct{}

func NewAgent() *Agent {
	return &Agent{}
}

// Handle always succeeds with a display string.
func (a *Agent) Handle(message string) string {
	lower := strings.ToLower(message)

	if strings.Contains(lower, "hello") || strings.Contains(lower, "hi") || strings.Contains(lower, "hey") {
		return "Hello! I'm your travel booking assistant. I can help you find flights, hotels, or plan complete trips. What are you looking to book today?"
	}

	if strings.Contains(lower, "thank") {
		return "You're welcome! Is there anything else I can help you with for your travel plans?"
	}

	if strings.Contains(lower, "help") || strings.Contains(lower, "what can you do") {
		return suggestions
	}

	if strings.Contains(lower, "bye") || strings.Contains(lower, "goodbye") || strings.Contains(lower, "see you") {
		return "Goodbye! Feel free to come back anytime you need help with travel bookings. Have a great day!"
	}

	return fallbackResponses[rand.Intn(len(fallbackResponses))]
}
