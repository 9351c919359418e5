package intent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/llm"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/store"
)

const promptTemplate = `You are an intent classifier for a travel booking system. Classify the user's message into one of these categories:
- "Flight" - User wants to book flights only
- "Hotel" - User wants to book hotels only
- "Both" - User wants to book both flights and hotels
- "Other" - User's message is not related to travel booking

User message: "%s"

Respond with only one word: Flight, Hotel, Both, or Other.`

// Classifier turns a raw utterance into one of the four intents. It
// never returns an error: any model failure or unparseable label maps
// to IntentOther so a bad turn cannot poison the session.
type Classifier struct {
	provider llm.Provider
	logger   *log.Logger
}

func NewClassifier(provider llm.Provider, logger *log.Logger) *Classifier {
	return &Classifier{
		provider: provider,
		logger:   logger,
	}
}

// Classify resolves the intent for a single utterance.
// Temperature 0 keeps the label deterministic.
func (c *Classifier) Classify(ctx context.Context, message string) store.Intent {
	prompt := fmt.Sprintf(promptTemplate, message)

	response, err := c.provider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[ERROR] Intent classification failed: %v", err)
		return store.IntentOther
	}

	intent, ok := parseIntent(response)
	if !ok {
		c.logger.Printf("[WARN] Invalid intent classification, defaulting to Other: %q", response)
		return store.IntentOther
	}

	return intent
}

// parseIntent normalizes the model output and matches it against the
// closed intent set. Anything that doesn't match is rejected.
func parseIntent(response string) (store.Intent, bool) {
	label := strings.TrimSpace(response)
	label = strings.Trim(label, "\"'.`")

	switch {
	case strings.EqualFold(label, string(store.IntentFlight)):
		return store.IntentFlight, true
	case strings.EqualFold(label, string(store.IntentHotel)):
		return store.IntentHotel, true
	case strings.EqualFold(label, string(store.IntentBoth)):
		return store.IntentBoth, true
	case strings.EqualFold(label, string(store.IntentOther)):
		return store.IntentOther, true
	default:
		return store.IntentOther, false
	}
}
