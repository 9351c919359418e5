package dialog

import (
	"context"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog/search"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/store"
)

// ResponseType tags a turn's outcome. Every response is exactly one of
// these four shapes; the transport layer switches on it.
type ResponseType string

const (
	ResponseMessage       ResponseType = "message"
	ResponseFollowUp      ResponseType = "follow_up"
	ResponseSearchResults ResponseType = "search_results"
	ResponseError         ResponseType = "error"
)

// Response is the typed result of processing one utterance.
type Response struct {
	Type             ResponseType `json:"type"`
	Content          string       `json:"content"`
	Data             interface{}  `json:"data,omitempty"`
	RequiresFollowUp bool         `json:"requiresFollowUp"`
	FollowUpQuestion string       `json:"followUpQuestion,omitempty"`
}

// IntentClassifier labels an utterance. Implementations must map their
// internal failures to IntentOther instead of returning an error.
type IntentClassifier interface {
	Classify(ctx context.Context, message string) store.Intent
}

// EntityExtractor pulls slot values out of an utterance, merging them
// over the slots collected so far. On failure it returns the existing
// slots unchanged.
type EntityExtractor interface {
	Extract(ctx context.Context, message string, intent store.Intent, existing store.SlotBundle) store.SlotBundle
}

// SearchAgent fulfills a completed slot set. Both methods may fail on
// transient backend errors.
type SearchAgent interface {
	SearchFlights(ctx context.Context, slots store.FlightSlots) ([]search.FlightResult, error)
	SearchHotels(ctx context.Context, slots store.HotelSlots) ([]search.HotelResult, error)
}

// FallbackAgent answers out-of-domain utterances.
type FallbackAgent interface {
	Handle(message string) string
}

// SessionStore is the slice of the session repository the orchestrator
// needs.
type SessionStore interface {
	GetOrCreate(userID string) *store.Session
	Update(userID string, patch store.SessionUpdate) (*store.Session, error)
	AppendMessage(userID, role, content string)
	Reset(userID string) *store.Session
}
