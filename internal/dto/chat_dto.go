package dto

import (
	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/store"
)

type ChatRequest struct {
	UserId  string `json:"userId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ChatStreamEvent is one SSE frame of the chat endpoint. The stream is
// always status, then response, then complete.
type ChatStreamEvent struct {
	Type     string           `json:"type"` // "status" | "response" | "complete"
	Message  string           `json:"message,omitempty"`
	Response *dialog.Response `json:"response,omitempty"`
}

type SessionInfoResponse struct {
	UserId        string               `json:"userId"`
	Stage         store.Stage          `json:"stage"`
	Intent        store.Intent         `json:"intent,omitempty"`
	FlightSlots   *store.FlightSlots   `json:"flightSlots,omitempty"`
	HotelSlots    *store.HotelSlots    `json:"hotelSlots,omitempty"`
	CombinedSlots *store.CombinedSlots `json:"combinedSlots,omitempty"`
	History       []store.Message      `json:"conversationHistory"`
}

// TurnProcessedMessage is the payload published on the in-process bus
// after every turn. The consumer keeps the health counters from it.
type TurnProcessedMessage struct {
	UserId       string `json:"userId"`
	ResponseType string `json:"responseType"`
}

type HealthResponse struct {
	Status         string           `json:"status"`
	ActiveSessions int              `json:"activeSessions"`
	TurnCounts     map[string]int64 `json:"turnCounts"`
}
