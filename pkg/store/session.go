package store

import "time"

// Intent is the classified task category for a user utterance.
type Intent string

const (
	IntentFlight Intent = "Flight"
	IntentHotel  Intent = "Hotel"
	IntentBoth   Intent = "Both"
	IntentOther  Intent = "Other"
)

// Stage is the orchestrator's current phase for a session.
type Stage string

const (
	StageIntentDetection Stage = "intent_detection"
	StageSlotExtraction  Stage = "slot_extraction"
	StageSearch          Stage = "search"
	StageComplete        Stage = "complete"
)

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// FlightSlots holds the parameters of a flight booking request. Zero
// values mean "not provided yet"; returnDate stays optional even for a
// complete request.
type FlightSlots struct {
	FromCity       string `json:"fromCity,omitempty"`
	ToCity         string `json:"toCity,omitempty"`
	DepartureDate  string `json:"departureDate,omitempty"`
	ReturnDate     string `json:"returnDate,omitempty"`
	PassengerCount int    `json:"passengerCount,omitempty" validate:"omitempty,min=1"`
}

// HotelSlots holds the parameters of a hotel booking request.
type HotelSlots struct {
	Location   string `json:"location,omitempty"`
	CheckIn    string `json:"checkIn,omitempty"`
	CheckOut   string `json:"checkOut,omitempty"`
	GuestCount int    `json:"guestCount,omitempty" validate:"omitempty,min=1"`
}

// CombinedSlots is the union of flight and hotel fields for the Both
// intent. Hotel fields are independent even when their values were
// copied from flight fields.
type CombinedSlots struct {
	FromCity       string `json:"fromCity,omitempty"`
	ToCity         string `json:"toCity,omitempty"`
	DepartureDate  string `json:"departureDate,omitempty"`
	ReturnDate     string `json:"returnDate,omitempty"`
	PassengerCount int    `json:"passengerCount,omitempty" validate:"omitempty,min=1"`
	Location       string `json:"location,omitempty"`
	CheckIn        string `json:"checkIn,omitempty"`
	CheckOut       string `json:"checkOut,omitempty"`
	GuestCount     int    `json:"guestCount,omitempty" validate:"omitempty,min=1"`
}

// Message is one entry of a session's conversation history.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the per-user conversation state. Only the slot object
// matching the current intent is populated; switching intent discards
// the previous intent's slots.
type Session struct {
	UserID        string         `json:"userId"`
	Stage         Stage          `json:"stage"`
	Intent        Intent         `json:"intent,omitempty"` // empty until classified
	FlightSlots   *FlightSlots   `json:"flightSlots,omitempty"`
	HotelSlots    *HotelSlots    `json:"hotelSlots,omitempty"`
	CombinedSlots *CombinedSlots `json:"combinedSlots,omitempty"`

	// Append-only, insertion order significant.
	History []Message `json:"conversationHistory"`
}

// SessionUpdate is a partial session: nil fields are left untouched,
// non-nil fields replace the stored value wholesale. Clearing fields is
// not expressible here on purpose; the only flow that clears state is
// the new-search reset, which the store exposes separately.
type SessionUpdate struct {
	Stage         *Stage
	Intent        *Intent
	FlightSlots   *FlightSlots
	HotelSlots    *HotelSlots
	CombinedSlots *CombinedSlots
}

// SlotBundle carries at most one populated slot object, matching the
// active intent. It is the unit exchanged with the entity extractor.
type SlotBundle struct {
	Flight   *FlightSlots
	Hotel    *HotelSlots
	Combined *CombinedSlots
}

// ActiveSlots returns the slot object for the session's current intent.
func (s *Session) ActiveSlots() SlotBundle {
	switch s.Intent {
	case IntentFlight:
		return SlotBundle{Flight: s.FlightSlots}
	case IntentHotel:
		return SlotBundle{Hotel: s.HotelSlots}
	case IntentBoth:
		return SlotBundle{Combined: s.CombinedSlots}
	default:
		return SlotBundle{}
	}
}

// FlightPart carves the flight fields out of a combined slot object.
func (c *CombinedSlots) FlightPart() FlightSlots {
	return FlightSlots{
		FromCity:       c.FromCity,
		ToCity:         c.ToCity,
		DepartureDate:  c.DepartureDate,
		ReturnDate:     c.ReturnDate,
		PassengerCount: c.PassengerCount,
	}
}

// HotelPart carves the hotel fields out of a combined slot object.
func (c *CombinedSlots) HotelPart() HotelSlots {
	return HotelSlots{
		Location:   c.Location,
		CheckIn:    c.CheckIn,
		CheckOut:   c.CheckOut,
		GuestCount: c.GuestCount,
	}
}

// Clone returns a deep copy so callers can hand sessions across
// goroutine boundaries without sharing the store's backing instance.
func (s *Session) Clone() *Session {
	out := *s
	if s.FlightSlots != nil {
		fs := *s.FlightSlots
		out.FlightSlots = &fs
	}
	if s.HotelSlots != nil {
		hs := *s.HotelSlots
		out.HotelSlots = &hs
	}
	if s.CombinedSlots != nil {
		cs := *s.CombinedSlots
		out.CombinedSlots = &cs
	}
	out.History = make([]Message, len(s.History))
	copy(out.History, s.History)
	return &out
}
