package dialog

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/anup4khandelwal/travel-planner-agent/internal/repository/memory"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog/search"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/store"
)

type classifyFunc func(ctx context.Context, message string) store.Intent

func (f classifyFunc) Classify(ctx context.Context, message string) store.Intent {
	return f(ctx, message)
}

type extractFunc func(ctx context.Context, message string, intent store.Intent, existing store.SlotBundle) store.SlotBundle

func (f extractFunc) Extract(ctx context.Context, message string, intent store.Intent, existing store.SlotBundle) store.SlotBundle {
	return f(ctx, message, intent, existing)
}

type handleFunc func(message string) string

func (f handleFunc) Handle(message string) string { return f(message) }

type stubSearch struct {
	flights   []search.FlightResult
	hotels    []search.HotelResult
	flightErr error
	hotelErr  error
}

func (s *stubSearch) SearchFlights(ctx context.Context, slots store.FlightSlots) ([]search.FlightResult, error) {
	return s.flights, s.flightErr
}

func (s *stubSearch) SearchHotels(ctx context.Context, slots store.HotelSlots) ([]search.HotelResult, error) {
	return s.hotels, s.hotelErr
}

// keywordClassifier labels by keyword so multi-turn tests don't need a
// scripted call sequence.
func keywordClassifier() classifyFunc {
	return func(ctx context.Context, message string) store.Intent {
		lower := strings.ToLower(message)
		switch {
		case strings.Contains(lower, "trip"):
			return store.IntentBoth
		case strings.Contains(lower, "hotel"):
			return store.IntentHotel
		case strings.Contains(lower, "fly") || strings.Contains(lower, "flight"):
			return store.IntentFlight
		default:
			return store.IntentOther
		}
	}
}

// keywordExtractor merges canned slot values keyed on message content,
// imitating the progressive merge contract.
func keywordExtractor() extractFunc {
	return func(ctx context.Context, message string, intent store.Intent, existing store.SlotBundle) store.SlotBundle {
		lower := strings.ToLower(message)

		switch intent {
		case store.IntentFlight:
			fs := store.FlightSlots{}
			if existing.Flight != nil {
				fs = *existing.Flight
			}
			if strings.Contains(lower, "new york") {
				fs.FromCity = "New York"
				fs.ToCity = "Los Angeles"
				fs.PassengerCount = 1
			}
			if strings.Contains(lower, "december") {
				fs.DepartureDate = "2025-12-25"
			}
			return store.SlotBundle{Flight: &fs}

		case store.IntentHotel:
			return store.SlotBundle{Hotel: &store.HotelSlots{
				Location:   "Tokyo",
				CheckIn:    "2025-01-10",
				CheckOut:   "2025-01-14",
				GuestCount: 2,
			}}

		case store.IntentBoth:
			return store.SlotBundle{Combined: &store.CombinedSlots{
				FromCity:       "London",
				ToCity:         "Paris",
				DepartureDate:  "2025-03-01",
				PassengerCount: 2,
				Location:       "Paris",
				CheckIn:        "2025-03-01",
				CheckOut:       "2025-03-08",
				GuestCount:     2,
			}}

		default:
			return store.SlotBundle{}
		}
	}
}

func newTestManager(t *testing.T, agent SearchAgent) (*Manager, *memory.SessionRepository) {
	t.Helper()

	sessions := memory.NewSessionRepository(0)
	fallback := handleFunc(func(message string) string {
		return "I can only help with travel bookings."
	})

	m := NewManager(
		sessions,
		keywordClassifier(),
		keywordExtractor(),
		agent,
		fallback,
		0,
		log.New(io.Discard, "", 0),
	)
	return m, sessions
}

func cannedFlights() []search.FlightResult {
	return []search.FlightResult{
		{Airline: "Delta", FlightNumber: "DE1234", From: "New York", To: "Los Angeles", Price: 320, Currency: "USD"},
		{Airline: "United", FlightNumber: "UN5678", From: "New York", To: "Los Angeles", Price: 410, Currency: "USD"},
	}
}

func cannedHotels() []search.HotelResult {
	return []search.HotelResult{
		{Name: "Grand Plaza Hotel", Location: "Tokyo", Rating: 4, PricePerNight: 210, Currency: "USD", Amenities: []string{"Free WiFi"}},
	}
}

func TestFlightFollowUpThenSearch(t *testing.T) {
	m, sessions := newTestManager(t, &stubSearch{flights: cannedFlights()})
	ctx := context.Background()

	// Turn 1: origin and destination only; departure date is missing.
	resp := m.ProcessMessage(ctx, "user-1", "I want to fly from New York to Los Angeles")

	if resp.Type != ResponseFollowUp {
		t.Fatalf("turn 1 Type = %q, want %q", resp.Type, ResponseFollowUp)
	}
	if resp.Content != "When would you like to depart?" {
		t.Errorf("turn 1 Content = %q", resp.Content)
	}
	if !resp.RequiresFollowUp || resp.FollowUpQuestion != resp.Content {
		t.Errorf("follow-up flags not set: %+v", resp)
	}

	session := sessions.GetOrCreate("user-1")
	if session.Stage != store.StageSlotExtraction {
		t.Errorf("Stage = %q, want %q", session.Stage, store.StageSlotExtraction)
	}
	if session.Intent != store.IntentFlight {
		t.Errorf("Intent = %q, want %q", session.Intent, store.IntentFlight)
	}
	last := session.History[len(session.History)-1]
	if last.Role != store.MessageRoleAssistant || last.Content != resp.Content {
		t.Errorf("follow-up question not recorded in history: %+v", last)
	}

	// Turn 2: the missing date arrives, search fires.
	resp = m.ProcessMessage(ctx, "user-1", "I want to leave on December 25th")

	if resp.Type != ResponseSearchResults {
		t.Fatalf("turn 2 Type = %q, want %q", resp.Type, ResponseSearchResults)
	}
	if !strings.HasPrefix(resp.Content, "Found 2 flights:") {
		t.Errorf("turn 2 Content = %q", resp.Content)
	}
	flights, ok := resp.Data.([]search.FlightResult)
	if !ok || len(flights) != 2 {
		t.Errorf("turn 2 Data = %T %v, want the flight results", resp.Data, resp.Data)
	}

	session = sessions.GetOrCreate("user-1")
	if session.Stage != store.StageSearch {
		t.Errorf("Stage = %q, want %q", session.Stage, store.StageSearch)
	}
	if session.FlightSlots == nil || session.FlightSlots.DepartureDate != "2025-12-25" {
		t.Errorf("FlightSlots = %+v, want merged slots kept", session.FlightSlots)
	}
	last = session.History[len(session.History)-1]
	if last.Role != store.MessageRoleAssistant || last.Content != resp.Content {
		t.Errorf("search results not recorded in history: %+v", last)
	}
}

func TestHotelSingleTurn(t *testing.T) {
	m, sessions := newTestManager(t, &stubSearch{hotels: cannedHotels()})

	resp := m.ProcessMessage(context.Background(), "user-1", "Book a hotel in Tokyo for 2 guests")

	if resp.Type != ResponseSearchResults {
		t.Fatalf("Type = %q, want %q", resp.Type, ResponseSearchResults)
	}
	if !strings.HasPrefix(resp.Content, "Found 1 hotels in Tokyo:") {
		t.Errorf("Content = %q", resp.Content)
	}
	if _, ok := resp.Data.([]search.HotelResult); !ok {
		t.Errorf("Data = %T, want hotel results", resp.Data)
	}
	if sessions.GetOrCreate("user-1").Stage != store.StageSearch {
		t.Error("session did not reach the search stage")
	}
}

func TestCombinedSearch(t *testing.T) {
	m, _ := newTestManager(t, &stubSearch{flights: cannedFlights(), hotels: cannedHotels()})

	resp := m.ProcessMessage(context.Background(), "user-1", "Plan a trip to Paris from London")

	if resp.Type != ResponseSearchResults {
		t.Fatalf("Type = %q, want %q", resp.Type, ResponseSearchResults)
	}
	if !strings.Contains(resp.Content, "Found 2 flights:") || !strings.Contains(resp.Content, "Found 1 hotels in") {
		t.Errorf("Content missing one result section:\n%s", resp.Content)
	}
	if !strings.Contains(resp.Content, "\n---\n") {
		t.Errorf("Content missing section separator:\n%s", resp.Content)
	}

	combined, ok := resp.Data.(search.CombinedResults)
	if !ok {
		t.Fatalf("Data = %T, want CombinedResults", resp.Data)
	}
	if len(combined.Flights) != 2 || len(combined.Hotels) != 1 {
		t.Errorf("Data = %+v, want both result sets populated", combined)
	}
}

func TestOutOfDomainLeavesSessionAlone(t *testing.T) {
	m, sessions := newTestManager(t, &stubSearch{})

	for _, message := range []string{"What's the weather like today?", ""} {
		resp := m.ProcessMessage(context.Background(), "user-1", message)

		if resp.Type != ResponseMessage {
			t.Errorf("ProcessMessage(%q) Type = %q, want %q", message, resp.Type, ResponseMessage)
		}
		if resp.Content != "I can only help with travel bookings." {
			t.Errorf("Content = %q", resp.Content)
		}
	}

	session := sessions.GetOrCreate("user-1")
	if session.Stage != store.StageIntentDetection {
		t.Errorf("Stage = %q, want unchanged %q", session.Stage, store.StageIntentDetection)
	}
	if session.Intent != "" {
		t.Errorf("Intent = %q, want empty", session.Intent)
	}
	for _, msg := range session.History {
		if msg.Role == store.MessageRoleAssistant {
			t.Errorf("fallback reply leaked into history: %+v", msg)
		}
	}
}

func TestNewSearchResetsSession(t *testing.T) {
	m, sessions := newTestManager(t, &stubSearch{hotels: cannedHotels()})
	ctx := context.Background()

	m.ProcessMessage(ctx, "user-1", "Book a hotel in Tokyo")
	historyBefore := len(sessions.GetOrCreate("user-1").History)

	resp := m.ProcessMessage(ctx, "user-1", "Actually let's do a NEW SEARCH")

	if resp.Type != ResponseMessage {
		t.Fatalf("Type = %q, want %q", resp.Type, ResponseMessage)
	}
	if resp.Content != "Sure! Let's start a new search. What would you like to book?" {
		t.Errorf("Content = %q", resp.Content)
	}

	session := sessions.GetOrCreate("user-1")
	if session.Intent != "" || session.HotelSlots != nil {
		t.Errorf("session not reset: intent=%q slots=%+v", session.Intent, session.HotelSlots)
	}
	if session.Stage != store.StageIntentDetection {
		t.Errorf("Stage = %q, want %q", session.Stage, store.StageIntentDetection)
	}
	// Only the trigger utterance was added; history survives the reset.
	if len(session.History) != historyBefore+1 {
		t.Errorf("History has %d entries, want %d", len(session.History), historyBefore+1)
	}
}

func TestIntentSwitchDiscardsSlots(t *testing.T) {
	m, sessions := newTestManager(t, &stubSearch{flights: cannedFlights(), hotels: cannedHotels()})
	ctx := context.Background()

	// Complete flight search; the session now sits in the search stage.
	first := m.ProcessMessage(ctx, "user-1", "I want to fly from New York to Los Angeles in December")
	if first.Type != ResponseSearchResults {
		t.Fatalf("setup turn Type = %q, want %q", first.Type, ResponseSearchResults)
	}

	// A non-trigger utterance with a different intent re-enters
	// detection and must not inherit the flight slots.
	resp := m.ProcessMessage(ctx, "user-1", "Book me a hotel in Tokyo please")

	if resp.Type != ResponseSearchResults {
		t.Fatalf("Type = %q, want %q", resp.Type, ResponseSearchResults)
	}

	session := sessions.GetOrCreate("user-1")
	if session.Intent != store.IntentHotel {
		t.Errorf("Intent = %q, want %q", session.Intent, store.IntentHotel)
	}
	if session.FlightSlots != nil {
		t.Errorf("FlightSlots = %+v, want discarded on intent switch", session.FlightSlots)
	}
	if session.HotelSlots == nil || session.HotelSlots.Location != "Tokyo" {
		t.Errorf("HotelSlots = %+v", session.HotelSlots)
	}
}

func TestSearchFailureStaysInSearchStage(t *testing.T) {
	m, sessions := newTestManager(t, &stubSearch{
		hotels:   cannedHotels(),
		hotelErr: errors.New("backend unavailable"),
	})
	ctx := context.Background()

	resp := m.ProcessMessage(ctx, "user-1", "Book a hotel in Tokyo")

	if resp.Type != ResponseError {
		t.Fatalf("Type = %q, want %q", resp.Type, ResponseError)
	}
	if resp.Content != "Sorry, I encountered an error while searching. Please try again." {
		t.Errorf("Content = %q", resp.Content)
	}
	if sessions.GetOrCreate("user-1").Stage != store.StageSearch {
		t.Error("failed search must leave the session in the search stage")
	}

	// The user can still bail out with a new-search trigger.
	resp = m.ProcessMessage(ctx, "user-1", "let's try something different")
	if resp.Type != ResponseMessage || !strings.Contains(resp.Content, "new search") {
		t.Errorf("recovery turn = %+v", resp)
	}
}

func TestPanickingCollaboratorYieldsErrorResponse(t *testing.T) {
	sessions := memory.NewSessionRepository(0)
	m := NewManager(
		sessions,
		classifyFunc(func(ctx context.Context, message string) store.Intent {
			panic("classifier blew up")
		}),
		keywordExtractor(),
		&stubSearch{},
		handleFunc(func(string) string { return "" }),
		0,
		log.New(io.Discard, "", 0),
	)

	resp := m.ProcessMessage(context.Background(), "user-1", "fly me somewhere")

	if resp.Type != ResponseError {
		t.Fatalf("Type = %q, want %q", resp.Type, ResponseError)
	}
	if resp.Content != "Sorry, I encountered an error processing your request. Please try again." {
		t.Errorf("Content = %q", resp.Content)
	}

	// The user message made it in before the panic; the next turn works.
	if len(sessions.GetOrCreate("user-1").History) != 1 {
		t.Error("user message not recorded before the failure")
	}
}

func TestUserMessageAlwaysRecorded(t *testing.T) {
	m, sessions := newTestManager(t, &stubSearch{})

	m.ProcessMessage(context.Background(), "user-1", "hello there")

	history := sessions.GetOrCreate("user-1").History
	if len(history) != 1 {
		t.Fatalf("History has %d entries, want 1", len(history))
	}
	if history[0].Role != store.MessageRoleUser || history[0].Content != "hello there" {
		t.Errorf("History[0] = %+v", history[0])
	}
}
