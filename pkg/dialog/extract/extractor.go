package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/llm"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/store"
)

const flightPrompt = `Extract flight booking information from the user's message. Return a JSON object with the following fields (only include fields that are mentioned):

- fromCity: Origin city/airport
- toCity: Destination city/airport
- departureDate: Departure date (YYYY-MM-DD format)
- returnDate: Return date (YYYY-MM-DD format, only for round trips)
- passengerCount: Number of passengers (default 1)

User message: "%s"

Existing information: %s

Return only valid JSON without any explanation:`

const hotelPrompt = `Extract hotel booking information from the user's message. Return a JSON object with the following fields (only include fields that are mentioned):

- location: Hotel location/city
- checkIn: Check-in date (YYYY-MM-DD format)
- checkOut: Check-out date (YYYY-MM-DD format)
- guestCount: Number of guests (default 1)

User message: "%s"

Existing information: %s

Return only valid JSON without any explanation:`

const combinedPrompt = `Extract travel booking information from the user's message for both flights and hotels. Return a JSON object with the following fields (only include fields that are mentioned or can be reasonably inferred):

Flight fields:
- fromCity: Origin city/airport (if not mentioned, leave empty)
- toCity: Destination city/airport (look for phrases like "to Tokyo", "trip to Paris", etc.)
- departureDate: Departure date (YYYY-MM-DD format)
- returnDate: Return date (YYYY-MM-DD format)
- passengerCount: Number of passengers (default 1 if not specified)

Hotel fields:
- location: Hotel location/city (often same as toCity for trip planning)
- checkIn: Check-in date (YYYY-MM-DD format, often same as departureDate)
- checkOut: Check-out date (YYYY-MM-DD format, often same as returnDate)
- guestCount: Number of guests (often same as passengerCount, default 1)

Examples:
- "Plan a trip to Tokyo" -> {"toCity": "Tokyo", "location": "Tokyo", "passengerCount": 1, "guestCount": 1}
- "Book flight and hotel to Paris for 2 people" -> {"toCity": "Paris", "location": "Paris", "passengerCount": 2, "guestCount": 2}
- "Trip to London from NYC next week" -> {"fromCity": "New York", "toCity": "London", "location": "London", "passengerCount": 1, "guestCount": 1}
- "From San Francisco, departing December 15th" -> {"fromCity": "San Francisco", "departureDate": "2024-12-15"}

User message: "%s"

Existing information: %s

Return only valid JSON without any explanation:`

// Extractor pulls structured slot values out of free text. Extraction
// is progressive: the caller passes the slots collected so far and the
// model only has to supply what the new utterance adds. On any failure
// (model error, no JSON, schema violation) the existing slots come back
// unchanged; this method never returns an error.
type Extractor struct {
	provider llm.Provider
	validate *validator.Validate
	logger   *log.Logger
}

func NewExtractor(provider llm.Provider, logger *log.Logger) *Extractor {
	return &Extractor{
		provider: provider,
		validate: validator.New(),
		logger:   logger,
	}
}

// Extract dispatches on intent and returns a bundle with only the
// matching slot object populated. IntentOther yields an empty bundle.
func (e *Extractor) Extract(ctx context.Context, message string, intent store.Intent, existing store.SlotBundle) store.SlotBundle {
	switch intent {
	case store.IntentFlight:
		return store.SlotBundle{Flight: e.extractFlight(ctx, message, existing.Flight)}
	case store.IntentHotel:
		return store.SlotBundle{Hotel: e.extractHotel(ctx, message, existing.Hotel)}
	case store.IntentBoth:
		return store.SlotBundle{Combined: e.extractCombined(ctx, message, existing.Combined)}
	default:
		return store.SlotBundle{}
	}
}

func (e *Extractor) extractFlight(ctx context.Context, message string, existing *store.FlightSlots) *store.FlightSlots {
	merged := store.FlightSlots{}
	if existing != nil {
		merged = *existing
	}

	raw, ok := e.generate(ctx, fmt.Sprintf(flightPrompt, message, slotsJSON(existing)), "flight")
	if !ok {
		return existing
	}

	// Unmarshal over a copy of the existing slots: fields present in
	// the model output win, everything else is untouched.
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		e.logger.Printf("[WARN] Flight extraction returned invalid JSON: %v", err)
		return existing
	}

	applyFlightDefaults(&merged)

	if err := e.validate.Struct(&merged); err != nil {
		e.logger.Printf("[WARN] Flight extraction failed validation: %v", err)
		return existing
	}
	return &merged
}

func (e *Extractor) extractHotel(ctx context.Context, message string, existing *store.HotelSlots) *store.HotelSlots {
	merged := store.HotelSlots{}
	if existing != nil {
		merged = *existing
	}

	raw, ok := e.generate(ctx, fmt.Sprintf(hotelPrompt, message, slotsJSON(existing)), "hotel")
	if !ok {
		return existing
	}

	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		e.logger.Printf("[WARN] Hotel extraction returned invalid JSON: %v", err)
		return existing
	}

	applyHotelDefaults(&merged)

	if err := e.validate.Struct(&merged); err != nil {
		e.logger.Printf("[WARN] Hotel extraction failed validation: %v", err)
		return existing
	}
	return &merged
}

func (e *Extractor) extractCombined(ctx context.Context, message string, existing *store.CombinedSlots) *store.CombinedSlots {
	merged := store.CombinedSlots{}
	if existing != nil {
		merged = *existing
	}

	raw, ok := e.generate(ctx, fmt.Sprintf(combinedPrompt, message, slotsJSON(existing)), "combined")
	if !ok {
		return existing
	}

	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		e.logger.Printf("[WARN] Combined extraction returned invalid JSON: %v", err)
		return existing
	}

	applyCombinedDefaults(&merged)

	if err := e.validate.Struct(&merged); err != nil {
		e.logger.Printf("[WARN] Combined extraction failed validation: %v", err)
		return existing
	}
	return &merged
}

// generate runs the prompt and extracts the JSON payload from the
// response. The second return value is false when nothing usable came
// back.
func (e *Extractor) generate(ctx context.Context, prompt, kind string) (string, bool) {
	response, err := e.provider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		e.logger.Printf("[ERROR] %s extraction call failed: %v", kind, err)
		return "", false
	}

	raw := extractJSON(response)
	if raw == "" {
		e.logger.Printf("[WARN] %s extraction returned no JSON: %q", kind, response)
		return "", false
	}
	return raw, true
}

// applyFlightDefaults sets passengerCount to 1 once any flight data
// exists. An all-empty object stays empty so completeness still reports
// every field missing.
func applyFlightDefaults(fs *store.FlightSlots) {
	if *fs == (store.FlightSlots{}) {
		return
	}
	if fs.PassengerCount == 0 {
		fs.PassengerCount = 1
	}
}

func applyHotelDefaults(hs *store.HotelSlots) {
	if *hs == (store.HotelSlots{}) {
		return
	}
	if hs.GuestCount == 0 {
		hs.GuestCount = 1
	}
}

// applyCombinedDefaults fills hotel fields from their flight
// counterparts for trip planning, then applies the count defaults.
func applyCombinedDefaults(cs *store.CombinedSlots) {
	if *cs == (store.CombinedSlots{}) {
		return
	}
	if cs.ToCity != "" && cs.Location == "" {
		cs.Location = cs.ToCity
	}
	if cs.DepartureDate != "" && cs.CheckIn == "" {
		cs.CheckIn = cs.DepartureDate
	}
	if cs.ReturnDate != "" && cs.CheckOut == "" {
		cs.CheckOut = cs.ReturnDate
	}
	if cs.PassengerCount == 0 {
		cs.PassengerCount = 1
	}
	if cs.GuestCount == 0 {
		cs.GuestCount = cs.PassengerCount
	}
}

func slotsJSON(v interface{}) string {
	if v == nil {
		return "{}"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	// A typed nil pointer marshals to "null".
	if string(b) == "null" {
		return "{}"
	}
	return string(b)
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
