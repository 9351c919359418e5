package followup

import (
	"fmt"
	"strings"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog/slots"
)

// Canonical single-field questions. Fields without an entry fall back
// to the generic template.
var canonicalQuestions = map[slots.Field]string{
	slots.FieldOriginCity:      "Where would you like to fly from?",
	slots.FieldDestinationCity: "Where would you like to fly to?",
	slots.FieldDepartureDate:   "When would you like to depart?",
	slots.FieldPassengerCount:  "How many passengers will be traveling?",
	slots.FieldHotelLocation:   "Which city would you like to stay in?",
	slots.FieldCheckInDate:     "When would you like to check in?",
	slots.FieldCheckOutDate:    "When would you like to check out?",
	slots.FieldGuestCount:      "How many guests will be staying?",
}

// Global priority order used when more than one field is missing. It
// deliberately omits destination city and hotel location: those are
// usually volunteered up front, so the questions chase the fields users
// actually forget.
var priorityOrder = []slots.Field{
	slots.FieldOriginCity,
	slots.FieldDepartureDate,
	slots.FieldPassengerCount,
	slots.FieldCheckInDate,
	slots.FieldCheckOutDate,
	slots.FieldGuestCount,
}

// Hand-composed questions for pairs that read badly when stitched
// together generically.
type fieldPair struct {
	first, second slots.Field
}

var pairQuestions = map[fieldPair]string{
	{slots.FieldOriginCity, slots.FieldDepartureDate}:     "Where would you like to fly from and when would you like to depart?",
	{slots.FieldDepartureDate, slots.FieldPassengerCount}: "When would you like to depart and how many passengers will be traveling?",
	{slots.FieldCheckInDate, slots.FieldCheckOutDate}:     "When would you like to check in and check out?",
}

// Synthesize produces exactly one follow-up question for the given
// missing fields. The rule order is a contract: single-field canonical
// question, then priority filtering, then pair phrasing, then the
// generic templates. Output is deterministic for a given input.
func Synthesize(missing []slots.Field) string {
	if len(missing) == 1 {
		return singleFieldQuestion(missing[0])
	}

	prioritized := filterByPriority(missing)

	if len(prioritized) == 1 {
		return singleFieldQuestion(prioritized[0])
	}

	if len(prioritized) >= 2 {
		first, second := prioritized[0], prioritized[1]
		if q, ok := pairQuestions[fieldPair{first, second}]; ok {
			return q
		}
		return fmt.Sprintf("I need to know: %s and %s. Could you provide these details?",
			first.Label(), second.Label())
	}

	// No priority field is missing. Unreachable with the current field
	// set, but kept so a future field without a priority entry still
	// yields a usable question.
	listed := missing
	if len(listed) > 3 {
		listed = listed[:3]
	}
	return fmt.Sprintf("I need a few more details: %s. Could you provide this information?",
		strings.Join(slots.Labels(listed), ", "))
}

func singleFieldQuestion(f slots.Field) string {
	if q, ok := canonicalQuestions[f]; ok {
		return q
	}
	return fmt.Sprintf("Could you please provide the %s?", f.Label())
}

// filterByPriority keeps only the missing fields, in priority order.
func filterByPriority(missing []slots.Field) []slots.Field {
	present := make(map[slots.Field]bool, len(missing))
	for _, f := range missing {
		present[f] = true
	}
	var out []slots.Field
	for _, f := range priorityOrder {
		if present[f] {
			out = append(out, f)
		}
	}
	return out
}
