package slots

import "github.com/anup4khandelwal/travel-planner-agent/pkg/store"

// Result is the outcome of a completeness check. Missing is ordered by
// the intent's field declaration order and empty when Complete.
type Result struct {
	Complete bool
	Missing  []Field
}

// Evaluate decides whether the session's slot set satisfies its intent.
// A required field counts as present when it is non-empty (strings) or
// positive (counts); the flight return date is never required. A
// session with no intent, or intent Other, is never complete.
func Evaluate(intent store.Intent, bundle store.SlotBundle) Result {
	var missing []Field

	switch intent {
	case store.IntentFlight:
		missing = missingFlight(bundle.Flight)
	case store.IntentHotel:
		missing = missingHotel(bundle.Hotel)
	case store.IntentBoth:
		missing = missingCombined(bundle.Combined)
	default:
		return Result{Complete: false, Missing: nil}
	}

	return Result{Complete: len(missing) == 0, Missing: missing}
}

func missingFlight(fs *store.FlightSlots) []Field {
	var missing []Field
	for _, f := range flightFieldOrder {
		if fs == nil || !flightFieldPresent(fs, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func flightFieldPresent(fs *store.FlightSlots, f Field) bool {
	switch f {
	case FieldOriginCity:
		return fs.FromCity != ""
	case FieldDestinationCity:
		return fs.ToCity != ""
	case FieldDepartureDate:
		return fs.DepartureDate != ""
	case FieldPassengerCount:
		return fs.PassengerCount > 0
	default:
		return true
	}
}

func missingHotel(hs *store.HotelSlots) []Field {
	var missing []Field
	for _, f := range hotelFieldOrder {
		if hs == nil || !hotelFieldPresent(hs, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func hotelFieldPresent(hs *store.HotelSlots, f Field) bool {
	switch f {
	case FieldHotelLocation:
		return hs.Location != ""
	case FieldCheckInDate:
		return hs.CheckIn != ""
	case FieldCheckOutDate:
		return hs.CheckOut != ""
	case FieldGuestCount:
		return hs.GuestCount > 0
	default:
		return true
	}
}

// Combined checks flight fields in declaration order, then hotel
// fields, treating all eight as independently required.
func missingCombined(cs *store.CombinedSlots) []Field {
	if cs == nil {
		out := make([]Field, 0, len(flightFieldOrder)+len(hotelFieldOrder))
		out = append(out, flightFieldOrder...)
		out = append(out, hotelFieldOrder...)
		return out
	}
	fs := cs.FlightPart()
	hs := cs.HotelPart()
	return append(missingFlight(&fs), missingHotel(&hs)...)
}
