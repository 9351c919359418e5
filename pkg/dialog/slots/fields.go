package slots

// Field is a stable internal identifier for a single slot. Control
// flow keys off Field values; user-facing wording lives only in the
// label table so phrasing can change without touching completeness or
// priority logic.
type Field int

const (
	FieldOriginCity Field = iota
	FieldDestinationCity
	FieldDepartureDate
	FieldPassengerCount
	FieldHotelLocation
	FieldCheckInDate
	FieldCheckOutDate
	FieldGuestCount
)

var fieldLabels = map[Field]string{
	FieldOriginCity:      "origin city",
	FieldDestinationCity: "destination city",
	FieldDepartureDate:   "departure date",
	FieldPassengerCount:  "number of passengers",
	FieldHotelLocation:   "hotel location",
	FieldCheckInDate:     "check-in date",
	FieldCheckOutDate:    "check-out date",
	FieldGuestCount:      "number of guests",
}

// Label returns the human-readable name used in follow-up questions.
func (f Field) Label() string {
	return fieldLabels[f]
}

func (f Field) String() string {
	return f.Label()
}

// Declaration order per intent. The evaluator reports missing fields in
// this order, and the synthesizer's priority list overrides it only
// when more than one field is outstanding.
var (
	flightFieldOrder = []Field{
		FieldOriginCity,
		FieldDestinationCity,
		FieldDepartureDate,
		FieldPassengerCount,
	}
	hotelFieldOrder = []Field{
		FieldHotelLocation,
		FieldCheckInDate,
		FieldCheckOutDate,
		FieldGuestCount,
	}
)

// Labels maps a field list to its display names, preserving order.
func Labels(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Label()
	}
	return out
}
