package search

import (
	"fmt"
	"strings"
)

// FormatFlightResults renders flights as a numbered plain-text list.
func FormatFlightResults(flights []FlightResult) string {
	if len(flights) == 0 {
		return "Sorry, no flights found for your search criteria."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d flights:\n\n", len(flights))

	for i, f := range flights {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, f.Airline, f.FlightNumber)
		fmt.Fprintf(&b, "   %s -> %s\n", f.From, f.To)
		fmt.Fprintf(&b, "   Departure: %s | Arrival: %s\n", f.DepartureTime, f.ArrivalTime)
		fmt.Fprintf(&b, "   Duration: %s | Price: $%d\n\n", f.Duration, f.Price)
	}

	return b.String()
}

// FormatHotelResults renders hotels as a numbered plain-text list.
func FormatHotelResults(hotels []HotelResult) string {
	if len(hotels) == 0 {
		return "Sorry, no hotels found for your search criteria."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d hotels in %s:\n\n", len(hotels), hotels[0].Location)

	for i, h := range hotels {
		fmt.Fprintf(&b, "%d. %s\n", i+1, h.Name)
		fmt.Fprintf(&b, "   Rating: %s (%d/5)\n", strings.Repeat("*", h.Rating), h.Rating)
		fmt.Fprintf(&b, "   Price: $%d/night\n", h.PricePerNight)
		fmt.Fprintf(&b, "   Amenities: %s\n\n", strings.Join(h.Amenities, ", "))
	}

	return b.String()
}
