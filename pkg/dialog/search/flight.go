package search

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/store"
)

// FlightResult is one bookable flight option.
type FlightResult struct {
	ID            string `json:"id"`
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flightNumber"`
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	Duration      string `json:"duration"`
	Price         int    `json:"price"`
	Currency      string `json:"currency"`
}

// HotelResult is one bookable hotel option.
type HotelResult struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Rating        int      `json:"rating"`
	PricePerNight int      `json:"pricePerNight"`
	Currency      string   `json:"currency"`
	Amenities     []string `json:"amenities"`
	ImageURL      string   `json:"imageUrl"`
}

// CombinedResults pairs the two result sets for a Both search.
type CombinedResults struct {
	Flights []FlightResult `json:"flights"`
	Hotels  []HotelResult  `json:"hotels"`
}

var airlines = []string{"American Airlines", "Delta", "United", "Southwest", "JetBlue"}

// MockAgent fabricates plausible search results. It stands in for the
// real inventory backends during development; the latency fields
// imitate their round-trip times.
type MockAgent struct {
	flightDelay time.Duration
	hotelDelay  time.Duration
}

func NewMockAgent() *MockAgent {
	return &MockAgent{
		flightDelay: 500 * time.Millisecond,
		hotelDelay:  600 * time.Millisecond,
	}
}

// SearchFlights returns 3-5 generated flights sorted by price
// ascending. Cancelling the context aborts the simulated call.
func (a *MockAgent) SearchFlights(ctx context.Context, slots store.FlightSlots) ([]FlightResult, error) {
	if err := sleep(ctx, a.flightDelay); err != nil {
		return nil, err
	}

	numResults := rand.Intn(3) + 3
	results := make([]FlightResult, 0, numResults)

	for i := 0; i < numResults; i++ {
		airline := airlines[rand.Intn(len(airlines))]
		flightNumber := fmt.Sprintf("%s%d", strings.ToUpper(airline[:2]), rand.Intn(9000)+1000)

		departureHour := rand.Intn(24)
		duration := rand.Intn(8) + 2 // 2-10 hours
		arrivalHour := (departureHour + duration) % 24

		basePrice := rand.Intn(800) + 200 // $200-$1000
		price := basePrice + i*50

		results = append(results, FlightResult{
			ID:            uuid.NewString(),
			Airline:       airline,
			FlightNumber:  flightNumber,
			From:          slots.FromCity,
			To:            slots.ToCity,
			DepartureTime: fmt.Sprintf("%02d:%02d", departureHour, rand.Intn(60)),
			ArrivalTime:   fmt.Sprintf("%02d:%02d", arrivalHour, rand.Intn(60)),
			Duration:      fmt.Sprintf("%dh %dm", duration, rand.Intn(60)),
			Price:         price,
			Currency:      "USD",
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Price < results[j].Price
	})
	return results, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
