package search

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/store"
)

var hotelNames = []string{
	"Grand Plaza Hotel",
	"Luxury Suites",
	"City Center Inn",
	"Boutique Resort",
	"Business Hotel",
	"Comfort Lodge",
	"Premium Towers",
}

var amenitySets = [][]string{
	{"Free WiFi", "Pool", "Gym", "Restaurant"},
	{"Free WiFi", "Spa", "Room Service", "Concierge"},
	{"Free WiFi", "Business Center", "Parking"},
	{"Free WiFi", "Pool", "Bar", "Laundry"},
	{"Free WiFi", "Gym", "Restaurant", "Airport Shuttle"},
	{"Free WiFi", "Pool", "Spa", "Room Service", "Valet Parking"},
	{"Free WiFi", "Business Center", "Restaurant", "Gym"},
}

// SearchHotels returns 4-7 generated hotels sorted by nightly price
// ascending. Higher-rated hotels get a price bump so the ordering
// looks believable.
func (a *MockAgent) SearchHotels(ctx context.Context, slots store.HotelSlots) ([]HotelResult, error) {
	if err := sleep(ctx, a.hotelDelay); err != nil {
		return nil, err
	}

	numResults := rand.Intn(4) + 4
	results := make([]HotelResult, 0, numResults)

	for i := 0; i < numResults; i++ {
		rating := rand.Intn(3) + 3       // 3-5 stars
		basePrice := rand.Intn(300) + 80 // $80-$380 per night
		pricePerNight := basePrice + rating*20

		results = append(results, HotelResult{
			ID:            uuid.NewString(),
			Name:          hotelNames[rand.Intn(len(hotelNames))],
			Location:      slots.Location,
			Rating:        rating,
			PricePerNight: pricePerNight,
			Currency:      "USD",
			Amenities:     amenitySets[rand.Intn(len(amenitySets))],
			ImageURL:      fmt.Sprintf("https://picsum.photos/400/300?random=%d", i),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].PricePerNight < results[j].PricePerNight
	})
	return results, nil
}
