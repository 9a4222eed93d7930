package routing

import (
	"math"
	"sort"
	"time"

	"github.com/ChicagoDave/tourplanner/pkg/geo"
)

// Stop is a tour stop as seen by the route optimizer.
type Stop struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
}

// Suggestion is an advisory visiting order. It never changes scheduled dates.
type Suggestion struct {
	Order                   []Stop  `json:"order"`
	TotalDistanceKm         float64 `json:"total_distance_km"`
	ChronologicalDistanceKm float64 `json:"chronological_distance_km"`
	SavingsKm               float64 `json:"savings_km"`
}

// Suggest builds a nearest-neighbour visiting order. The seed is the
// chronologically earliest stop; each next stop is the closest unvisited one
// to the last stop added. Ties go to the stop listed first, so the result is
// fully deterministic for a given input.
func Suggest(stops []Stop) Suggestion {
	if len(stops) <= 1 {
		order := make([]Stop, len(stops))
		copy(order, stops)
		return Suggestion{Order: order}
	}

	seed := 0
	for i := 1; i < len(stops); i++ {
		if stops[i].Date.Before(stops[seed].Date) {
			seed = i
		}
	}

	visited := make([]bool, len(stops))
	visited[seed] = true
	order := make([]Stop, 0, len(stops))
	order = append(order, stops[seed])

	total := 0.0
	last := seed
	for len(order) < len(stops) {
		next := -1
		best := math.Inf(1)
		for i := range stops {
			if visited[i] {
				continue
			}
			d := geo.DistanceKm(stops[last].Location, stops[i].Location)
			if d < best {
				best = d
				next = i
			}
		}
		visited[next] = true
		order = append(order, stops[next])
		total += best
		last = next
	}

	chrono := ChronologicalDistanceKm(stops)
	total = round2(total)
	return Suggestion{
		Order:                   order,
		TotalDistanceKm:         total,
		ChronologicalDistanceKm: chrono,
		SavingsKm:               round2(math.Max(0, chrono-total)),
	}
}

// ChronologicalDistanceKm is the distance covered visiting stops by date.
func ChronologicalDistanceKm(stops []Stop) float64 {
	ordered := make([]Stop, len(stops))
	copy(ordered, stops)
	sortByDate(ordered)

	total := 0.0
	for i := 1; i < len(ordered); i++ {
		total += geo.DistanceKm(ordered[i-1].Location, ordered[i].Location)
	}
	return round2(total)
}

// IDs returns the stop ids in suggested order.
func (s Suggestion) IDs() []string {
	ids := make([]string, len(s.Order))
	for i, st := range s.Order {
		ids[i] = st.ID
	}
	return ids
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortByDate(stops []Stop) {
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Date.Before(stops[j].Date)
	})
}
