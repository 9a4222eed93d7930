package routing

import (
	"reflect"
	"testing"
	"time"

	"github.com/ChicagoDave/tourplanner/pkg/geo"
)

func day(n int) time.Time {
	return time.Date(2025, time.September, n, 0, 0, 0, 0, time.UTC)
}

func ukStops() []Stop {
	return []Stop{
		{ID: "A", Date: day(1), Location: "London"},
		{ID: "B", Date: day(3), Location: "Glasgow"},
		{ID: "C", Date: day(2), Location: "Manchester"},
	}
}

func TestSuggestNearestNeighbour(t *testing.T) {
	s := Suggest(ukStops())
	want := []string{"A", "C", "B"}
	if !reflect.DeepEqual(s.IDs(), want) {
		t.Errorf("order = %v, want %v", s.IDs(), want)
	}
	expected := geo.DistanceKm("London", "Manchester") + geo.DistanceKm("Manchester", "Glasgow")
	if diff := s.TotalDistanceKm - expected; diff > 0.01 || diff < -0.01 {
		t.Errorf("total = %.2f, want %.2f", s.TotalDistanceKm, expected)
	}
}

func TestSuggestDeterministic(t *testing.T) {
	a := Suggest(ukStops())
	b := Suggest(ukStops())
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two calls differ:\n%+v\n%+v", a, b)
	}
}

func TestSuggestSeedIsEarliest(t *testing.T) {
	stops := []Stop{
		{ID: "late", Date: day(9), Location: "Paris"},
		{ID: "first", Date: day(1), Location: "Sydney"},
		{ID: "mid", Date: day(5), Location: "Berlin"},
	}
	s := Suggest(stops)
	if s.Order[0].ID != "first" {
		t.Errorf("seed = %s, want first", s.Order[0].ID)
	}
}

func TestSuggestTiesUseListOrder(t *testing.T) {
	stops := []Stop{
		{ID: "seed", Date: day(1), Location: "London"},
		{ID: "x", Date: day(4), Location: "Paris"},
		{ID: "y", Date: day(2), Location: "paris"},
	}
	s := Suggest(stops)
	want := []string{"seed", "x", "y"}
	if !reflect.DeepEqual(s.IDs(), want) {
		t.Errorf("order = %v, want %v", s.IDs(), want)
	}
}

func TestSuggestDoesNotMutateInput(t *testing.T) {
	in := ukStops()
	_ = Suggest(in)
	if !reflect.DeepEqual(in, ukStops()) {
		t.Error("Suggest reordered its input")
	}
}

func TestSuggestSmallInputs(t *testing.T) {
	if s := Suggest(nil); len(s.Order) != 0 || s.TotalDistanceKm != 0 {
		t.Errorf("empty input gave %+v", s)
	}
	one := []Stop{{ID: "solo", Date: day(1), Location: "Dublin"}}
	s := Suggest(one)
	if len(s.Order) != 1 || s.Order[0].ID != "solo" || s.TotalDistanceKm != 0 {
		t.Errorf("single input gave %+v", s)
	}
}

func TestSuggestSavings(t *testing.T) {
	// Chronological order zig-zags London -> Glasgow -> Manchester.
	stops := []Stop{
		{ID: "A", Date: day(1), Location: "London"},
		{ID: "B", Date: day(2), Location: "Glasgow"},
		{ID: "C", Date: day(3), Location: "Manchester"},
	}
	s := Suggest(stops)
	if s.ChronologicalDistanceKm <= s.TotalDistanceKm {
		t.Errorf("chronological %.2f should exceed suggested %.2f", s.ChronologicalDistanceKm, s.TotalDistanceKm)
	}
	if s.SavingsKm <= 0 {
		t.Errorf("expected positive savings, got %.2f", s.SavingsKm)
	}
}
