package geo

import (
	"hash/fnv"
	"math"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// Coordinate is a synthetic latitude/longitude pair in degrees.
// It is derived from a location label and never persisted.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultCoordinate is returned for empty labels. It sits near the centroid
// of the known-label table (North Atlantic, between the US and UK cities).
var DefaultCoordinate = Coordinate{Lat: 41.5, Lng: -29.5}

// Normalize trims, lowercases, and collapses internal whitespace.
func Normalize(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// CoordinateOf maps a location label to a coordinate. Known labels come from
// a fixed table; any other label is projected from a stable FNV-1a hash, so
// the same label always yields the same coordinate. It never fails.
func CoordinateOf(label string) Coordinate {
	key := Normalize(label)
	if key == "" {
		return DefaultCoordinate
	}
	if c, ok := knownLocations[key]; ok {
		return c
	}
	return project(key)
}

// project spreads a 64-bit hash over the valid lat/lng ranges. The low word
// drives latitude, the high word longitude, at 0.01 degree resolution.
func project(key string) Coordinate {
	h := fnv.New64a()
	h.Write([]byte(key))
	sum := h.Sum64()

	lo := uint32(sum)
	hi := uint32(sum >> 32)
	return Coordinate{
		Lat: float64(lo%18001)/100 - 90,
		Lng: float64(hi%36001)/100 - 180,
	}
}

// DistanceKm returns the great-circle distance between two labels in km,
// rounded to 2 decimal places. An empty label on either side means no travel
// (e.g. the first stop of a tour) and yields 0.
func DistanceKm(a, b string) float64 {
	ka, kb := Normalize(a), Normalize(b)
	if ka == "" || kb == "" || ka == kb {
		return 0
	}
	// Canonical ordering keeps the result bit-identical in both directions.
	if kb < ka {
		ka, kb = kb, ka
	}
	return round2(Haversine(CoordinateOf(ka), CoordinateOf(kb)))
}

// Haversine returns the great-circle distance between two coordinates in km.
func Haversine(a, b Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return EarthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
