package geo

// knownLocations holds the canonical labels with hand-placed coordinates.
// Keys are normalized (see Normalize).
var knownLocations = map[string]Coordinate{
	"london":      {Lat: 51.5074, Lng: -0.1278},
	"manchester":  {Lat: 53.4808, Lng: -2.2426},
	"glasgow":     {Lat: 55.8642, Lng: -4.2518},
	"dublin":      {Lat: 53.3498, Lng: -6.2603},
	"paris":       {Lat: 48.8566, Lng: 2.3522},
	"berlin":      {Lat: 52.5200, Lng: 13.4050},
	"new york":    {Lat: 40.7128, Lng: -74.0060},
	"chicago":     {Lat: 41.8781, Lng: -87.6298},
	"nashville":   {Lat: 36.1627, Lng: -86.7816},
	"los angeles": {Lat: 34.0522, Lng: -118.2437},
	"toronto":     {Lat: 43.6532, Lng: -79.3832},
	"sydney":      {Lat: -33.8688, Lng: 151.2093},
}

// IsKnown reports whether the label resolves through the fixed table
// rather than the hash projection.
func IsKnown(label string) bool {
	_, ok := knownLocations[Normalize(label)]
	return ok
}
