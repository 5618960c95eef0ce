package models

import "math"

// Route holds the routed distance and duration for one travel mode.
// Error is nil when the router reported no failure; a non-nil Error or a
// non-positive duration both mean no route exists.
type Route struct {
	Error       *string `json:"error,omitempty"`
	DistanceKm  float64 `json:"distanceKm"`
	DurationMin float64 `json:"durationMin"`
}

// HasError reports whether the router attached a failure reason.
func (r Route) HasError() bool {
	return r.Error != nil
}

// Available reports whether a usable route was found.
// A zero-length commute is never a real route.
func (r Route) Available() bool {
	return !r.HasError() && positive(r.DurationMin)
}

// Duration returns the travel time in minutes and whether a route exists.
func (r Route) Duration() (float64, bool) {
	if !r.Available() {
		return 0, false
	}
	return r.DurationMin, true
}

// Distance returns the routed distance in kilometers and whether a route exists.
func (r Route) Distance() (float64, bool) {
	if r.HasError() || !positive(r.DistanceKm) {
		return 0, false
	}
	return r.DistanceKm, true
}

// CommuteRecord is one ZIP code tabulation area with its commute metrics
// to the campus and the number of people assigned to it.
// Records are parsed once and never mutated afterwards.
type CommuteRecord struct {
	Car         Route   `json:"car"`
	Transit     Route   `json:"transit"`
	ZCTA        string  `json:"zcta"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CrowFliesKm float64 `json:"crowFliesKm"`
	People      int     `json:"people"`
}

// HasLocation reports whether the record can be placed on a map.
func (r CommuteRecord) HasLocation() bool {
	return r.Latitude != 0 && r.Longitude != 0
}

// NoTransitAccess reports whether transit routing failed or returned no
// duration. It does not depend on any threshold.
func (r CommuteRecord) NoTransitAccess() bool {
	return r.Transit.HasError() || r.Transit.DurationMin == 0 || math.IsNaN(r.Transit.DurationMin)
}

// ThresholdMode selects which slider drives the commute dashboard.
type ThresholdMode string

const (
	ModeTime     ThresholdMode = "time"
	ModeDistance ThresholdMode = "distance"
)

// Valid reports whether m is a known mode.
func (m ThresholdMode) Valid() bool {
	return m == ModeTime || m == ModeDistance
}

// Commute threshold bounds and defaults, matching the dashboard sliders.
const (
	MinTimeThresholdMinutes     = 0
	MaxTimeThresholdMinutes     = 120
	DefaultTimeThresholdMinutes = 60

	MinDistanceThresholdMiles     = 5
	MaxDistanceThresholdMiles     = 100
	DefaultDistanceThresholdMiles = 25
)

// CommuteParameters is the full set of commute dashboard inputs.
// A new value is built for every interaction; nothing is patched in place.
type CommuteParameters struct {
	Mode                   ThresholdMode `json:"mode"`
	TimeThresholdMinutes   float64       `json:"timeThresholdMinutes"`
	DistanceThresholdMiles float64       `json:"distanceThresholdMiles"`
}

// DefaultCommuteParameters returns the dashboard's initial state.
func DefaultCommuteParameters() CommuteParameters {
	return CommuteParameters{
		Mode:                   ModeTime,
		TimeThresholdMinutes:   DefaultTimeThresholdMinutes,
		DistanceThresholdMiles: DefaultDistanceThresholdMiles,
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsNaN(v)
}
