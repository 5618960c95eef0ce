package commute

import (
	"github.com/stwalsh4118/campusplan/internal/models"
	"github.com/stwalsh4118/campusplan/internal/units"
)

// withinTime reports whether a route exists and takes at most limit minutes.
func withinTime(r models.Route, limit float64) bool {
	d, ok := r.Duration()
	return ok && d <= limit
}

// CarWithinTime reports whether the record's car route is time-reachable.
func CarWithinTime(r models.CommuteRecord, minutes float64) bool {
	return withinTime(r.Car, minutes)
}

// TransitWithinTime reports whether the record's transit route is time-reachable.
func TransitWithinTime(r models.CommuteRecord, minutes float64) bool {
	return withinTime(r.Transit, minutes)
}

// CarWithinDistance compares the routed car distance in miles, excluding
// records without a car route.
func CarWithinDistance(r models.CommuteRecord, miles float64) bool {
	km, ok := r.Car.Distance()
	return ok && units.MilesFromKm(km) <= miles
}

// CrowFliesWithinDistance compares the straight-line distance directly.
// Crow-flies distance has no unavailable state, so zero counts.
func CrowFliesWithinDistance(r models.CommuteRecord, miles float64) bool {
	return units.MilesFromKm(r.CrowFliesKm) <= miles
}

// Qualifies is the membership test behind the summary cards: car time in
// time mode, crow-flies distance in distance mode.
func Qualifies(r models.CommuteRecord, p models.CommuteParameters) bool {
	if p.Mode == models.ModeDistance {
		return CrowFliesWithinDistance(r, p.DistanceThresholdMiles)
	}
	return CarWithinTime(r, p.TimeThresholdMinutes)
}

// OnMap is the looser membership used to highlight map markers: a record is
// highlighted when either of the mode's two measures is within threshold.
func OnMap(r models.CommuteRecord, p models.CommuteParameters) bool {
	if p.Mode == models.ModeDistance {
		return CarWithinDistance(r, p.DistanceThresholdMiles) ||
			CrowFliesWithinDistance(r, p.DistanceThresholdMiles)
	}
	return CarWithinTime(r, p.TimeThresholdMinutes) ||
		TransitWithinTime(r, p.TimeThresholdMinutes)
}

// ThresholdSet returns the records that qualify under p, in input order.
// The input slice is never modified.
func ThresholdSet(records []models.CommuteRecord, p models.CommuteParameters) []models.CommuteRecord {
	out := make([]models.CommuteRecord, 0, len(records))
	for _, r := range records {
		if Qualifies(r, p) {
			out = append(out, r)
		}
	}
	return out
}
