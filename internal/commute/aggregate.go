package commute

import (
	"encoding/json"

	"github.com/stwalsh4118/campusplan/internal/models"
	"github.com/stwalsh4118/campusplan/internal/units"
)

// Headline holds the threshold card populations computed over the whole
// dataset. Only the fields for the active mode are populated.
type Headline struct {
	Mode                  models.ThresholdMode `json:"mode"`
	CarPeople             int                  `json:"carPeople"`
	TransitPeople         int                  `json:"transitPeople"`
	NoTransitAccessPeople int                  `json:"noTransitAccessPeople"`
	CrowFliesPeople       int                  `json:"crowFliesPeople"`
}

// MarshalJSON writes every field of the active mode, zeros included, and
// leaves out the fields that do not apply to it.
func (h Headline) MarshalJSON() ([]byte, error) {
	if h.Mode == models.ModeDistance {
		return json.Marshal(struct {
			Mode            models.ThresholdMode `json:"mode"`
			CarPeople       int                  `json:"carPeople"`
			CrowFliesPeople int                  `json:"crowFliesPeople"`
		}{h.Mode, h.CarPeople, h.CrowFliesPeople})
	}
	return json.Marshal(struct {
		Mode                  models.ThresholdMode `json:"mode"`
		CarPeople             int                  `json:"carPeople"`
		TransitPeople         int                  `json:"transitPeople"`
		NoTransitAccessPeople int                  `json:"noTransitAccessPeople"`
	}{h.Mode, h.CarPeople, h.TransitPeople, h.NoTransitAccessPeople})
}

// Summary is the reduction of the qualifying subset into display values.
// Averages are zero when no record contributes to them.
type Summary struct {
	TotalZipcodes          int     `json:"totalZipcodes"`
	TotalPeople            int     `json:"totalPeople"`
	AvgCarMinutes          int     `json:"avgCarMinutes"`
	AvgCarMiles            float64 `json:"avgCarMiles"`
	AvgTransitMinutes      int     `json:"avgTransitMinutes"`
	NoTransitAccessPeople  int     `json:"noTransitAccessPeople"`
	AvgDirectMiles         float64 `json:"avgDirectMiles"`
	TransitAverageIncluded bool    `json:"transitAverageIncluded"`
}

// Report bundles every value the commute dashboard renders for one set of
// parameters.
type Report struct {
	Parameters models.CommuteParameters `json:"parameters"`
	Headline   Headline                 `json:"headline"`
	Summary    Summary                  `json:"summary"`
}

// HeadlineStats counts reachable population over all records.
func HeadlineStats(records []models.CommuteRecord, p models.CommuteParameters) Headline {
	h := Headline{Mode: p.Mode}
	for _, r := range records {
		if p.Mode == models.ModeDistance {
			if CarWithinDistance(r, p.DistanceThresholdMiles) {
				h.CarPeople += r.People
			}
			if CrowFliesWithinDistance(r, p.DistanceThresholdMiles) {
				h.CrowFliesPeople += r.People
			}
			continue
		}

		if CarWithinTime(r, p.TimeThresholdMinutes) {
			h.CarPeople += r.People
		}
		if TransitWithinTime(r, p.TimeThresholdMinutes) {
			h.TransitPeople += r.People
		}
		if r.NoTransitAccess() {
			h.NoTransitAccessPeople += r.People
		}
	}
	return h
}

// accumulator carries the running sums of a single summary pass.
type accumulator struct {
	count, people, noTransit int

	carN              int
	carMinutes, carKm float64
	transitN          int
	transitMinutes    float64
	crowKm            float64
}

func (a *accumulator) add(r models.CommuteRecord) {
	a.count++
	a.people += r.People
	a.crowKm += units.Finite(r.CrowFliesKm)

	if d, ok := r.Car.Duration(); ok {
		a.carN++
		a.carMinutes += d
		a.carKm += units.Finite(r.Car.DistanceKm)
	}
	if d, ok := r.Transit.Duration(); ok {
		a.transitN++
		a.transitMinutes += d
	}
	if r.NoTransitAccess() {
		a.noTransit += r.People
	}
}

func (a *accumulator) summary() Summary {
	s := Summary{
		TotalZipcodes:         a.count,
		TotalPeople:           a.people,
		NoTransitAccessPeople: a.noTransit,
	}
	if a.carN > 0 {
		s.AvgCarMinutes = units.RoundWhole(a.carMinutes / float64(a.carN))
		s.AvgCarMiles = units.RoundTenth(units.MilesFromKm(a.carKm / float64(a.carN)))
	}
	if a.transitN > 0 {
		s.AvgTransitMinutes = units.RoundWhole(a.transitMinutes / float64(a.transitN))
		s.TransitAverageIncluded = true
	}
	if a.count > 0 {
		s.AvgDirectMiles = units.RoundTenth(units.MilesFromKm(a.crowKm / float64(a.count)))
	}
	return s
}

// Summarize reduces the qualifying subset in a single pass.
func Summarize(records []models.CommuteRecord, p models.CommuteParameters) Summary {
	var acc accumulator
	for _, r := range records {
		if Qualifies(r, p) {
			acc.add(r)
		}
	}
	return acc.summary()
}

// Analyze computes the headline and summary for p.
func Analyze(records []models.CommuteRecord, p models.CommuteParameters) Report {
	return Report{
		Parameters: p,
		Headline:   HeadlineStats(records, p),
		Summary:    Summarize(records, p),
	}
}
