package markers

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/stwalsh4118/campusplan/internal/commute"
	"github.com/stwalsh4118/campusplan/internal/models"
	"github.com/stwalsh4118/campusplan/internal/units"
)

const (
	// FadeAfterMinutes is the car time beyond which a marker is drawn faded.
	// It also bounds the initial map viewport.
	FadeAfterMinutes = 90

	MinMarkerSize = 12
	MaxMarkerSize = 24

	ColorWithin  = "#22c55e"
	ColorOutside = "#94a3b8"

	fadedOpacity = 0.3
)

// Stats summarizes the markers placed on the map.
type Stats struct {
	TotalLocations  int `json:"totalLocations"`
	LocationsWithin int `json:"locationsWithin"`
	TotalPeople     int `json:"totalPeople"`
	PeopleWithin    int `json:"peopleWithin"`
}

// Layer is the marker layer handed to the map renderer.
type Layer struct {
	Features *geojson.FeatureCollection
	Stats    Stats
	// Bounds covers markers whose car route is within FadeAfterMinutes.
	// Nil when no such marker exists.
	Bounds *geom.Bounds
}

// MarkerSize scales a marker with the number of people it represents.
func MarkerSize(people int) int {
	return min(MaxMarkerSize, max(MinMarkerSize, MinMarkerSize+2*people))
}

// Build places every located record on the map and flags the ones within
// the current thresholds.
func Build(records []models.CommuteRecord, p models.CommuteParameters) Layer {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(records))}
	bounds := geom.NewBounds(geom.XY)
	var stats Stats
	nearby := 0

	for _, r := range records {
		if !r.HasLocation() {
			continue
		}

		point := geom.NewPointFlat(geom.XY, []float64{r.Longitude, r.Latitude}).SetSRID(4326)
		within := commute.OnMap(r, p)
		near := commute.CarWithinTime(r, FadeAfterMinutes)

		stats.TotalLocations++
		stats.TotalPeople += r.People
		if within {
			stats.LocationsWithin++
			stats.PeopleWithin += r.People
		}
		if near {
			bounds.Extend(point)
			nearby++
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         r.ZCTA,
			Geometry:   point,
			Properties: properties(r, within, near),
		})
	}

	layer := Layer{Features: fc, Stats: stats}
	if nearby > 0 {
		layer.Bounds = bounds
		fc.BBox = bounds
	}
	return layer
}

func properties(r models.CommuteRecord, within, near bool) map[string]interface{} {
	props := map[string]interface{}{
		"zcta":             r.ZCTA,
		"people":           r.People,
		"within_threshold": within,
		"marker_size":      MarkerSize(r.People),
		"faded":            !near,
		"color":            ColorOutside,
		"opacity":          1.0,
		"direct_miles":     units.RoundWhole(units.MilesFromKm(r.CrowFliesKm)),
	}
	if within {
		props["color"] = ColorWithin
	}
	if !near {
		props["opacity"] = fadedOpacity
	}
	if d, ok := r.Car.Duration(); ok {
		props["car_minutes"] = units.RoundWhole(d)
	}
	if km, ok := r.Car.Distance(); ok {
		props["car_miles"] = units.RoundWhole(units.MilesFromKm(km))
	}
	if d, ok := r.Transit.Duration(); ok {
		props["transit_minutes"] = units.RoundWhole(d)
	}
	return props
}
