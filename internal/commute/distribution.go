package commute

import (
	"strconv"

	"github.com/stwalsh4118/campusplan/internal/models"
)

// DistributionBuckets are the travel-time cut-offs of the distribution chart.
var DistributionBuckets = []int{5, 10, 15, 30, 45, 60}

// Bucket is the reachable population at one travel-time cut-off.
type Bucket struct {
	Minutes       int    `json:"minutes"`
	Label         string `json:"label"`
	CarPeople     int    `json:"carPeople"`
	TransitPeople int    `json:"transitPeople"`
}

// Distribution returns cumulative car and transit populations for every
// bucket. Buckets are cumulative, so each one includes the smaller ones.
func Distribution(records []models.CommuteRecord) []Bucket {
	out := make([]Bucket, len(DistributionBuckets))
	for i, m := range DistributionBuckets {
		out[i] = Bucket{Minutes: m, Label: bucketLabel(m)}
	}

	for _, r := range records {
		for i := range out {
			limit := float64(out[i].Minutes)
			if CarWithinTime(r, limit) {
				out[i].CarPeople += r.People
			}
			if TransitWithinTime(r, limit) {
				out[i].TransitPeople += r.People
			}
		}
	}
	return out
}

func bucketLabel(minutes int) string {
	return strconv.Itoa(minutes) + " min"
}
