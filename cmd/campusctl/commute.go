package main

import (
	"context"
	"fmt"
	"io"

	"github.com/stwalsh4118/campusplan/internal/commute"
	"github.com/stwalsh4118/campusplan/internal/models"
	"github.com/stwalsh4118/campusplan/internal/repository"
	"github.com/stwalsh4118/campusplan/internal/services"
)

type commuteReport struct {
	Dataset      string           `json:"dataset"`
	Records      int              `json:"records"`
	Report       commute.Report   `json:"report"`
	Distribution []commute.Bucket `json:"distribution"`
}

func commuteParameters(mode string, threshold float64) models.CommuteParameters {
	p := models.DefaultCommuteParameters()
	p.Mode = models.ThresholdMode(mode)
	if threshold >= 0 {
		switch p.Mode {
		case models.ModeDistance:
			p.DistanceThresholdMiles = threshold
		default:
			p.TimeThresholdMinutes = threshold
		}
	}
	return p
}

func runCommute(w io.Writer, path, mode string, threshold float64, asJSON bool) error {
	params := commuteParameters(mode, threshold)
	if err := services.ValidateParameters(params); err != nil {
		return err
	}

	src := repository.NewFileSource(path)
	records, err := src.Load(context.Background())
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	out := commuteReport{
		Dataset:      src.Name(),
		Records:      len(records),
		Report:       commute.Analyze(records, params),
		Distribution: commute.Distribution(records),
	}
	if asJSON {
		return writeJSON(w, out)
	}
	return printCommute(w, out)
}

func printCommute(w io.Writer, r commuteReport) error {
	p := r.Report.Parameters
	h := r.Report.Headline
	s := r.Report.Summary

	fmt.Fprintf(w, "Dataset: %s (%d ZIP codes)\n", r.Dataset, r.Records)

	tw := newTable(w)
	if p.Mode == models.ModeDistance {
		fmt.Fprintf(w, "Threshold: %g miles\n\n", p.DistanceThresholdMiles)
		fmt.Fprintf(tw, "Within distance (direct)\t%d people\n", h.CrowFliesPeople)
		fmt.Fprintf(tw, "Within distance (car)\t%d people\n", h.CarPeople)
	} else {
		fmt.Fprintf(w, "Threshold: %g minutes\n\n", p.TimeThresholdMinutes)
		fmt.Fprintf(tw, "Within time by car\t%d people\n", h.CarPeople)
		fmt.Fprintf(tw, "Within time by transit\t%d people\n", h.TransitPeople)
		fmt.Fprintf(tw, "No transit access\t%d people\n", h.NoTransitAccessPeople)
	}
	fmt.Fprintf(tw, "Qualifying ZIP codes\t%d\n", s.TotalZipcodes)
	fmt.Fprintf(tw, "Qualifying people\t%d\n", s.TotalPeople)
	fmt.Fprintf(tw, "Avg car time\t%d min\n", s.AvgCarMinutes)
	fmt.Fprintf(tw, "Avg car distance\t%.1f mi\n", s.AvgCarMiles)
	if s.TransitAverageIncluded {
		fmt.Fprintf(tw, "Avg transit time\t%d min\n", s.AvgTransitMinutes)
	}
	fmt.Fprintf(tw, "Avg direct distance\t%.1f mi\n", s.AvgDirectMiles)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "Within\tCar\tTransit")
	for _, b := range r.Distribution {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", b.Label, b.CarPeople, b.TransitPeople)
	}
	return tw.Flush()
}
