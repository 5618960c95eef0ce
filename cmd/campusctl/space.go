package main

import (
	"fmt"
	"io"

	"github.com/stwalsh4118/campusplan/internal/models"
	"github.com/stwalsh4118/campusplan/internal/space"
)

func defaultBuilding() models.BuildingParameters {
	return models.DefaultBuildingParameters()
}

func runSpace(w io.Writer, floors []int, efficiency int, catalogPath string, asJSON bool) error {
	catalog := space.DefaultCatalog()
	if catalogPath != "" {
		var err error
		if catalog, err = space.LoadCatalog(catalogPath); err != nil {
			return err
		}
	}

	building := models.BuildingParameters{FloorsGSF: floors, EfficiencyPercent: efficiency}
	summary, err := space.Summarize(catalog, building, catalog.DefaultAllocation())
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, summary)
	}
	return printSpace(w, summary)
}

func printSpace(w io.Writer, s space.Summary) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Total GSF\t%s\n", formatSF(s.TotalGSF))
	fmt.Fprintf(tw, "Efficiency\t%d%%\n", s.EfficiencyPercent)
	fmt.Fprintf(tw, "Assignable\t%s\n", formatSF(s.AssignableSF))
	fmt.Fprintf(tw, "Used\t%s\n", formatSF(s.UsedSF))
	fmt.Fprintf(tw, "Remaining\t%s\n", formatSF(s.RemainingSF))
	fmt.Fprintf(tw, "Utilization\t%.1f%%\n", s.UtilizationPercent)
	if err := tw.Flush(); err != nil {
		return err
	}
	if s.OverCapacity {
		fmt.Fprintf(stderr, "warning: program exceeds assignable area by %s\n", formatSF(s.OverBySF))
	}

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "Category\tCount\tArea")
	for _, c := range s.Categories {
		if c.Count == 0 && c.AreaSF == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name, c.Count, formatSF(c.AreaSF))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "Space\tQty\tSF/unit\tTotal")
	for _, it := range s.Items {
		if it.Quantity == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", it.Name, it.Quantity, it.AreaPerUnitSF, formatSF(it.TotalSF))
	}
	return tw.Flush()
}
