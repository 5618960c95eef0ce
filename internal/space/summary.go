package space

import (
	"errors"
	"fmt"
	"math"

	"github.com/stwalsh4118/campusplan/internal/models"
)

var (
	// ErrInvalidBuilding is returned when building parameters are out of range.
	ErrInvalidBuilding = errors.New("invalid building parameters")

	// ErrInvalidAllocation is returned when an allocation carries an area or
	// quantity outside the planner's bounds.
	ErrInvalidAllocation = errors.New("invalid space allocation")
)

// LineItem is one catalog type or custom entry with its resolved area.
type LineItem struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Category      models.SpaceCategory `json:"category"`
	Color         string               `json:"color,omitempty"`
	AreaPerUnitSF int                  `json:"areaPerUnitSf"`
	Quantity      int                  `json:"quantity"`
	TotalSF       int                  `json:"totalSf"`
	Custom        bool                 `json:"custom"`
}

// CategoryTotal is the subtotal for one category.
type CategoryTotal struct {
	Category models.SpaceCategory `json:"category"`
	Name     string               `json:"name"`
	Color    string               `json:"color"`
	Count    int                  `json:"count"`
	AreaSF   int                  `json:"areaSf"`
}

// ChartRow is a bar of the per-type chart.
type ChartRow struct {
	Name   string `json:"name"`
	AreaSF int    `json:"areaSf"`
	Color  string `json:"color"`
}

// Summary is the space dashboard's derived state for one building and
// allocation. Over capacity is a flag, not an error.
type Summary struct {
	TotalGSF           int             `json:"totalGsf"`
	EfficiencyPercent  int             `json:"efficiencyPercent"`
	AssignableSF       int             `json:"assignableSf"`
	UsedSF             int             `json:"usedSf"`
	RemainingSF        int             `json:"remainingSf"`
	UtilizationPercent float64         `json:"utilizationPercent"`
	OverCapacity       bool            `json:"overCapacity"`
	OverBySF           int             `json:"overBySf"`
	Items              []LineItem      `json:"items"`
	Categories         []CategoryTotal `json:"categories"`
	TypeChart          []ChartRow      `json:"typeChart"`
}

// ValidateBuilding checks the floor list and efficiency against the planner's bounds.
func ValidateBuilding(b models.BuildingParameters) error {
	if n := len(b.FloorsGSF); n < models.MinFloors || n > models.MaxFloors {
		return fmt.Errorf("%w: floor count %d outside %d-%d", ErrInvalidBuilding, n, models.MinFloors, models.MaxFloors)
	}
	for i, gsf := range b.FloorsGSF {
		if gsf < models.MinFloorGSF || gsf > models.MaxFloorGSF {
			return fmt.Errorf("%w: floor %d area %d outside %d-%d", ErrInvalidBuilding, i+1, gsf, models.MinFloorGSF, models.MaxFloorGSF)
		}
	}
	if b.EfficiencyPercent < models.MinEfficiencyPercent || b.EfficiencyPercent > models.MaxEfficiencyPercent {
		return fmt.Errorf("%w: efficiency %d%% outside %d-%d", ErrInvalidBuilding, b.EfficiencyPercent, models.MinEfficiencyPercent, models.MaxEfficiencyPercent)
	}
	return nil
}

// ValidateAllocation bounds every area and quantity so line totals stay far
// from int overflow.
func ValidateAllocation(a models.SpaceAllocation) error {
	for id, e := range a.Entries {
		if e.AreaOverrideSF < 0 || e.AreaOverrideSF > models.MaxAreaPerUnitSF {
			return fmt.Errorf("%w: %q area override %d outside 0-%d", ErrInvalidAllocation, id, e.AreaOverrideSF, models.MaxAreaPerUnitSF)
		}
		if e.Quantity < models.MinQuantity || e.Quantity > models.MaxQuantity {
			return fmt.Errorf("%w: %q quantity %d outside %d-%d", ErrInvalidAllocation, id, e.Quantity, models.MinQuantity, models.MaxQuantity)
		}
	}
	for _, cs := range a.Custom {
		if cs.AreaSF < 1 || cs.AreaSF > models.MaxAreaPerUnitSF {
			return fmt.Errorf("%w: custom %q area %d outside 1-%d", ErrInvalidAllocation, cs.ID, cs.AreaSF, models.MaxAreaPerUnitSF)
		}
		if cs.Quantity < models.MinQuantity || cs.Quantity > models.MaxQuantity {
			return fmt.Errorf("%w: custom %q quantity %d outside %d-%d", ErrInvalidAllocation, cs.ID, cs.Quantity, models.MinQuantity, models.MaxQuantity)
		}
	}
	return nil
}

// AssignableSF is the usable area after the efficiency deduction.
func AssignableSF(b models.BuildingParameters) (totalGSF, assignable int) {
	for _, gsf := range b.FloorsGSF {
		totalGSF += gsf
	}
	return totalGSF, int(math.Round(float64(totalGSF) * float64(b.EfficiencyPercent) / 100))
}

// Summarize resolves every line item and reduces them into totals.
func Summarize(c Catalog, b models.BuildingParameters, a models.SpaceAllocation) (Summary, error) {
	if err := ValidateBuilding(b); err != nil {
		return Summary{}, err
	}
	if err := ValidateAllocation(a); err != nil {
		return Summary{}, err
	}

	items := lineItems(c, a)

	totals := make(map[models.SpaceCategory]*CategoryTotal, len(models.Categories))
	cats := make([]CategoryTotal, 0, len(models.Categories))
	for _, cat := range models.Categories {
		info := c.Category(cat)
		cats = append(cats, CategoryTotal{Category: cat, Name: info.Name, Color: info.Color})
	}
	for i := range cats {
		totals[cats[i].Category] = &cats[i]
	}

	used := 0
	chart := make([]ChartRow, 0, len(items))
	for _, it := range items {
		used += it.TotalSF
		if t, ok := totals[it.Category]; ok {
			t.Count += it.Quantity
			t.AreaSF += it.TotalSF
		}
		if !it.Custom && it.TotalSF > 0 {
			chart = append(chart, ChartRow{Name: it.Name, AreaSF: it.TotalSF, Color: it.Color})
		}
	}

	totalGSF, assignable := AssignableSF(b)
	s := Summary{
		TotalGSF:          totalGSF,
		EfficiencyPercent: b.EfficiencyPercent,
		AssignableSF:      assignable,
		UsedSF:            used,
		RemainingSF:       assignable - used,
		OverCapacity:      used > assignable,
		Items:             items,
		Categories:        cats,
		TypeChart:         chart,
	}
	if assignable > 0 {
		s.UtilizationPercent = float64(used) / float64(assignable) * 100
	}
	if s.OverCapacity {
		s.OverBySF = used - assignable
	}
	return s, nil
}

func lineItems(c Catalog, a models.SpaceAllocation) []LineItem {
	items := make([]LineItem, 0, len(c.Types)+len(a.Custom))
	for _, t := range c.Types {
		e := a.Entries[t.ID]
		area := t.DefaultAreaSF
		if e.AreaOverrideSF > 0 {
			area = e.AreaOverrideSF
		}
		items = append(items, LineItem{
			ID:            t.ID,
			Name:          t.Name,
			Category:      t.Category,
			Color:         t.Color,
			AreaPerUnitSF: area,
			Quantity:      e.Quantity,
			TotalSF:       area * e.Quantity,
		})
	}
	for _, cs := range a.Custom {
		items = append(items, LineItem{
			ID:            cs.ID,
			Name:          cs.Name,
			Category:      models.CategoryCustom,
			AreaPerUnitSF: cs.AreaSF,
			Quantity:      cs.Quantity,
			TotalSF:       cs.AreaSF * cs.Quantity,
			Custom:        true,
		})
	}
	return items
}
