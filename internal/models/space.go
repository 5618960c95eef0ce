package models

// SpaceCategory groups space types for subtotals and charts.
type SpaceCategory string

const (
	CategoryWorkstations SpaceCategory = "workstations"
	CategoryOffices      SpaceCategory = "offices"
	CategoryMeeting      SpaceCategory = "meeting"
	CategorySupport      SpaceCategory = "support"
	// CategoryCustom holds ad-hoc entries added by the planner.
	CategoryCustom SpaceCategory = "custom"
)

// Categories lists every category in display order.
var Categories = []SpaceCategory{
	CategoryWorkstations,
	CategoryOffices,
	CategoryMeeting,
	CategorySupport,
	CategoryCustom,
}

// Valid reports whether c is one of the fixed categories.
func (c SpaceCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// SpaceTypeDefinition describes one entry of the space-type catalog.
type SpaceTypeDefinition struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Category      SpaceCategory `json:"category" yaml:"category"`
	Color         string        `json:"color" yaml:"color"`
	DefaultAreaSF int           `json:"defaultAreaSf" yaml:"default_area_sf"`
}

// CategoryInfo carries display metadata for a category.
type CategoryInfo struct {
	Category SpaceCategory `json:"category" yaml:"category"`
	Name     string        `json:"name" yaml:"name"`
	Color    string        `json:"color" yaml:"color"`
}

// AllocationEntry is the planner's input for one catalog space type.
// AreaOverrideSF of zero means the catalog default applies.
type AllocationEntry struct {
	AreaOverrideSF int `json:"areaOverrideSf" binding:"gte=0,lte=100000"`
	Quantity       int `json:"quantity" binding:"gte=0,lte=100"`
}

// CustomSpace is an ad-hoc space that is not part of the catalog.
type CustomSpace struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	AreaSF   int    `json:"areaSf" binding:"gte=1,lte=100000"`
	Quantity int    `json:"quantity" binding:"gte=0,lte=100"`
}

// SpaceAllocation is the planner's full allocation: per-type overrides and
// quantities keyed by space type id, plus custom entries in insertion order.
type SpaceAllocation struct {
	Entries map[string]AllocationEntry `json:"entries" binding:"dive"`
	Custom  []CustomSpace              `json:"custom" binding:"dive"`
}

// Clone returns a deep copy so edits never alias the original.
func (a SpaceAllocation) Clone() SpaceAllocation {
	out := SpaceAllocation{
		Entries: make(map[string]AllocationEntry, len(a.Entries)),
		Custom:  make([]CustomSpace, len(a.Custom)),
	}
	for id, e := range a.Entries {
		out.Entries[id] = e
	}
	copy(out.Custom, a.Custom)
	return out
}

// Building parameter bounds, matching the dashboard controls.
const (
	MinFloorGSF          = 5000
	MaxFloorGSF          = 50000
	MinFloors            = 1
	MaxFloors            = 50
	MinEfficiencyPercent = 60
	MaxEfficiencyPercent = 95
	MinQuantity          = 0
	MaxQuantity          = 100
	MaxAreaPerUnitSF     = 100000

	DefaultFloorGSF          = 20000
	DefaultFloorCount        = 4
	DefaultEfficiencyPercent = 85
)

// BuildingParameters describes the floors available for allocation.
type BuildingParameters struct {
	FloorsGSF         []int `json:"floorsGsf" binding:"required,min=1,max=50,dive,gte=5000,lte=50000"`
	EfficiencyPercent int   `json:"efficiencyPercent" binding:"required,gte=60,lte=95"`
}

// DefaultBuildingParameters returns the four-floor administration building.
func DefaultBuildingParameters() BuildingParameters {
	floors := make([]int, DefaultFloorCount)
	for i := range floors {
		floors[i] = DefaultFloorGSF
	}
	return BuildingParameters{
		FloorsGSF:         floors,
		EfficiencyPercent: DefaultEfficiencyPercent,
	}
}
