package space

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stwalsh4118/campusplan/internal/models"
)

// ErrInvalidCatalog is returned when a catalog file fails validation.
var ErrInvalidCatalog = errors.New("invalid space catalog")

// Catalog is the fixed set of space types and category display metadata.
type Catalog struct {
	Types      []models.SpaceTypeDefinition `json:"types" yaml:"types"`
	Categories []models.CategoryInfo        `json:"categories" yaml:"categories"`
	// Quantities seeds the default allocation, keyed by space type id.
	Quantities map[string]int `json:"defaultQuantities" yaml:"default_quantities"`
}

// DefaultCatalog returns the built-in catalog used when no file is configured.
func DefaultCatalog() Catalog {
	return Catalog{
		Types: []models.SpaceTypeDefinition{
			{ID: "workstation", Name: "Workstation", Category: models.CategoryWorkstations, DefaultAreaSF: 50, Color: "hsl(217, 91%, 60%)"},
			{ID: "smallOffice", Name: "Small Office", Category: models.CategoryOffices, DefaultAreaSF: 100, Color: "hsl(142, 76%, 36%)"},
			{ID: "medOffice", Name: "Medium Office", Category: models.CategoryOffices, DefaultAreaSF: 120, Color: "hsl(142, 76%, 46%)"},
			{ID: "largeOffice", Name: "Large Office", Category: models.CategoryOffices, DefaultAreaSF: 150, Color: "hsl(142, 76%, 56%)"},
			{ID: "phoneRoom", Name: "Phone Room", Category: models.CategorySupport, DefaultAreaSF: 75, Color: "hsl(280, 65%, 60%)"},
			{ID: "huddleRoom", Name: "Huddle/Interview Room (2p)", Category: models.CategoryMeeting, DefaultAreaSF: 150, Color: "hsl(47, 96%, 53%)"},
			{ID: "smallMeeting", Name: "Small Meeting Room (6p)", Category: models.CategoryMeeting, DefaultAreaSF: 250, Color: "hsl(47, 96%, 63%)"},
			{ID: "mediumMeeting", Name: "Medium Meeting Room (12p)", Category: models.CategoryMeeting, DefaultAreaSF: 400, Color: "hsl(47, 96%, 73%)"},
			{ID: "largeMeeting", Name: "Large Meeting Room (16p)", Category: models.CategoryMeeting, DefaultAreaSF: 500, Color: "hsl(47, 96%, 83%)"},
			{ID: "collaboration", Name: "Informal Collaboration (6p)", Category: models.CategorySupport, DefaultAreaSF: 300, Color: "hsl(280, 65%, 70%)"},
		},
		Categories: []models.CategoryInfo{
			{Category: models.CategoryWorkstations, Name: "Workstations", Color: "hsl(217, 91%, 60%)"},
			{Category: models.CategoryOffices, Name: "Offices", Color: "hsl(142, 76%, 36%)"},
			{Category: models.CategoryMeeting, Name: "Meeting Rooms", Color: "hsl(47, 96%, 53%)"},
			{Category: models.CategorySupport, Name: "Support Spaces", Color: "hsl(280, 65%, 60%)"},
			{Category: models.CategoryCustom, Name: "Custom Spaces", Color: "hsl(0, 0%, 55%)"},
		},
		Quantities: map[string]int{
			"workstation":   50,
			"smallOffice":   10,
			"medOffice":     8,
			"largeOffice":   5,
			"phoneRoom":     3,
			"huddleRoom":    4,
			"smallMeeting":  3,
			"mediumMeeting": 2,
			"largeMeeting":  1,
			"collaboration": 2,
		},
	}
}

// LoadCatalog reads a YAML catalog file. Categories missing from the file
// fall back to the built-in display metadata.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parsing catalog: %w", err)
	}

	c.fillCategories(DefaultCatalog().Categories)
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks ids are unique and every type has a known category and a
// positive default area.
func (c Catalog) Validate() error {
	if len(c.Types) == 0 {
		return fmt.Errorf("%w: no space types", ErrInvalidCatalog)
	}

	seen := make(map[string]bool, len(c.Types))
	for _, t := range c.Types {
		switch {
		case t.ID == "":
			return fmt.Errorf("%w: space type %q has no id", ErrInvalidCatalog, t.Name)
		case seen[t.ID]:
			return fmt.Errorf("%w: duplicate space type id %q", ErrInvalidCatalog, t.ID)
		case !t.Category.Valid() || t.Category == models.CategoryCustom:
			return fmt.Errorf("%w: space type %q has unknown category %q", ErrInvalidCatalog, t.ID, t.Category)
		case t.DefaultAreaSF < 1:
			return fmt.Errorf("%w: space type %q must have a positive default area", ErrInvalidCatalog, t.ID)
		case t.DefaultAreaSF > models.MaxAreaPerUnitSF:
			return fmt.Errorf("%w: space type %q default area exceeds %d SF", ErrInvalidCatalog, t.ID, models.MaxAreaPerUnitSF)
		}
		seen[t.ID] = true
	}

	for id, q := range c.Quantities {
		if !seen[id] {
			return fmt.Errorf("%w: default quantity for unknown space type %q", ErrInvalidCatalog, id)
		}
		if q < models.MinQuantity || q > models.MaxQuantity {
			return fmt.Errorf("%w: default quantity for %q out of range", ErrInvalidCatalog, id)
		}
	}
	return nil
}

// Type looks up a space type by id.
func (c Catalog) Type(id string) (models.SpaceTypeDefinition, bool) {
	for _, t := range c.Types {
		if t.ID == id {
			return t, true
		}
	}
	return models.SpaceTypeDefinition{}, false
}

// Category returns the display metadata for a category.
func (c Catalog) Category(cat models.SpaceCategory) models.CategoryInfo {
	for _, info := range c.Categories {
		if info.Category == cat {
			return info
		}
	}
	return models.CategoryInfo{Category: cat, Name: string(cat)}
}

// DefaultAllocation returns the catalog's starting allocation.
func (c Catalog) DefaultAllocation() models.SpaceAllocation {
	a := models.SpaceAllocation{
		Entries: make(map[string]models.AllocationEntry, len(c.Types)),
		Custom:  []models.CustomSpace{},
	}
	for _, t := range c.Types {
		a.Entries[t.ID] = models.AllocationEntry{Quantity: c.Quantities[t.ID]}
	}
	return a
}

func (c *Catalog) fillCategories(defaults []models.CategoryInfo) {
	have := make(map[models.SpaceCategory]bool, len(c.Categories))
	for _, info := range c.Categories {
		have[info.Category] = true
	}
	for _, info := range defaults {
		if !have[info.Category] {
			c.Categories = append(c.Categories, info)
		}
	}
}
