package space

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/stwalsh4118/campusplan/internal/models"
)

var (
	// ErrUnknownSpaceType is returned when an edit names a type the catalog lacks.
	ErrUnknownSpaceType = errors.New("unknown space type")
	// ErrUnknownCustomSpace is returned when removing a custom entry that does not exist.
	ErrUnknownCustomSpace = errors.New("unknown custom space")
	// ErrInvalidEdit is returned for malformed edits.
	ErrInvalidEdit = errors.New("invalid allocation edit")
)

// EditOp names an allocation transition.
type EditOp string

const (
	OpSetQuantity  EditOp = "set_quantity"
	OpSetArea      EditOp = "set_area"
	OpAddCustom    EditOp = "add_custom"
	OpRemoveCustom EditOp = "remove_custom"
)

// Edit is one planner interaction. Only the fields relevant to Op are read.
type Edit struct {
	Op       EditOp `json:"op" binding:"required,oneof=set_quantity set_area add_custom remove_custom"`
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	AreaSF   int    `json:"areaSf,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

// WithQuantity returns a copy of a with the quantity for a catalog type or a
// custom entry replaced. Quantities are clamped to the allowed range.
func WithQuantity(c Catalog, a models.SpaceAllocation, id string, quantity int) (models.SpaceAllocation, error) {
	quantity = clampQuantity(quantity)
	out := a.Clone()

	if _, ok := c.Type(id); ok {
		e := out.Entries[id]
		e.Quantity = quantity
		out.Entries[id] = e
		return out, nil
	}

	for i := range out.Custom {
		if out.Custom[i].ID == id {
			out.Custom[i].Quantity = quantity
			return out, nil
		}
	}
	return a, fmt.Errorf("%w: %q", ErrUnknownSpaceType, id)
}

// WithAreaOverride returns a copy of a with the area per unit for id
// replaced. Non-positive areas are ignored and a is returned unchanged;
// areas above models.MaxAreaPerUnitSF are rejected.
func WithAreaOverride(c Catalog, a models.SpaceAllocation, id string, areaSF int) (models.SpaceAllocation, error) {
	_, isType := c.Type(id)
	if !isType && customIndex(a, id) < 0 {
		return a, fmt.Errorf("%w: %q", ErrUnknownSpaceType, id)
	}
	if areaSF <= 0 {
		return a, nil
	}
	if areaSF > models.MaxAreaPerUnitSF {
		return a, fmt.Errorf("%w: area %d SF exceeds %d SF per unit", ErrInvalidEdit, areaSF, models.MaxAreaPerUnitSF)
	}

	out := a.Clone()
	if isType {
		e := out.Entries[id]
		e.AreaOverrideSF = areaSF
		out.Entries[id] = e
		return out, nil
	}
	out.Custom[customIndex(out, id)].AreaSF = areaSF
	return out, nil
}

// AddCustom appends a custom entry with a generated id.
func AddCustom(a models.SpaceAllocation, name string, areaSF, quantity int) (models.SpaceAllocation, models.CustomSpace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return a, models.CustomSpace{}, fmt.Errorf("%w: custom space needs a name", ErrInvalidEdit)
	}
	if areaSF < 1 {
		return a, models.CustomSpace{}, fmt.Errorf("%w: custom space area must be positive", ErrInvalidEdit)
	}
	if areaSF > models.MaxAreaPerUnitSF {
		return a, models.CustomSpace{}, fmt.Errorf("%w: custom space area %d SF exceeds %d SF", ErrInvalidEdit, areaSF, models.MaxAreaPerUnitSF)
	}

	entry := models.CustomSpace{
		ID:       "custom-" + uuid.New().String(),
		Name:     name,
		AreaSF:   areaSF,
		Quantity: clampQuantity(quantity),
	}
	out := a.Clone()
	out.Custom = append(out.Custom, entry)
	return out, entry, nil
}

// RemoveCustom drops the custom entry with the given id.
func RemoveCustom(a models.SpaceAllocation, id string) (models.SpaceAllocation, error) {
	idx := customIndex(a, id)
	if idx < 0 {
		return a, fmt.Errorf("%w: %q", ErrUnknownCustomSpace, id)
	}

	out := a.Clone()
	out.Custom = append(out.Custom[:idx], out.Custom[idx+1:]...)
	return out, nil
}

// Apply runs edits in order. The first failing edit aborts and a is
// returned untouched.
func Apply(c Catalog, a models.SpaceAllocation, edits []Edit) (models.SpaceAllocation, error) {
	cur := a
	for i, e := range edits {
		var err error
		switch e.Op {
		case OpSetQuantity:
			cur, err = WithQuantity(c, cur, e.ID, e.Quantity)
		case OpSetArea:
			cur, err = WithAreaOverride(c, cur, e.ID, e.AreaSF)
		case OpAddCustom:
			cur, _, err = AddCustom(cur, e.Name, e.AreaSF, e.Quantity)
		case OpRemoveCustom:
			cur, err = RemoveCustom(cur, e.ID)
		default:
			err = fmt.Errorf("%w: unknown op %q", ErrInvalidEdit, e.Op)
		}
		if err != nil {
			return a, fmt.Errorf("edit %d: %w", i, err)
		}
	}
	return cur, nil
}

func customIndex(a models.SpaceAllocation, id string) int {
	for i, c := range a.Custom {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func clampQuantity(q int) int {
	return min(models.MaxQuantity, max(models.MinQuantity, q))
}
