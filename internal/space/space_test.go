package space

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/campusplan/internal/models"
)

func building(floors, gsf, efficiency int) models.BuildingParameters {
	b := models.BuildingParameters{EfficiencyPercent: efficiency}
	for i := 0; i < floors; i++ {
		b.FloorsGSF = append(b.FloorsGSF, gsf)
	}
	return b
}

func emptyAllocation(c Catalog) models.SpaceAllocation {
	a := c.DefaultAllocation()
	for id := range a.Entries {
		a.Entries[id] = models.AllocationEntry{}
	}
	return a
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	require.NoError(t, c.Validate())
	assert.Len(t, c.Types, 10)

	ws, ok := c.Type("workstation")
	require.True(t, ok)
	assert.Equal(t, 50, ws.DefaultAreaSF)
	assert.Equal(t, models.CategoryWorkstations, ws.Category)

	assert.Equal(t, "Meeting Rooms", c.Category(models.CategoryMeeting).Name)
	_, ok = c.Type("ballroom")
	assert.False(t, ok)
}

func TestSummarize_TenFloorScenario(t *testing.T) {
	c := DefaultCatalog()
	a := emptyAllocation(c)
	a, err := WithQuantity(c, a, "workstation", 50)
	require.NoError(t, err)

	s, err := Summarize(c, building(10, 20000, 85), a)
	require.NoError(t, err)

	assert.Equal(t, 200000, s.TotalGSF)
	assert.Equal(t, 170000, s.AssignableSF)
	assert.Equal(t, 2500, s.UsedSF)
	assert.Equal(t, 167500, s.RemainingSF)
	assert.False(t, s.OverCapacity)
	assert.Zero(t, s.OverBySF)
	assert.InDelta(t, 1.4706, s.UtilizationPercent, 1e-4)

	require.Len(t, s.TypeChart, 1, "zero-area types are left off the chart")
	assert.Equal(t, ChartRow{Name: "Workstation", AreaSF: 2500, Color: "hsl(217, 91%, 60%)"}, s.TypeChart[0])
}

func TestSummarize_DefaultScenario(t *testing.T) {
	c := DefaultCatalog()
	s, err := Summarize(c, models.DefaultBuildingParameters(), c.DefaultAllocation())
	require.NoError(t, err)

	assert.Equal(t, 80000, s.TotalGSF)
	assert.Equal(t, 68000, s.AssignableSF)
	assert.Equal(t, 8685, s.UsedSF)
	assert.Equal(t, 59315, s.RemainingSF)
	assert.Len(t, s.TypeChart, 10)

	byCat := map[models.SpaceCategory]CategoryTotal{}
	for _, ct := range s.Categories {
		byCat[ct.Category] = ct
	}
	assert.Equal(t, CategoryTotal{Category: models.CategoryWorkstations, Name: "Workstations", Color: "hsl(217, 91%, 60%)", Count: 50, AreaSF: 2500}, byCat[models.CategoryWorkstations])
	assert.Equal(t, 23, byCat[models.CategoryOffices].Count)
	assert.Equal(t, 2710, byCat[models.CategoryOffices].AreaSF)
	assert.Equal(t, 2650, byCat[models.CategoryMeeting].AreaSF)
	assert.Equal(t, 825, byCat[models.CategorySupport].AreaSF)
	assert.Zero(t, byCat[models.CategoryCustom].AreaSF)
}

func TestSummarize_OverCapacityIsAFlag(t *testing.T) {
	c := DefaultCatalog()
	a, err := WithQuantity(c, emptyAllocation(c), "largeMeeting", 100)
	require.NoError(t, err)
	a, err = WithAreaOverride(c, a, "largeMeeting", 100)
	require.NoError(t, err)

	// one 5,000 GSF floor at 60% gives 3,000 assignable
	s, err := Summarize(c, building(1, 5000, 60), a)
	require.NoError(t, err)

	assert.Equal(t, 3000, s.AssignableSF)
	assert.Equal(t, 10000, s.UsedSF)
	assert.True(t, s.OverCapacity)
	assert.Equal(t, 7000, s.OverBySF)
	assert.Equal(t, -7000, s.RemainingSF)
}

func TestSummarize_AssignableRounds(t *testing.T) {
	c := DefaultCatalog()
	// 5,001 * 0.61 = 3050.61
	s, err := Summarize(c, building(1, 5001, 61), emptyAllocation(c))
	require.NoError(t, err)
	assert.Equal(t, 3051, s.AssignableSF)
}

func TestSummarize_CategorySubtotalsSumToTotal(t *testing.T) {
	c := DefaultCatalog()
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		a := emptyAllocation(c)
		var err error
		for _, typ := range c.Types {
			a, err = WithQuantity(c, a, typ.ID, rng.Intn(101))
			require.NoError(t, err)
			if rng.Intn(2) == 0 {
				a, err = WithAreaOverride(c, a, typ.ID, 1+rng.Intn(1000))
				require.NoError(t, err)
			}
		}
		for i := 0; i < rng.Intn(4); i++ {
			a, _, err = AddCustom(a, "Lab", 1+rng.Intn(2000), rng.Intn(101))
			require.NoError(t, err)
		}

		s, err := Summarize(c, building(1+rng.Intn(50), 5000+rng.Intn(45001), 60+rng.Intn(36)), a)
		require.NoError(t, err)

		sum := 0
		for _, ct := range s.Categories {
			sum += ct.AreaSF
		}
		require.Equal(t, s.UsedSF, sum, "iteration %d", iter)
	}
}

func TestSummarize_CustomEntriesCountUnderCustom(t *testing.T) {
	c := DefaultCatalog()
	a, entry, err := AddCustom(emptyAllocation(c), "Wellness Room", 120, 2)
	require.NoError(t, err)

	s, err := Summarize(c, models.DefaultBuildingParameters(), a)
	require.NoError(t, err)

	assert.Equal(t, 240, s.UsedSF)
	last := s.Items[len(s.Items)-1]
	assert.Equal(t, entry.ID, last.ID)
	assert.True(t, last.Custom)
	assert.Equal(t, models.CategoryCustom, last.Category)
	assert.Empty(t, s.TypeChart, "custom entries are not charted per type")
}

func TestValidateBuilding(t *testing.T) {
	tests := []struct {
		name     string
		building models.BuildingParameters
		wantErr  bool
	}{
		{name: "default", building: models.DefaultBuildingParameters()},
		{name: "no floors", building: models.BuildingParameters{EfficiencyPercent: 85}, wantErr: true},
		{name: "too many floors", building: building(51, 20000, 85), wantErr: true},
		{name: "floor too small", building: building(2, 4999, 85), wantErr: true},
		{name: "floor too large", building: building(2, 50001, 85), wantErr: true},
		{name: "efficiency too low", building: building(2, 20000, 59), wantErr: true},
		{name: "efficiency too high", building: building(2, 20000, 96), wantErr: true},
		{name: "bounds inclusive", building: building(50, 50000, 95)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBuilding(tt.building)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBuilding)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWithQuantity(t *testing.T) {
	c := DefaultCatalog()
	orig := c.DefaultAllocation()

	next, err := WithQuantity(c, orig, "phoneRoom", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, next.Entries["phoneRoom"].Quantity)
	assert.Equal(t, 3, orig.Entries["phoneRoom"].Quantity, "original is not mutated")

	next, err = WithQuantity(c, orig, "phoneRoom", 250)
	require.NoError(t, err)
	assert.Equal(t, models.MaxQuantity, next.Entries["phoneRoom"].Quantity)

	next, err = WithQuantity(c, orig, "phoneRoom", -1)
	require.NoError(t, err)
	assert.Zero(t, next.Entries["phoneRoom"].Quantity)

	_, err = WithQuantity(c, orig, "ballroom", 1)
	assert.ErrorIs(t, err, ErrUnknownSpaceType)
}

func TestWithQuantity_CustomEntry(t *testing.T) {
	c := DefaultCatalog()
	a, entry, err := AddCustom(c.DefaultAllocation(), "Lab", 300, 1)
	require.NoError(t, err)

	a, err = WithQuantity(c, a, entry.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, a.Custom[0].Quantity)
}

func TestWithAreaOverride(t *testing.T) {
	c := DefaultCatalog()
	orig := c.DefaultAllocation()

	next, err := WithAreaOverride(c, orig, "medOffice", 140)
	require.NoError(t, err)
	assert.Equal(t, 140, next.Entries["medOffice"].AreaOverrideSF)
	assert.Equal(t, 8, next.Entries["medOffice"].Quantity, "quantity kept")
	assert.Zero(t, orig.Entries["medOffice"].AreaOverrideSF)

	ignored, err := WithAreaOverride(c, next, "medOffice", 0)
	require.NoError(t, err)
	assert.Equal(t, 140, ignored.Entries["medOffice"].AreaOverrideSF, "non-positive override is ignored")

	_, err = WithAreaOverride(c, orig, "ballroom", 10)
	assert.ErrorIs(t, err, ErrUnknownSpaceType)

	capped, err := WithAreaOverride(c, next, "medOffice", models.MaxAreaPerUnitSF)
	require.NoError(t, err)
	assert.Equal(t, models.MaxAreaPerUnitSF, capped.Entries["medOffice"].AreaOverrideSF)

	rejected, err := WithAreaOverride(c, next, "medOffice", models.MaxAreaPerUnitSF+1)
	assert.ErrorIs(t, err, ErrInvalidEdit)
	assert.Equal(t, 140, rejected.Entries["medOffice"].AreaOverrideSF, "allocation unchanged on error")
}

func TestAddAndRemoveCustom(t *testing.T) {
	c := DefaultCatalog()
	a := c.DefaultAllocation()

	a1, first, err := AddCustom(a, "  Mother's Room ", 80, 1)
	require.NoError(t, err)
	a2, second, err := AddCustom(a1, "Storage", 200, 3)
	require.NoError(t, err)

	assert.Equal(t, "Mother's Room", first.Name)
	assert.True(t, strings.HasPrefix(first.ID, "custom-"))
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, a2.Custom, 2)
	assert.Empty(t, a.Custom)

	a3, err := RemoveCustom(a2, first.ID)
	require.NoError(t, err)
	require.Len(t, a3.Custom, 1)
	assert.Equal(t, second.ID, a3.Custom[0].ID)
	assert.Len(t, a2.Custom, 2, "original keeps both entries")

	_, err = RemoveCustom(a3, first.ID)
	assert.ErrorIs(t, err, ErrUnknownCustomSpace)
}

func TestAddCustom_Invalid(t *testing.T) {
	a := DefaultCatalog().DefaultAllocation()

	_, _, err := AddCustom(a, " ", 100, 1)
	assert.ErrorIs(t, err, ErrInvalidEdit)

	_, _, err = AddCustom(a, "Lab", 0, 1)
	assert.ErrorIs(t, err, ErrInvalidEdit)

	_, _, err = AddCustom(a, "Lab", 184467440737095517, 100)
	assert.ErrorIs(t, err, ErrInvalidEdit)
}

func TestSummarize_RejectsOutOfRangeAllocation(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		name   string
		mutate func(a *models.SpaceAllocation)
	}{
		{
			name: "area override too large",
			mutate: func(a *models.SpaceAllocation) {
				a.Entries["workstation"] = models.AllocationEntry{AreaOverrideSF: 184467440737095517, Quantity: 50}
			},
		},
		{
			name: "negative quantity",
			mutate: func(a *models.SpaceAllocation) {
				a.Entries["workstation"] = models.AllocationEntry{Quantity: -1}
			},
		},
		{
			name: "custom area too large",
			mutate: func(a *models.SpaceAllocation) {
				a.Custom = append(a.Custom, models.CustomSpace{ID: "c1", Name: "Hangar", AreaSF: models.MaxAreaPerUnitSF + 1, Quantity: 1})
			},
		},
		{
			name: "custom quantity too large",
			mutate: func(a *models.SpaceAllocation) {
				a.Custom = append(a.Custom, models.CustomSpace{ID: "c1", Name: "Lab", AreaSF: 100, Quantity: 101})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := c.DefaultAllocation()
			tt.mutate(&a)

			_, err := Summarize(c, models.DefaultBuildingParameters(), a)
			assert.ErrorIs(t, err, ErrInvalidAllocation)
		})
	}
}

func TestSummarize_BoundedInputsStayOverCapacity(t *testing.T) {
	c := DefaultCatalog()
	a := c.DefaultAllocation()
	for _, typ := range c.Types {
		a.Entries[typ.ID] = models.AllocationEntry{AreaOverrideSF: models.MaxAreaPerUnitSF, Quantity: models.MaxQuantity}
	}

	s, err := Summarize(c, building(1, 5000, 60), a)
	require.NoError(t, err)

	assert.Equal(t, len(c.Types)*models.MaxAreaPerUnitSF*models.MaxQuantity, s.UsedSF)
	assert.True(t, s.OverCapacity)
	assert.Positive(t, s.OverBySF)
}

func TestApply(t *testing.T) {
	c := DefaultCatalog()
	a := c.DefaultAllocation()

	out, err := Apply(c, a, []Edit{
		{Op: OpSetQuantity, ID: "workstation", Quantity: 60},
		{Op: OpSetArea, ID: "workstation", AreaSF: 48},
		{Op: OpAddCustom, Name: "Lab", AreaSF: 400, Quantity: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, models.AllocationEntry{AreaOverrideSF: 48, Quantity: 60}, out.Entries["workstation"])
	require.Len(t, out.Custom, 1)
	assert.Equal(t, "Lab", out.Custom[0].Name)

	out, err = Apply(c, out, []Edit{{Op: OpRemoveCustom, ID: out.Custom[0].ID}})
	require.NoError(t, err)
	assert.Empty(t, out.Custom)
}

func TestApply_FailureLeavesAllocationUntouched(t *testing.T) {
	c := DefaultCatalog()
	a := c.DefaultAllocation()

	out, err := Apply(c, a, []Edit{
		{Op: OpSetQuantity, ID: "workstation", Quantity: 1},
		{Op: OpRemoveCustom, ID: "custom-missing"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCustomSpace)
	assert.Contains(t, err.Error(), "edit 1")
	assert.Equal(t, a, out)

	_, err = Apply(c, a, []Edit{{Op: "rename"}})
	assert.ErrorIs(t, err, ErrInvalidEdit)
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeCatalog(t, `
types:
  - id: desk
    name: Hot Desk
    category: workstations
    color: "hsl(200, 50%, 50%)"
    default_area_sf: 40
  - id: lab
    name: Wet Lab
    category: support
    default_area_sf: 600
categories:
  - category: support
    name: Research Support
    color: "hsl(10, 50%, 50%)"
default_quantities:
  desk: 20
  lab: 1
`)

	c, err := LoadCatalog(path)
	require.NoError(t, err)

	require.Len(t, c.Types, 2)
	assert.Equal(t, 600, c.Types[1].DefaultAreaSF)
	assert.Equal(t, "Research Support", c.Category(models.CategorySupport).Name)
	assert.Equal(t, "Offices", c.Category(models.CategoryOffices).Name, "missing categories fall back to defaults")
	assert.Equal(t, 20, c.DefaultAllocation().Entries["desk"].Quantity)
}

func TestLoadCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{name: "no types", body: "types: []\n", msg: "no space types"},
		{name: "duplicate id", body: "types:\n  - {id: a, name: A, category: offices, default_area_sf: 10}\n  - {id: a, name: B, category: offices, default_area_sf: 10}\n", msg: "duplicate"},
		{name: "bad category", body: "types:\n  - {id: a, name: A, category: kitchen, default_area_sf: 10}\n", msg: "unknown category"},
		{name: "custom category reserved", body: "types:\n  - {id: a, name: A, category: custom, default_area_sf: 10}\n", msg: "unknown category"},
		{name: "area too large", body: "types:\n  - {id: a, name: A, category: offices, default_area_sf: 100001}\n", msg: "exceeds"},
		{name: "zero area", body: "types:\n  - {id: a, name: A, category: offices, default_area_sf: 0}\n", msg: "positive default area"},
		{name: "quantity for unknown type", body: "types:\n  - {id: a, name: A, category: offices, default_area_sf: 10}\ndefault_quantities:\n  b: 1\n", msg: "unknown space type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(writeCatalog(t, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadCatalog_Unreadable(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading catalog")

	_, err = LoadCatalog(writeCatalog(t, "types: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing catalog")
}
