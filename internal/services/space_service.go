package services

import (
	"github.com/stwalsh4118/campusplan/internal/logger"
	"github.com/stwalsh4118/campusplan/internal/models"
	"github.com/stwalsh4118/campusplan/internal/space"
)

// SpaceService defines the space planning operations.
// It holds no per-user state; callers send the full planner state.
type SpaceService interface {
	// Catalog returns the space type catalog in use.
	Catalog() space.Catalog

	// Plan applies edits to allocation and summarizes the result for the
	// building. A nil allocation means the catalog's default scenario.
	Plan(building models.BuildingParameters, allocation *models.SpaceAllocation, edits []space.Edit) (PlanResult, error)
}

// PlanResult is the allocation after edits together with its summary.
type PlanResult struct {
	Allocation models.SpaceAllocation `json:"allocation"`
	Summary    space.Summary          `json:"summary"`
}

type spaceService struct {
	catalog space.Catalog
	log     *logger.Logger
}

// NewSpaceService creates a SpaceService backed by catalog.
func NewSpaceService(catalog space.Catalog, log *logger.Logger) SpaceService {
	return &spaceService{
		catalog: catalog,
		log:     log.Component("space"),
	}
}

func (s *spaceService) Catalog() space.Catalog {
	return s.catalog
}

func (s *spaceService) Plan(building models.BuildingParameters, allocation *models.SpaceAllocation, edits []space.Edit) (PlanResult, error) {
	current := s.catalog.DefaultAllocation()
	if allocation != nil {
		current = allocation.Clone()
	}

	next, err := space.Apply(s.catalog, current, edits)
	if err != nil {
		s.log.Warn("Rejected allocation edits", map[string]interface{}{
			"edits": len(edits),
			"error": err.Error(),
		})
		return PlanResult{}, err
	}

	summary, err := space.Summarize(s.catalog, building, next)
	if err != nil {
		return PlanResult{}, err
	}

	if summary.OverCapacity {
		s.log.Warn("Space program exceeds assignable area", map[string]interface{}{
			"assignable_sf": summary.AssignableSF,
			"used_sf":       summary.UsedSF,
			"over_by_sf":    summary.OverBySF,
		})
	}

	return PlanResult{Allocation: next, Summary: summary}, nil
}
