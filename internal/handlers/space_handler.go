package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/stwalsh4118/campusplan/internal/errors"
	"github.com/stwalsh4118/campusplan/internal/models"
	"github.com/stwalsh4118/campusplan/internal/services"
	"github.com/stwalsh4118/campusplan/internal/space"
)

// SpaceHandler handles space planning HTTP requests.
type SpaceHandler struct {
	service services.SpaceService
}

// NewSpaceHandler creates a new SpaceHandler instance.
func NewSpaceHandler(service services.SpaceService) *SpaceHandler {
	return &SpaceHandler{
		service: service,
	}
}

// PlanRequest is the full planner state sent by the client.
// A missing allocation starts from the catalog's default scenario.
// At most 500 edits are replayed per request.
type PlanRequest struct {
	Building   models.BuildingParameters `json:"building"`
	Allocation *models.SpaceAllocation   `json:"allocation"`
	Edits      []space.Edit              `json:"edits" binding:"omitempty,max=500,dive"`
}

// CatalogResponse represents the response for the catalog endpoint.
type CatalogResponse struct {
	Types             []models.SpaceTypeDefinition `json:"types"`
	Categories        []models.CategoryInfo        `json:"categories"`
	DefaultBuilding   models.BuildingParameters    `json:"defaultBuilding"`
	DefaultAllocation models.SpaceAllocation       `json:"defaultAllocation"`
}

// Catalog handles GET /api/v1/space/catalog.
func (h *SpaceHandler) Catalog(c *gin.Context) {
	catalog := h.service.Catalog()

	c.JSON(http.StatusOK, CatalogResponse{
		Types:             catalog.Types,
		Categories:        catalog.Categories,
		DefaultBuilding:   models.DefaultBuildingParameters(),
		DefaultAllocation: catalog.DefaultAllocation(),
	})
}

// Summary handles POST /api/v1/space/summary.
func (h *SpaceHandler) Summary(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	result, err := h.service.Plan(req.Building, req.Allocation, req.Edits)
	if err != nil {
		switch {
		case errors.Is(err, space.ErrInvalidBuilding),
			errors.Is(err, space.ErrInvalidAllocation):
			apierrors.BadRequest(c, err.Error(), nil)
		case errors.Is(err, space.ErrUnknownSpaceType),
			errors.Is(err, space.ErrUnknownCustomSpace),
			errors.Is(err, space.ErrInvalidEdit):
			apierrors.BadRequest(c, "Invalid allocation edit", map[string]interface{}{
				"reason": err.Error(),
			})
		default:
			apierrors.InternalServerError(c, "Failed to summarize space program", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
