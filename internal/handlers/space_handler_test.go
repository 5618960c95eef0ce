package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/stwalsh4118/campusplan/internal/errors"
	"github.com/stwalsh4118/campusplan/internal/logger"
	"github.com/stwalsh4118/campusplan/internal/middleware"
	"github.com/stwalsh4118/campusplan/internal/services"
	"github.com/stwalsh4118/campusplan/internal/space"
)

// setupSpaceTestRouter creates a test router with middleware and space handlers.
func setupSpaceTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Nop()))

	handler := NewSpaceHandler(services.NewSpaceService(space.DefaultCatalog(), logger.Nop()))
	v1 := router.Group("/api/v1")
	{
		s := v1.Group("/space")
		{
			s.GET("/catalog", handler.Catalog)
			s.POST("/summary", handler.Summary)
		}
	}

	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSpaceCatalog(t *testing.T) {
	router := setupSpaceTestRouter()

	w := get(router, "/api/v1/space/catalog")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Types, 10)
	assert.Len(t, resp.Categories, 5)
	assert.Equal(t, []int{20000, 20000, 20000, 20000}, resp.DefaultBuilding.FloorsGSF)
	assert.Equal(t, 85, resp.DefaultBuilding.EfficiencyPercent)
	assert.Equal(t, 50, resp.DefaultAllocation.Entries["workstation"].Quantity)
}

func TestSpaceSummary_DefaultScenario(t *testing.T) {
	router := setupSpaceTestRouter()

	w := postJSON(router, "/api/v1/space/summary",
		`{"building":{"floorsGsf":[20000,20000,20000,20000],"efficiencyPercent":85}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp services.PlanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 68000, resp.Summary.AssignableSF)
	assert.Equal(t, 8685, resp.Summary.UsedSF)
	assert.Equal(t, 59315, resp.Summary.RemainingSF)
	assert.False(t, resp.Summary.OverCapacity)
}

func TestSpaceSummary_WithAllocationAndEdits(t *testing.T) {
	router := setupSpaceTestRouter()

	body := `{
		"building": {"floorsGsf": [20000], "efficiencyPercent": 85},
		"allocation": {"entries": {"workstation": {"quantity": 10, "areaOverrideSf": 60}}, "custom": []},
		"edits": [
			{"op": "set_quantity", "id": "workstation", "quantity": 20},
			{"op": "add_custom", "name": "Server Room", "areaSf": 400, "quantity": 1}
		]
	}`
	w := postJSON(router, "/api/v1/space/summary", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp services.PlanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 20*60+400, resp.Summary.UsedSF)
	require.Len(t, resp.Allocation.Custom, 1)
	assert.NotEmpty(t, resp.Allocation.Custom[0].ID)
}

func TestSpaceSummary_ValidationErrors(t *testing.T) {
	router := setupSpaceTestRouter()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "missing floors",
			body:  `{"building":{"efficiencyPercent":85}}`,
			field: "FloorsGSF",
		},
		{
			name:  "floor too small",
			body:  `{"building":{"floorsGsf":[4000],"efficiencyPercent":85}}`,
			field: "FloorsGSF[0]",
		},
		{
			name:  "efficiency too high",
			body:  `{"building":{"floorsGsf":[20000],"efficiencyPercent":99}}`,
			field: "EfficiencyPercent",
		},
		{
			name:  "unknown edit op",
			body:  `{"building":{"floorsGsf":[20000],"efficiencyPercent":85},"edits":[{"op":"demolish"}]}`,
			field: "Op",
		},
		{
			name:  "area override too large",
			body:  `{"building":{"floorsGsf":[20000],"efficiencyPercent":85},"allocation":{"entries":{"workstation":{"quantity":1,"areaOverrideSf":200000}}}}`,
			field: "AreaOverrideSF",
		},
		{
			name:  "custom area too large",
			body:  `{"building":{"floorsGsf":[20000],"efficiencyPercent":85},"allocation":{"custom":[{"id":"c1","name":"Hangar","areaSf":100001,"quantity":1}]}}`,
			field: "AreaSF",
		},
		{
			name:  "quantity out of range",
			body:  `{"building":{"floorsGsf":[20000],"efficiencyPercent":85},"allocation":{"entries":{"workstation":{"quantity":500}}}}`,
			field: "Quantity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/v1/space/summary", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			resp := decodeError(t, w)
			assert.Equal(t, apierrors.ErrValidation, resp.Error.Code)
			assert.Contains(t, resp.Error.Details, tt.field)
		})
	}
}

func TestSpaceSummary_UnknownSpaceType(t *testing.T) {
	router := setupSpaceTestRouter()

	w := postJSON(router, "/api/v1/space/summary",
		`{"building":{"floorsGsf":[20000],"efficiencyPercent":85},"edits":[{"op":"set_quantity","id":"ballroom","quantity":1}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, apierrors.ErrBadRequest, resp.Error.Code)
	assert.Contains(t, resp.Error.Details["reason"], "ballroom")
}

func TestSpaceSummary_OversizedAreaEditRejected(t *testing.T) {
	router := setupSpaceTestRouter()

	tests := []struct {
		name string
		edit string
	}{
		{name: "set_area", edit: `{"op":"set_area","id":"workstation","areaSf":184467440737095517}`},
		{name: "add_custom", edit: `{"op":"add_custom","name":"Hangar","areaSf":184467440737095517,"quantity":100}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/v1/space/summary",
				`{"building":{"floorsGsf":[20000],"efficiencyPercent":85},"edits":[`+tt.edit+`]}`)

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			resp := decodeError(t, w)
			assert.Equal(t, apierrors.ErrBadRequest, resp.Error.Code)
			assert.Contains(t, resp.Error.Details["reason"], "exceeds")
			assert.NotContains(t, w.Body.String(), "usedSf")
		})
	}
}

func TestSpaceSummary_MaxAreaAtMaxQuantityIsOverCapacity(t *testing.T) {
	router := setupSpaceTestRouter()

	w := postJSON(router, "/api/v1/space/summary", `{
		"building": {"floorsGsf": [5000], "efficiencyPercent": 60},
		"edits": [
			{"op": "set_quantity", "id": "workstation", "quantity": 100},
			{"op": "set_area", "id": "workstation", "areaSf": 100000}
		]
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp services.PlanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.Summary.UsedSF, 10_000_000)
	assert.True(t, resp.Summary.OverCapacity)
	assert.Positive(t, resp.Summary.OverBySF)
}

func TestSpaceSummary_MalformedJSON(t *testing.T) {
	router := setupSpaceTestRouter()

	w := postJSON(router, "/api/v1/space/summary", `{"building":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.ErrBadRequest, decodeError(t, w).Error.Code)
}
