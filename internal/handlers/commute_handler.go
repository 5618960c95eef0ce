package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/stwalsh4118/campusplan/internal/commute"
	apierrors "github.com/stwalsh4118/campusplan/internal/errors"
	"github.com/stwalsh4118/campusplan/internal/ingest"
	"github.com/stwalsh4118/campusplan/internal/markers"
	"github.com/stwalsh4118/campusplan/internal/middleware"
	"github.com/stwalsh4118/campusplan/internal/models"
	"github.com/stwalsh4118/campusplan/internal/repository"
	"github.com/stwalsh4118/campusplan/internal/services"
)

// UploadField is the multipart form field carrying the dataset file.
const UploadField = "file"

const datasetUnavailableMessage = "No commute dataset is loaded yet"

// CommuteHandler handles commute dashboard HTTP requests.
type CommuteHandler struct {
	service        services.CommuteService
	maxUploadBytes int64
}

// NewCommuteHandler creates a new CommuteHandler instance.
func NewCommuteHandler(service services.CommuteService, maxUploadBytes int64) *CommuteHandler {
	return &CommuteHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// CommuteQuery represents the threshold query parameters.
// Omitted values fall back to the dashboard defaults.
type CommuteQuery struct {
	Mode     string   `form:"mode" binding:"omitempty,oneof=time distance"`
	Time     *float64 `form:"time" binding:"omitempty,gte=0,lte=120"`
	Distance *float64 `form:"distance" binding:"omitempty,gte=5,lte=100"`
}

// Parameters resolves the query into commute parameters.
func (q CommuteQuery) Parameters() models.CommuteParameters {
	p := models.DefaultCommuteParameters()
	if q.Mode != "" {
		p.Mode = models.ThresholdMode(q.Mode)
	}
	if q.Time != nil {
		p.TimeThresholdMinutes = *q.Time
	}
	if q.Distance != nil {
		p.DistanceThresholdMiles = *q.Distance
	}
	return p
}

// DistributionResponse represents the response for the distribution endpoint.
type DistributionResponse struct {
	Buckets []commute.Bucket `json:"buckets"`
}

// MarkersResponse is the marker layer with its map statistics.
// Bounds is [minLng, minLat, maxLng, maxLat] or null.
type MarkersResponse struct {
	Markers json.RawMessage `json:"markers"`
	Stats   markers.Stats   `json:"stats"`
	Bounds  []float64       `json:"bounds"`
}

// DatasetResponse represents the response for dataset endpoints.
type DatasetResponse struct {
	Dataset repository.DatasetMeta `json:"dataset"`
}

// bindQuery binds and validates the threshold query, writing the error
// response itself on failure.
func bindQuery(c *gin.Context) (models.CommuteParameters, bool) {
	var q CommuteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return models.CommuteParameters{}, false
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return models.CommuteParameters{}, false
	}
	return q.Parameters(), true
}

// handleServiceError maps commute service errors onto responses.
func handleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrDatasetUnavailable):
		apierrors.DatasetUnavailable(c, datasetUnavailableMessage)
	case errors.Is(err, services.ErrInvalidParameters):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrUnsupportedFormat):
		apierrors.BadRequest(c, "Please upload a CSV file", nil)
	case errors.Is(err, services.ErrIngestion):
		apierrors.IngestionFailed(c, fallback, err)
	default:
		apierrors.InternalServerError(c, fallback, err)
	}
}

// Summary handles GET /api/v1/commute/summary.
func (h *CommuteHandler) Summary(c *gin.Context) {
	params, ok := bindQuery(c)
	if !ok {
		return
	}

	report, err := h.service.Summary(params)
	if err != nil {
		handleServiceError(c, err, "Failed to compute commute summary")
		return
	}

	c.JSON(http.StatusOK, report)
}

// Distribution handles GET /api/v1/commute/distribution.
func (h *CommuteHandler) Distribution(c *gin.Context) {
	buckets, err := h.service.Distribution()
	if err != nil {
		handleServiceError(c, err, "Failed to compute commute distribution")
		return
	}

	c.JSON(http.StatusOK, DistributionResponse{Buckets: buckets})
}

// Markers handles GET /api/v1/commute/markers.
func (h *CommuteHandler) Markers(c *gin.Context) {
	params, ok := bindQuery(c)
	if !ok {
		return
	}

	layer, err := h.service.Markers(params)
	if err != nil {
		handleServiceError(c, err, "Failed to build marker layer")
		return
	}

	features, err := json.Marshal(layer.Features)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to encode marker layer", err)
		return
	}

	resp := MarkersResponse{Markers: features, Stats: layer.Stats}
	if layer.Bounds != nil {
		b := layer.Bounds
		resp.Bounds = []float64{b.Min(0), b.Min(1), b.Max(0), b.Max(1)}
	}

	c.JSON(http.StatusOK, resp)
}

// Dataset handles GET /api/v1/commute/dataset.
func (h *CommuteHandler) Dataset(c *gin.Context) {
	meta, err := h.service.Dataset()
	if err != nil {
		handleServiceError(c, err, "Failed to read dataset metadata")
		return
	}

	c.JSON(http.StatusOK, DatasetResponse{Dataset: meta})
}

// Upload handles POST /api/v1/commute/dataset.
// The uploaded CSV or XLSX file replaces the active dataset.
func (h *CommuteHandler) Upload(c *gin.Context) {
	if c.Request.ContentLength > h.maxUploadBytes {
		apierrors.PayloadTooLarge(c, h.maxUploadBytes)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	header, err := c.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.PayloadTooLarge(c, h.maxUploadBytes)
			return
		}
		apierrors.BadRequest(c, "A dataset file is required", map[string]interface{}{
			"field": UploadField,
		})
		return
	}

	if header.Size > h.maxUploadBytes {
		apierrors.PayloadTooLarge(c, h.maxUploadBytes)
		return
	}
	if _, err := ingest.DetectFormat(header.Filename); err != nil {
		apierrors.BadRequest(c, "Please upload a CSV file", map[string]interface{}{
			"filename": header.Filename,
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read uploaded file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read uploaded file", err)
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Processing dataset upload", map[string]interface{}{
			"filename": header.Filename,
			"bytes":    len(data),
		})
	}

	meta, err := h.service.Upload(c.Request.Context(), header.Filename, data)
	if err != nil {
		handleServiceError(c, err, "Could not parse the uploaded file")
		return
	}

	c.JSON(http.StatusOK, DatasetResponse{Dataset: meta})
}

// Reload handles POST /api/v1/commute/dataset/reload.
func (h *CommuteHandler) Reload(c *gin.Context) {
	meta, err := h.service.Reload(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoDefaultSource) {
			apierrors.NotFound(c, "No default dataset source is configured")
			return
		}
		handleServiceError(c, err, "Could not reload the default dataset")
		return
	}

	c.JSON(http.StatusOK, DatasetResponse{Dataset: meta})
}
