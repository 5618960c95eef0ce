package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stwalsh4118/campusplan/internal/commute"
	"github.com/stwalsh4118/campusplan/internal/ingest"
	"github.com/stwalsh4118/campusplan/internal/logger"
	"github.com/stwalsh4118/campusplan/internal/markers"
	"github.com/stwalsh4118/campusplan/internal/models"
	"github.com/stwalsh4118/campusplan/internal/repository"
)

// SourceUpload is the dataset source recorded for uploaded files.
const SourceUpload = "upload"

// Service-level errors
var (
	ErrDatasetUnavailable = errors.New("commute dataset not loaded")
	ErrInvalidParameters  = errors.New("invalid commute parameters")
	ErrUnsupportedFormat  = errors.New("unsupported dataset format")
	ErrIngestion          = errors.New("dataset ingestion failed")
	ErrNoDefaultSource    = errors.New("no default dataset source configured")
	ErrDatasetSuperseded  = errors.New("default dataset superseded by a newer dataset")
)

// CommuteService defines the commute dashboard operations over the active dataset.
type CommuteService interface {
	// Summary computes headline stats and the qualifying-subset summary.
	// Returns ErrInvalidParameters for out-of-range inputs and
	// ErrDatasetUnavailable before any dataset is loaded.
	Summary(p models.CommuteParameters) (commute.Report, error)

	// Distribution returns the fixed-bucket population counts.
	Distribution() ([]commute.Bucket, error)

	// Markers builds the map marker layer for p.
	Markers(p models.CommuteParameters) (markers.Layer, error)

	// Dataset returns metadata for the active dataset.
	Dataset() (repository.DatasetMeta, error)

	// Upload parses data and, on success, replaces the active dataset.
	// On failure the previous dataset keeps being served.
	Upload(ctx context.Context, name string, data []byte) (repository.DatasetMeta, error)

	// Reload re-reads the configured default source.
	Reload(ctx context.Context) (repository.DatasetMeta, error)

	// LoadDefault reads the default source like Reload, but keeps any
	// dataset installed while the read was in flight. In that case it
	// returns the served dataset's metadata and ErrDatasetSuperseded.
	LoadDefault(ctx context.Context) (repository.DatasetMeta, error)
}

type commuteService struct {
	store  *repository.DatasetStore
	source repository.RecordSource
	log    *logger.Logger
}

// NewCommuteService creates a CommuteService. source may be nil, in which
// case Reload fails with ErrNoDefaultSource.
func NewCommuteService(store *repository.DatasetStore, source repository.RecordSource, log *logger.Logger) CommuteService {
	return &commuteService{
		store:  store,
		source: source,
		log:    log.Component("dataset"),
	}
}

// ValidateParameters checks p against the dashboard's slider ranges.
func ValidateParameters(p models.CommuteParameters) error {
	if !p.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidParameters, p.Mode)
	}
	if !inRange(p.TimeThresholdMinutes, models.MinTimeThresholdMinutes, models.MaxTimeThresholdMinutes) {
		return fmt.Errorf("%w: time threshold must be between %d and %d minutes",
			ErrInvalidParameters, models.MinTimeThresholdMinutes, models.MaxTimeThresholdMinutes)
	}
	if !inRange(p.DistanceThresholdMiles, models.MinDistanceThresholdMiles, models.MaxDistanceThresholdMiles) {
		return fmt.Errorf("%w: distance threshold must be between %d and %d miles",
			ErrInvalidParameters, models.MinDistanceThresholdMiles, models.MaxDistanceThresholdMiles)
	}
	return nil
}

func inRange(v float64, lo, hi int) bool {
	return !math.IsNaN(v) && v >= float64(lo) && v <= float64(hi)
}

func (s *commuteService) records() ([]models.CommuteRecord, error) {
	records, _, ok := s.store.Snapshot()
	if !ok {
		return nil, ErrDatasetUnavailable
	}
	return records, nil
}

func (s *commuteService) Summary(p models.CommuteParameters) (commute.Report, error) {
	if err := ValidateParameters(p); err != nil {
		return commute.Report{}, err
	}
	records, err := s.records()
	if err != nil {
		return commute.Report{}, err
	}

	report := commute.Analyze(records, p)
	s.log.Debug("Computed commute summary", map[string]interface{}{
		"mode":           p.Mode,
		"time_minutes":   p.TimeThresholdMinutes,
		"distance_miles": p.DistanceThresholdMiles,
		"zipcodes":       report.Summary.TotalZipcodes,
		"people":         report.Summary.TotalPeople,
	})
	return report, nil
}

func (s *commuteService) Distribution() ([]commute.Bucket, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return commute.Distribution(records), nil
}

func (s *commuteService) Markers(p models.CommuteParameters) (markers.Layer, error) {
	if err := ValidateParameters(p); err != nil {
		return markers.Layer{}, err
	}
	records, err := s.records()
	if err != nil {
		return markers.Layer{}, err
	}
	return markers.Build(records, p), nil
}

func (s *commuteService) Dataset() (repository.DatasetMeta, error) {
	_, meta, ok := s.store.Snapshot()
	if !ok {
		return repository.DatasetMeta{}, ErrDatasetUnavailable
	}
	return meta, nil
}

func (s *commuteService) Upload(ctx context.Context, name string, data []byte) (repository.DatasetMeta, error) {
	if err := ctx.Err(); err != nil {
		return repository.DatasetMeta{}, err
	}

	records, err := ingest.Parse(name, data)
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedFormat) {
			s.log.Warn("Rejected dataset upload", map[string]interface{}{
				"file": name,
			})
			return repository.DatasetMeta{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
		}
		s.log.Warn("Failed to parse uploaded dataset", map[string]interface{}{
			"file":  name,
			"bytes": len(data),
			"error": err.Error(),
		})
		return repository.DatasetMeta{}, fmt.Errorf("%w: %w", ErrIngestion, err)
	}

	meta := s.store.Replace(records, repository.DatasetMeta{Name: name, Source: SourceUpload})
	s.log.Info("Dataset replaced by upload", map[string]interface{}{
		"file":    name,
		"records": meta.RecordCount,
	})
	return meta, nil
}

func (s *commuteService) Reload(ctx context.Context) (repository.DatasetMeta, error) {
	return s.loadDefault(ctx, false)
}

func (s *commuteService) LoadDefault(ctx context.Context) (repository.DatasetMeta, error) {
	return s.loadDefault(ctx, true)
}

func (s *commuteService) loadDefault(ctx context.Context, keepNewer bool) (repository.DatasetMeta, error) {
	if s.source == nil {
		return repository.DatasetMeta{}, ErrNoDefaultSource
	}
	generation := s.store.Generation()

	fields := map[string]interface{}{
		"source": s.source.Kind(),
		"name":   s.source.Name(),
	}
	s.log.Info("Loading default dataset", fields)

	records, err := s.source.Load(ctx)
	if err != nil {
		s.log.Error("Failed to load default dataset", err, fields)
		return repository.DatasetMeta{}, fmt.Errorf("%w: %w", ErrIngestion, err)
	}

	meta := repository.DatasetMeta{
		Name:   s.source.Name(),
		Source: s.source.Kind(),
	}
	if keepNewer {
		current, replaced := s.store.ReplaceIf(generation, records, meta)
		if !replaced {
			s.log.Info("Default dataset discarded, a newer dataset is already served", map[string]interface{}{
				"source":  meta.Source,
				"name":    meta.Name,
				"current": current.Name,
			})
			return current, ErrDatasetSuperseded
		}
		meta = current
	} else {
		meta = s.store.Replace(records, meta)
	}
	s.log.Info("Default dataset loaded", map[string]interface{}{
		"source":  meta.Source,
		"name":    meta.Name,
		"records": meta.RecordCount,
	})
	return meta, nil
}
