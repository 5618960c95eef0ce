package repository

import (
	"sync"
	"time"

	"github.com/stwalsh4118/campusplan/internal/models"
)

// DatasetMeta describes the dataset currently being served.
type DatasetMeta struct {
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	RecordCount int       `json:"recordCount"`
	LoadedAt    time.Time `json:"loadedAt"`
}

// DatasetStore holds the active dataset. Readers always see a complete
// dataset; Replace swaps it wholesale.
type DatasetStore struct {
	mu         sync.RWMutex
	records    []models.CommuteRecord
	meta       DatasetMeta
	loaded     bool
	generation uint64
}

// NewDatasetStore creates an empty store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{}
}

// Snapshot returns the current records and metadata. The slice is shared
// and must not be modified. ok is false until a dataset has been loaded.
func (s *DatasetStore) Snapshot() (records []models.CommuteRecord, meta DatasetMeta, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.meta, s.loaded
}

// Replace installs a new dataset. RecordCount is filled from records.
func (s *DatasetStore) Replace(records []models.CommuteRecord, meta DatasetMeta) DatasetMeta {
	meta = stamp(records, meta)

	s.mu.Lock()
	s.install(records, meta)
	s.mu.Unlock()

	return meta
}

// ReplaceIf installs a new dataset only when no Replace has happened since
// generation was read. It returns the dataset being served afterwards and
// whether it was this one.
func (s *DatasetStore) ReplaceIf(generation uint64, records []models.CommuteRecord, meta DatasetMeta) (DatasetMeta, bool) {
	meta = stamp(records, meta)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return s.meta, false
	}
	s.install(records, meta)
	return meta, true
}

// Generation counts the datasets installed so far.
func (s *DatasetStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *DatasetStore) install(records []models.CommuteRecord, meta DatasetMeta) {
	s.records = records
	s.meta = meta
	s.loaded = true
	s.generation++
}

func stamp(records []models.CommuteRecord, meta DatasetMeta) DatasetMeta {
	meta.RecordCount = len(records)
	if meta.LoadedAt.IsZero() {
		meta.LoadedAt = time.Now().UTC()
	}
	return meta
}

// Loaded reports whether a dataset is available.
func (s *DatasetStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
