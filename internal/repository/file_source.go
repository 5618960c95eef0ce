package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stwalsh4118/campusplan/internal/ingest"
	"github.com/stwalsh4118/campusplan/internal/models"
)

// FileSource reads the dataset from a local CSV or XLSX file.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Kind() string { return "file" }

func (s *FileSource) Name() string { return filepath.Base(s.path) }

// Load reads and parses the whole file.
func (s *FileSource) Load(ctx context.Context) ([]models.CommuteRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset file: %w", err)
	}
	return ingest.Parse(s.path, data)
}
