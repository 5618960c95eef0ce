package repository

import (
	"context"
	"errors"

	"github.com/stwalsh4118/campusplan/internal/models"
)

// ErrUnexpectedStatus is returned when a dataset URL answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// RecordSource loads a complete commute dataset.
type RecordSource interface {
	// Load reads every record from the source. A partial read is an error.
	Load(ctx context.Context) ([]models.CommuteRecord, error)

	// Kind is the configured source type (url, file or postgres).
	Kind() string

	// Name is a human-readable label shown as the dataset name.
	Name() string
}
