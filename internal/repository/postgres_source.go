package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/stwalsh4118/campusplan/internal/database"
	"github.com/stwalsh4118/campusplan/internal/models"
)

// PostgresSource reads commute records from a table with one row per ZCTA.
// Missing numeric values read as zero and a NULL error column means the
// route was found.
type PostgresSource struct {
	pool  database.Pool
	table string
}

// NewPostgresSource creates a source reading from table, which may be
// schema-qualified ("analysis.commute_records").
func NewPostgresSource(pool database.Pool, table string) *PostgresSource {
	return &PostgresSource{pool: pool, table: table}
}

func (s *PostgresSource) Kind() string { return "postgres" }

func (s *PostgresSource) Name() string { return s.table }

// query builds the SELECT with the table identifier quoted.
func (s *PostgresSource) query() string {
	return fmt.Sprintf(`
		SELECT
			zcta,
			COALESCE(latitude, 0),
			COALESCE(longitude, 0),
			COALESCE(crow_flies_km, 0),
			COALESCE(car_distance_km, 0),
			COALESCE(car_duration_min, 0),
			car_error,
			COALESCE(transit_distance_km, 0),
			COALESCE(transit_duration_min, 0),
			transit_error,
			GREATEST(COALESCE(people, 0), 0)
		FROM %s
		ORDER BY zcta`,
		pgx.Identifier(splitTable(s.table)).Sanitize(),
	)
}

// Load reads the full table.
func (s *PostgresSource) Load(ctx context.Context) ([]models.CommuteRecord, error) {
	rows, err := s.pool.Query(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.table, err)
	}
	defer rows.Close()

	records := make([]models.CommuteRecord, 0)
	for rows.Next() {
		var r models.CommuteRecord
		if err := rows.Scan(
			&r.ZCTA,
			&r.Latitude,
			&r.Longitude,
			&r.CrowFliesKm,
			&r.Car.DistanceKm,
			&r.Car.DurationMin,
			&r.Car.Error,
			&r.Transit.DistanceKm,
			&r.Transit.DurationMin,
			&r.Transit.Error,
			&r.People,
		); err != nil {
			return nil, fmt.Errorf("scanning commute record: %w", err)
		}
		r.Car.Error = nonEmpty(r.Car.Error)
		r.Transit.Error = nonEmpty(r.Transit.Error)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating commute records: %w", err)
	}

	return records, nil
}

func splitTable(table string) []string {
	var parts []string
	for _, p := range strings.Split(table, ".") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// nonEmpty maps blank error strings to nil, matching the file formats.
func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return s
}
