package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"geomark/internal/attendance/models"
)

// PostgresStore persists attendance records in PostgreSQL. The store is pure
// I/O; validation and decision logic stay in the pipeline.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed attendance log.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the attendance table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS attendance (
			id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			user_id      TEXT,
			timestamp    BIGINT NOT NULL,
			latitude     DOUBLE PRECISION NOT NULL,
			longitude    DOUBLE PRECISION NOT NULL,
			distance     DOUBLE PRECISION NOT NULL,
			confidence   DOUBLE PRECISION NOT NULL,
			raw_filename TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure attendance schema: %w", err)
	}
	return nil
}

// Append inserts the record; the identity column assigns the monotonic ID and
// the single INSERT keeps the append atomic with respect to readers.
func (s *PostgresStore) Append(ctx context.Context, record *models.Record) (int64, error) {
	if err := record.Validate(); err != nil {
		return 0, err
	}

	query := `
		INSERT INTO attendance (user_id, timestamp, latitude, longitude, distance, confidence, raw_filename)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := s.pool.QueryRow(ctx, query,
		record.UserID,
		record.Timestamp,
		record.Latitude,
		record.Longitude,
		record.Distance,
		record.Confidence,
		record.StagedFilename,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("append attendance record: %w", err)
	}

	record.ID = id
	return id, nil
}

// Recent returns up to limit records, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]models.Record, error) {
	query := `
		SELECT id, user_id, timestamp, latitude, longitude, distance, confidence, raw_filename
		FROM attendance
		ORDER BY id DESC
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent attendance records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var record models.Record
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Timestamp,
			&record.Latitude,
			&record.Longitude,
			&record.Distance,
			&record.Confidence,
			&record.StagedFilename,
		); err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance records: %w", err)
	}
	return records, nil
}
