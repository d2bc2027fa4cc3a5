// Package store persists attendance records. The log is append-only: records
// are never updated or deleted by the service.
package store

import (
	"context"

	"geomark/internal/attendance/models"
)

// MaxRecentRecords bounds any recent-records query regardless of the
// requested limit.
const MaxRecentRecords = 200

// Store is the attendance record log.
type Store interface {
	// Append assigns the next monotonically increasing ID and persists the
	// record. A write failure is returned; appends never fail silently.
	Append(ctx context.Context, record *models.Record) (int64, error)

	// Recent returns up to limit records, most recent first, capped at
	// MaxRecentRecords.
	Recent(ctx context.Context, limit int) ([]models.Record, error)
}

// clampLimit applies the recent-records bound shared by all implementations.
func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxRecentRecords {
		return MaxRecentRecords
	}
	return limit
}
