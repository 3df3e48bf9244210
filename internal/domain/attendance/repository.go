package attendance

import (
	"context"
)

// Repository defines data access for the append-only event log. There is no
// update or delete path: records are immutable once created.
type Repository interface {
	// Create appends a new record and returns it with its assigned ID and
	// persistence timestamps.
	Create(ctx context.Context, rec Record) (Record, error)

	// FindLastEntry returns the most recent ENTRY record for the given
	// email, or nil when the subject has never checked in.
	FindLastEntry(ctx context.Context, email string) (*Record, error)

	// List returns records matching the filter, newest first, capped at
	// limit records.
	List(ctx context.Context, filter HistoryFilter, limit int64) ([]Record, error)

	// ListAll returns the full log (optionally restricted to one email),
	// newest first. Used by session reconstruction.
	ListAll(ctx context.Context, email *string) ([]Record, error)

	// CountByKind counts records of one kind across the whole log.
	CountByKind(ctx context.Context, kind Kind) (int64, error)

	// DistinctSubjects counts unique email values across the whole log.
	DistinctSubjects(ctx context.Context) (int64, error)

	// CompletedDurations returns the DurationSeconds of every record that
	// has one.
	CompletedDurations(ctx context.Context) ([]int64, error)
}
