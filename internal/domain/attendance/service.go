package attendance

import (
	"context"
)

// Service defines business logic for the attendance log.
type Service interface {
	// Record appends a check-in or check-out. EXIT records pass through the
	// identity gate first and carry a duration when a prior ENTRY exists.
	Record(ctx context.Context, req RecordRequest) (RecordView, error)

	// History returns filtered records, newest first.
	History(ctx context.Context, filter HistoryFilter) ([]RecordView, error)

	// Sessions reconstructs ENTRY/EXIT pairs, optionally for one subject.
	Sessions(ctx context.Context, email string) ([]SessionView, error)

	// Stats aggregates the whole event log.
	Stats(ctx context.Context) (Statistics, error)

	// VerifyIdentity compares a candidate image against the subject's last
	// ENTRY photo. A missing reference yields {false, 0}, not an error.
	VerifyIdentity(ctx context.Context, email, image string) (Verification, error)
}
