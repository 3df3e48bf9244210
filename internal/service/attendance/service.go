package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phototrack/attendance-backend-go/internal/domain/attendance"
	"github.com/phototrack/attendance-backend-go/internal/pkg/metrics"
	"github.com/phototrack/attendance-backend-go/internal/service/image"
)

// historyLimit caps the history endpoint, newest first.
const historyLimit = 100

type AttendanceServiceImpl struct {
	repo   attendance.Repository
	images image.Service
	now    func() time.Time
}

func NewService(repo attendance.Repository, images image.Service) attendance.Service {
	return &AttendanceServiceImpl{
		repo:   repo,
		images: images,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// normalizeEmail canonicalizes the subject key once, at the service boundary.
// Everything below (queries, pairing, filenames) sees the lowercase form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Record implements attendance.Service.
func (s *AttendanceServiceImpl) Record(ctx context.Context, req attendance.RecordRequest) (attendance.RecordView, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordView{}, err
	}

	email := normalizeEmail(req.Email)
	occurredAt := s.now()

	var duration *int64
	if req.Kind == attendance.KindExit {
		lastEntry, err := s.repo.FindLastEntry(ctx, email)
		if err != nil {
			return attendance.RecordView{}, fmt.Errorf("failed to look up last entry: %w", err)
		}

		// The gate only runs when a reference photo exists. A first-ever
		// EXIT is recorded as-is, with no duration.
		if lastEntry != nil {
			verified, similarity := s.images.Verify(lastEntry.Image, req.Image)
			observeVerification(verified, similarity)
			if !verified {
				slog.Warn("Identity verification rejected exit",
					"email", email,
					"similarity", similarity,
				)
				return attendance.RecordView{}, &attendance.VerificationFailedError{Similarity: similarity}
			}

			d := durationSeconds(lastEntry.Timestamp, occurredAt)
			duration = &d
		}
	}

	path, dataURL, err := s.images.ProcessAndStore(ctx, req.Image, email, string(req.Kind), occurredAt)
	if err != nil {
		return attendance.RecordView{}, err
	}

	created, err := s.repo.Create(ctx, attendance.Record{
		Name:            req.Name,
		Email:           email,
		Image:           dataURL,
		ImagePath:       path,
		Kind:            req.Kind,
		Timestamp:       occurredAt,
		DurationSeconds: duration,
	})
	if err != nil {
		return attendance.RecordView{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	metrics.RecordsTotal.WithLabelValues(string(req.Kind)).Inc()
	return attendance.NewRecordView(created), nil
}

// History implements attendance.Service.
func (s *AttendanceServiceImpl) History(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.RecordView, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if filter.Email != nil {
		email := normalizeEmail(*filter.Email)
		filter.Email = &email
	}

	records, err := s.repo.List(ctx, filter, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	views := make([]attendance.RecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, attendance.NewRecordView(rec))
	}
	return views, nil
}

// Sessions implements attendance.Service.
func (s *AttendanceServiceImpl) Sessions(ctx context.Context, email string) ([]attendance.SessionView, error) {
	var filter *string
	if strings.TrimSpace(email) != "" {
		normalized := normalizeEmail(email)
		filter = &normalized
	}

	records, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	sessions := ReconstructSessions(records)
	views := make([]attendance.SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, attendance.NewSessionView(session))
	}
	return views, nil
}

// Stats implements attendance.Service.
func (s *AttendanceServiceImpl) Stats(ctx context.Context) (attendance.Statistics, error) {
	totalEntries, err := s.repo.CountByKind(ctx, attendance.KindEntry)
	if err != nil {
		return attendance.Statistics{}, fmt.Errorf("failed to count entries: %w", err)
	}

	totalExits, err := s.repo.CountByKind(ctx, attendance.KindExit)
	if err != nil {
		return attendance.Statistics{}, fmt.Errorf("failed to count exits: %w", err)
	}

	distinctSubjects, err := s.repo.DistinctSubjects(ctx)
	if err != nil {
		return attendance.Statistics{}, fmt.Errorf("failed to count distinct subjects: %w", err)
	}

	durations, err := s.repo.CompletedDurations(ctx)
	if err != nil {
		return attendance.Statistics{}, fmt.Errorf("failed to collect durations: %w", err)
	}

	return computeStatistics(totalEntries, totalExits, distinctSubjects, durations), nil
}

// VerifyIdentity implements attendance.Service.
func (s *AttendanceServiceImpl) VerifyIdentity(ctx context.Context, email, img string) (attendance.Verification, error) {
	email = normalizeEmail(email)

	lastEntry, err := s.repo.FindLastEntry(ctx, email)
	if err != nil {
		return attendance.Verification{}, fmt.Errorf("failed to look up last entry: %w", err)
	}
	if lastEntry == nil {
		// No reference photo means nothing to compare against. The gate
		// stays closed without treating it as a failure.
		return attendance.Verification{Verified: false, Similarity: 0}, nil
	}

	verified, similarity := s.images.Verify(lastEntry.Image, img)
	observeVerification(verified, similarity)
	return attendance.Verification{Verified: verified, Similarity: similarity}, nil
}

func observeVerification(verified bool, similarity float64) {
	metrics.SimilarityScore.Observe(similarity)
	outcome := "rejected"
	if verified {
		outcome = "verified"
	}
	metrics.VerificationsTotal.WithLabelValues(outcome).Inc()
}
