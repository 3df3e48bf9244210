package attendance

import (
	"strings"
	"time"

	"github.com/phototrack/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type RecordRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"` // base64 data URL captured by the client
	Kind  Kind   `json:"type"`
}

func (r *RecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if validator.IsEmpty(r.Image) {
		errs = append(errs, validator.ValidationError{
			Field:   "image",
			Message: "image is required",
		})
	}

	if !r.Kind.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be ENTRY or EXIT",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type VerifyRequest struct {
	Email string `json:"email"`
	Image string `json:"image"`
}

func (r *VerifyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}

	if validator.IsEmpty(r.Image) {
		errs = append(errs, validator.ValidationError{
			Field:   "image",
			Message: "image is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HistoryFilter struct {
	Email     *string `json:"email,omitempty"`
	Kind      *Kind   `json:"type,omitempty"`
	StartDate *string `json:"startDate,omitempty"` // RFC 3339 or YYYY-MM-DD
	EndDate   *string `json:"endDate,omitempty"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Kind != nil && !f.Kind.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be ENTRY or EXIT",
		})
	}

	if f.StartDate != nil {
		if _, ok := parseFilterDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "startDate",
				Message: "startDate must be an RFC 3339 timestamp or YYYY-MM-DD date",
			})
		}
	}

	if f.EndDate != nil {
		if _, ok := parseFilterDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "endDate",
				Message: "endDate must be an RFC 3339 timestamp or YYYY-MM-DD date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Range returns the parsed time range. Both bounds must be present for the
// range to apply, matching the upstream query contract.
func (f *HistoryFilter) Range() (start, end time.Time, ok bool) {
	if f.StartDate == nil || f.EndDate == nil {
		return time.Time{}, time.Time{}, false
	}
	start, sok := parseFilterDate(*f.StartDate)
	end, eok := parseFilterDate(*f.EndDate)
	if !sok || !eok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func parseFilterDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

type RecordView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Image           string `json:"image"`
	ImagePath       string `json:"imagePath"`
	Kind            Kind   `json:"type"`
	Timestamp       string `json:"timestamp"`
	DurationSeconds *int64 `json:"durationSeconds,omitempty"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

type SessionView struct {
	Entry           RecordView  `json:"entry"`
	Exit            *RecordView `json:"exit,omitempty"`
	DurationSeconds *int64      `json:"durationSeconds,omitempty"`
}

// NewRecordView converts a log record to its transport shape.
func NewRecordView(rec Record) RecordView {
	return RecordView{
		ID:              rec.ID,
		Name:            rec.Name,
		Email:           rec.Email,
		Image:           rec.Image,
		ImagePath:       rec.ImagePath,
		Kind:            rec.Kind,
		Timestamp:       rec.Timestamp.UTC().Format(time.RFC3339),
		DurationSeconds: rec.DurationSeconds,
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// NewSessionView converts a derived session to its transport shape.
func NewSessionView(s Session) SessionView {
	view := SessionView{
		Entry:           NewRecordView(s.Entry),
		DurationSeconds: s.DurationSeconds,
	}
	if s.Exit != nil {
		exit := NewRecordView(*s.Exit)
		view.Exit = &exit
	}
	return view
}
