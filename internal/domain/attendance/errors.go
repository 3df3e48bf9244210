package attendance

import (
	"errors"
	"fmt"
	"math"
)

// Attendance domain errors
var (
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrImageNotFound  = errors.New("image not found")
)

// VerificationFailedError is returned when the identity gate rejects an EXIT.
// It carries the similarity score for the client-facing message.
type VerificationFailedError struct {
	Similarity float64
}

func (e *VerificationFailedError) Error() string {
	return fmt.Sprintf("identity verification failed. Similarity: %d%%", int(math.Round(e.Similarity*100)))
}
