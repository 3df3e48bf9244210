package attendance

import (
	"time"
)

// Kind is the type of an attendance event.
type Kind string

const (
	KindEntry Kind = "ENTRY"
	KindExit  Kind = "EXIT"
)

func (k Kind) Valid() bool {
	return k == KindEntry || k == KindExit
}

// Record is one immutable event in the append-only attendance log.
type Record struct {
	ID        string
	Name      string
	Email     string
	Image     string // compressed rendition as a data URL, kept inline
	ImagePath string // filename of the stored rendition
	Kind      Kind
	Timestamp time.Time

	// DurationSeconds is set only on EXIT events that were paired with a
	// preceding ENTRY at write time.
	DurationSeconds *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session pairs one ENTRY with at most one subsequent EXIT for the same
// subject. Sessions are derived on read and never persisted.
type Session struct {
	Entry           Record
	Exit            *Record
	DurationSeconds *int64
}

// Statistics is a read-time aggregation over the whole event log.
type Statistics struct {
	TotalEntries           int64 `json:"totalEntries"`
	TotalExits             int64 `json:"totalExits"`
	DistinctSubjects       int64 `json:"distinctSubjects"`
	AverageDurationSeconds int64 `json:"averageDurationSeconds"`
}

// Verification is the outcome of the identity gate. A negative result is
// data, not an error.
type Verification struct {
	Verified   bool    `json:"verified"`
	Similarity float64 `json:"similarity"`
}
