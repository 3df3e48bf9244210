package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phototrack/attendance-backend-go/internal/domain/attendance"
)

var sessionBase = time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

func event(email string, kind attendance.Kind, offset time.Duration) attendance.Record {
	return attendance.Record{
		ID:        string(kind) + "-" + offset.String(),
		Name:      "Subject",
		Email:     email,
		Kind:      kind,
		Timestamp: sessionBase.Add(offset),
	}
}

// newestFirst mirrors the repository ordering contract.
func newestFirst(records ...attendance.Record) []attendance.Record {
	sorted := make([]attendance.Record, len(records))
	copy(sorted, records)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Timestamp.After(sorted[i].Timestamp) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	return sorted
}

func TestReconstructSessions_SinglePair(t *testing.T) {
	records := newestFirst(
		event("a@x.com", attendance.KindEntry, 0),
		event("a@x.com", attendance.KindExit, 8*time.Hour),
	)

	sessions := ReconstructSessions(records)
	require.Len(t, sessions, 1)
	assert.Equal(t, attendance.KindEntry, sessions[0].Entry.Kind)
	require.NotNil(t, sessions[0].Exit)
	require.NotNil(t, sessions[0].DurationSeconds)
	assert.Equal(t, int64(8*3600), *sessions[0].DurationSeconds)
}

func TestReconstructSessions_LoneEntryIsOpen(t *testing.T) {
	sessions := ReconstructSessions(newestFirst(
		event("a@x.com", attendance.KindEntry, 0),
	))

	require.Len(t, sessions, 1)
	assert.Nil(t, sessions[0].Exit)
	assert.Nil(t, sessions[0].DurationSeconds)
}

func TestReconstructSessions_OrphanExitIsInvisible(t *testing.T) {
	sessions := ReconstructSessions(newestFirst(
		event("a@x.com", attendance.KindExit, 0),
	))

	assert.Empty(t, sessions)
}

func TestReconstructSessions_SubjectsDoNotCrossPair(t *testing.T) {
	sessions := ReconstructSessions(newestFirst(
		event("a@x.com", attendance.KindEntry, 0),
		event("b@x.com", attendance.KindExit, time.Hour),
	))

	// a's ENTRY stays open, b's EXIT has no ENTRY to claim it.
	require.Len(t, sessions, 1)
	assert.Equal(t, "a@x.com", sessions[0].Entry.Email)
	assert.Nil(t, sessions[0].Exit)
}

func TestReconstructSessions_EntryClaimsMostRecentExit(t *testing.T) {
	sessions := ReconstructSessions(newestFirst(
		event("a@x.com", attendance.KindEntry, 0),
		event("a@x.com", attendance.KindExit, 4*time.Hour),
		event("a@x.com", attendance.KindExit, 6*time.Hour),
	))

	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].Exit)
	assert.Equal(t, sessionBase.Add(6*time.Hour), sessions[0].Exit.Timestamp)
	assert.Equal(t, int64(6*3600), *sessions[0].DurationSeconds)
}

func TestReconstructSessions_TwoDays(t *testing.T) {
	day := 24 * time.Hour
	sessions := ReconstructSessions(newestFirst(
		event("a@x.com", attendance.KindEntry, 0),
		event("a@x.com", attendance.KindExit, 8*time.Hour),
		event("a@x.com", attendance.KindEntry, day),
		event("a@x.com", attendance.KindExit, day+9*time.Hour),
	))

	require.Len(t, sessions, 2)
	// Newest session first.
	assert.Equal(t, sessionBase.Add(day), sessions[0].Entry.Timestamp)
	assert.Equal(t, int64(9*3600), *sessions[0].DurationSeconds)
	assert.Equal(t, sessionBase, sessions[1].Entry.Timestamp)
	assert.Equal(t, int64(8*3600), *sessions[1].DurationSeconds)
}

func TestReconstructSessions_CompletedPlusOpen(t *testing.T) {
	sessions := ReconstructSessions(newestFirst(
		event("a@x.com", attendance.KindEntry, 0),
		event("a@x.com", attendance.KindExit, 8*time.Hour),
		event("a@x.com", attendance.KindEntry, 10*time.Hour),
	))

	require.Len(t, sessions, 2)
	assert.Nil(t, sessions[0].Exit)
	assert.Equal(t, sessionBase.Add(10*time.Hour), sessions[0].Entry.Timestamp)
	require.NotNil(t, sessions[1].Exit)
	assert.Equal(t, int64(8*3600), *sessions[1].DurationSeconds)
}

func TestReconstructSessions_MultipleSubjectsInterleaved(t *testing.T) {
	sessions := ReconstructSessions(newestFirst(
		event("a@x.com", attendance.KindEntry, 0),
		event("b@x.com", attendance.KindEntry, 30*time.Minute),
		event("a@x.com", attendance.KindExit, 8*time.Hour),
		event("b@x.com", attendance.KindExit, 9*time.Hour),
	))

	require.Len(t, sessions, 2)
	assert.Equal(t, "b@x.com", sessions[0].Entry.Email)
	assert.Equal(t, int64(8*3600+30*60), *sessions[0].DurationSeconds)
	assert.Equal(t, "a@x.com", sessions[1].Entry.Email)
	assert.Equal(t, int64(8*3600), *sessions[1].DurationSeconds)
}

func TestReconstructSessions_Empty(t *testing.T) {
	assert.Empty(t, ReconstructSessions(nil))
}
