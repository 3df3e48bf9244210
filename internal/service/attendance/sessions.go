package attendance

import (
	"sort"
	"time"

	"github.com/phototrack/attendance-backend-go/internal/domain/attendance"
)

// pairing is the per-subject scan state.
type pairing struct {
	pendingExit *attendance.Record
	openEntry   *attendance.Record
}

// ReconstructSessions derives ENTRY/EXIT sessions from a newest-first record
// slice. An EXIT becomes pending until the next older ENTRY for the same
// subject claims it; a pending EXIT is never replaced by an older one, so an
// ENTRY pairs with the most recent EXIT after it. ENTRYs left unclaimed at
// the end of the scan surface as open sessions. EXITs nothing claims do not
// appear at all.
func ReconstructSessions(records []attendance.Record) []attendance.Session {
	state := make(map[string]*pairing)
	var sessions []attendance.Session

	for i := range records {
		rec := records[i]
		p, ok := state[rec.Email]
		if !ok {
			p = &pairing{}
			state[rec.Email] = p
		}

		switch rec.Kind {
		case attendance.KindExit:
			if p.pendingExit == nil {
				p.pendingExit = &records[i]
			}
		case attendance.KindEntry:
			if p.pendingExit != nil {
				d := durationSeconds(rec.Timestamp, p.pendingExit.Timestamp)
				sessions = append(sessions, attendance.Session{
					Entry:           rec,
					Exit:            p.pendingExit,
					DurationSeconds: &d,
				})
				p.pendingExit = nil
			} else {
				// Older unpaired ENTRYs displace newer ones, so the slot
				// holds the oldest open check-in per subject.
				p.openEntry = &records[i]
			}
		}
	}

	for _, p := range state {
		if p.openEntry != nil {
			sessions = append(sessions, attendance.Session{Entry: *p.openEntry})
		}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Entry.Timestamp.After(sessions[j].Entry.Timestamp)
	})
	return sessions
}

func durationSeconds(entry, exit time.Time) int64 {
	return int64(exit.Sub(entry) / time.Second)
}
