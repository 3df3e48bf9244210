package attendance

import (
	"math"

	"github.com/phototrack/attendance-backend-go/internal/domain/attendance"
)

// computeStatistics folds the raw aggregates into the response shape. The
// average is over completed sessions only and rounds half away from zero.
func computeStatistics(totalEntries, totalExits, distinctSubjects int64, durations []int64) attendance.Statistics {
	stats := attendance.Statistics{
		TotalEntries:     totalEntries,
		TotalExits:       totalExits,
		DistinctSubjects: distinctSubjects,
	}

	if len(durations) > 0 {
		var sum int64
		for _, d := range durations {
			sum += d
		}
		stats.AverageDurationSeconds = int64(math.Round(float64(sum) / float64(len(durations))))
	}

	return stats
}
