package history

import (
	"math"
	"sort"
)

// Summary is the statistical digest of a set of execution entries.
type Summary struct {
	Total             int     `yaml:"total"`
	SuccessCount      int     `yaml:"success_count"`
	FailureCount      int     `yaml:"failure_count"`
	SuccessRate       float64 `yaml:"success_rate"`
	AverageDurationMs float64 `yaml:"average_duration_ms"`
	P50DurationMs     int64   `yaml:"p50_duration_ms"`
	P90DurationMs     int64   `yaml:"p90_duration_ms"`
}

// Summarize digests entries. An empty input yields the zero Summary; the
// success rate is reported as 0, never NaN.
func Summarize(entries []Entry) Summary {
	var s Summary
	s.Total = len(entries)
	if s.Total == 0 {
		return s
	}

	durations := make([]int64, 0, len(entries))
	var totalDuration int64
	for _, e := range entries {
		if e.OK {
			s.SuccessCount++
		} else {
			s.FailureCount++
		}
		durations = append(durations, e.DurationMs)
		totalDuration += e.DurationMs
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	s.SuccessRate = float64(s.SuccessCount) / float64(s.Total)
	s.AverageDurationMs = float64(totalDuration) / float64(s.Total)
	s.P50DurationMs = nearestRank(durations, 0.50)
	s.P90DurationMs = nearestRank(durations, 0.90)
	return s
}

// nearestRank picks rank ceil(p*n) (1-indexed, clamped to [1,n]) from an
// ascending-sorted slice.
func nearestRank(sorted []int64, p float64) int64 {
	n := len(sorted)
	rank := int(math.Ceil(p * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}
