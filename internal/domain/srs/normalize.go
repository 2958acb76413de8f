package srs

import (
	"math"
	"time"

	"github.com/phrazzld/cadence/internal/domain"
)

// Normalize returns a fully populated copy of progress that every other
// scheduler function can rely on. The input is never modified.
//
// A nil record becomes a freshly introduced one due at now. A missing or
// unusable ease becomes the default and is then clamped; negative counters,
// intervals and latencies become zero; a zero due time becomes now; the due
// date key is always recomputed from the due time; the latency history is
// trimmed to its most recent samples; the penalty level is held within
// [0, MaxLevel]. Date keys that do not parse are dropped, and a penalty
// stamped with one is cleared.
func Normalize(progress *domain.Progress, params *Params, now time.Time) *domain.Progress {
	params = normalizeParams(params)
	if progress == nil {
		return domain.NewProgress(now, params.Location)
	}

	p := progress.Clone()

	if math.IsNaN(p.Ease) || math.IsInf(p.Ease, 0) || p.Ease <= 0 {
		p.Ease = domain.DefaultEase
	}
	p.Ease = clamp(p.Ease, domain.MinEase, domain.MaxEase)

	if math.IsNaN(p.IntervalDays) || math.IsInf(p.IntervalDays, 0) || p.IntervalDays < 0 {
		p.IntervalDays = 0
	}

	p.Repetitions = max(p.Repetitions, 0)
	p.ReviewCount = max(p.ReviewCount, 0)
	p.CorrectCount = max(p.CorrectCount, 0)
	p.WrongCount = max(p.WrongCount, 0)

	if p.DueAt.IsZero() {
		p.DueAt = now
	}
	p.DueDateKey = domain.DateKey(p.DueAt, params.Location)

	if !validDateKey(p.IntroducedOnDateKey, params.Location) {
		p.IntroducedOnDateKey = ""
	}
	if p.Introduced && p.IntroducedOnDateKey == "" {
		p.IntroducedOnDateKey = domain.DateKey(now, params.Location)
	}

	p.LastLatencyMs = max(p.LastLatencyMs, 0)
	p.AvgLatencyMs = max(p.AvgLatencyMs, 0)
	p.LatencyCount = max(p.LatencyCount, 0)
	if p.LatencyHistory == nil {
		p.LatencyHistory = []int64{}
	}
	p.LatencyHistory = trimHistory(p.LatencyHistory)

	// A level without a readable day cannot be in force today
	if !validDateKey(p.PenaltyDateKey, params.Location) {
		p.PenaltyDateKey = ""
		p.PenaltyLevel = 0
	}
	p.PenaltyLevel = min(max(p.PenaltyLevel, 0), params.Penalties.MaxLevel)

	return p
}

// validDateKey reports whether key is empty or a parseable date key.
func validDateKey(key string, loc *time.Location) bool {
	if key == "" {
		return true
	}
	_, err := domain.ParseDateKey(key, loc)
	return err == nil
}
