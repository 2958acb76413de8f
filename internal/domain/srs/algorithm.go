package srs

import (
	"fmt"
	"math"
	"time"

	"github.com/phrazzld/cadence/internal/domain"
)

const (
	oneDay = 24 * time.Hour

	// minInterval is the shortest delay the scheduler ever produces.
	minInterval = time.Minute

	// MaxIntervalDays is the longest delay, in days, the scheduler produces
	// or a review can be postponed by. It keeps durations inside the
	// time.Duration range.
	MaxIntervalDays = 36500
)

// Stage is the coarse phase of an item's review history.
type Stage int

// Grading stages. An item moves forward monotonically as its review count grows.
const (
	StageFirst  Stage = 1 // no prior reviews
	StageSecond Stage = 2 // exactly one prior review
	StageMature Stage = 3 // two or more prior reviews
)

// StageFor derives the grading stage from the number of prior reviews.
// A nil record is treated as never reviewed.
func StageFor(progress *domain.Progress) Stage {
	if progress == nil || progress.ReviewCount <= 0 {
		return StageFirst
	}
	if progress.ReviewCount == 1 {
		return StageSecond
	}
	return StageMature
}

// ComputeNextInterval returns how long after now the item would become due
// if graded with grade. It does not modify progress.
//
// The penalty level used is the one in effect at now: a level stamped on an
// earlier calendar day counts as zero. latencyMs may be nil when no
// measurement was taken.
func ComputeNextInterval(
	progress *domain.Progress,
	grade domain.Grade,
	params *Params,
	latencyMs *int64,
	now time.Time,
) (time.Duration, error) {
	if !grade.IsValid() {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidGrade, string(grade))
	}

	params = normalizeParams(params)
	p := Normalize(progress, params, now)
	level := effectivePenaltyLevel(p, domain.DateKey(now, params.Location))

	return calculateInterval(p, grade, params, normalizeLatency(latencyMs), level), nil
}

// calculateInterval is the core interval rule set. It expects a normalized
// record and parameters.
//
// Stages 1 and 2 use fixed durations: minutes for again/hard, days for
// good/easy, with easy forced at least one day past good.
//
// At the mature stage, again resets to a short fixed relearn delay. The other
// grades grow the current interval (at least one day) by the grade multiplier,
// the timing factor and the penalty factor. Easy is then held at least one
// whole day beyond what good would have produced under the same factors.
func calculateInterval(
	p *domain.Progress,
	grade domain.Grade,
	params *Params,
	latencyMs *int64,
	penaltyLevel int,
) time.Duration {
	stage := StageFor(p)

	if stage != StageMature {
		sp := params.stageParams(stage)
		good := min(sp.GoodDays, MaxIntervalDays-1)
		switch grade {
		case domain.GradeAgain:
			return minutes(sp.AgainMins)
		case domain.GradeHard:
			return minutes(sp.HardMins)
		case domain.GradeGood:
			return days(float64(good))
		default:
			return days(float64(max(sp.EasyDays, good+1)))
		}
	}

	if grade == domain.GradeAgain {
		return minutes(params.Penalties.Day3AgainMins)
	}

	base := math.Max(1, p.IntervalDays)
	timing := timingFactor(latencyMs, params.Timing)

	next := base *
		params.Intervals.For(grade) *
		timing *
		penaltyFactor(grade, penaltyLevel, params)
	next = math.Min(next, matureCeiling(grade))

	if grade == domain.GradeEasy {
		good := base *
			params.Intervals.Good *
			timing *
			penaltyFactor(domain.GradeGood, penaltyLevel, params)
		good = math.Min(good, matureCeiling(domain.GradeGood))
		next = math.Max(next, math.Ceil(good)+1)
	}

	return days(next)
}

// matureCeiling is the largest day count a mature grade may produce. The
// ceilings are staggered so that hard < good < easy still holds once the
// interval reaches MaxIntervalDays.
func matureCeiling(grade domain.Grade) float64 {
	switch grade {
	case domain.GradeHard:
		return MaxIntervalDays - 3
	case domain.GradeGood:
		return MaxIntervalDays - 2
	default:
		return MaxIntervalDays
	}
}

// timingFactor scales an interval by how quickly the answer was recalled.
// Without a measurement it is neutral. Otherwise it moves linearly from
// ClampMax at FastMs to ClampMin at SlowMs.
func timingFactor(latencyMs *int64, timing TimingParams) float64 {
	if latencyMs == nil {
		return 1
	}
	latency := *latencyMs

	var fraction float64
	span := timing.SlowMs - timing.FastMs
	switch {
	case span <= 0 && latency <= timing.FastMs:
		fraction = 0
	case span <= 0:
		fraction = 1
	default:
		fraction = float64(latency-timing.FastMs) / float64(span)
	}
	fraction = clamp(fraction, 0, 1)

	return timing.ClampMax + (timing.ClampMin-timing.ClampMax)*fraction
}

// penaltyFactor attenuates successful grades while the item carries a
// same-day penalty. Level 1 uses the L1 table, every higher level the L2Plus
// table. With CompoundAfterL1 the L2Plus multiplier is raised to level-1.
func penaltyFactor(grade domain.Grade, level int, params *Params) float64 {
	if level <= 0 || grade == domain.GradeAgain {
		return 1
	}

	multiplier := params.penaltyMultipliers(level).For(grade)
	if params.Penalties.CompoundAfterL1 && level > 1 {
		return math.Pow(multiplier, float64(level-1))
	}
	return multiplier
}

// effectivePenaltyLevel returns the level in force on the calendar day today.
func effectivePenaltyLevel(p *domain.Progress, today string) int {
	if p.PenaltyDateKey != today {
		return 0
	}
	return p.PenaltyLevel
}

// calculateNewEase applies the bounded SM-2 ease rule:
// ease + 0.1 - (5-q)*(0.08 + (5-q)*0.02), clamped to [MinEase, MaxEase].
func calculateNewEase(current float64, grade domain.Grade) float64 {
	d := float64(5 - grade.Quality())
	next := current + 0.1 - d*(0.08+d*0.02)
	return clamp(next, domain.MinEase, domain.MaxEase)
}

// ApplyGrade returns the record that results from grading progress with
// grade at now. The input record is left untouched.
//
// The steps are ordered so that an again on a mature item raises the
// penalty level only after its own interval has been computed; the new
// level first affects the next grading call on the same day.
//
// Latency is recorded only when a measurement is present and the resulting
// interval is at least one day. Quick relearn attempts are not representative
// recall trials.
func ApplyGrade(
	progress *domain.Progress,
	grade domain.Grade,
	params *Params,
	latencyMs *int64,
	now time.Time,
) (*domain.Progress, error) {
	if !grade.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidGrade, string(grade))
	}

	params = normalizeParams(params)
	next := Normalize(progress, params, now)
	stage := StageFor(next)
	latency := normalizeLatency(latencyMs)

	// Penalties only live for one calendar day
	today := domain.DateKey(now, params.Location)
	if next.PenaltyDateKey != today {
		next.PenaltyLevel = 0
	}
	next.PenaltyDateKey = today

	interval := calculateInterval(next, grade, params, latency, next.PenaltyLevel)
	next.DueAt = now.Add(interval)
	next.DueDateKey = domain.DateKey(next.DueAt, params.Location)

	if stage == StageMature && grade == domain.GradeAgain {
		next.PenaltyLevel = min(next.PenaltyLevel+1, params.Penalties.MaxLevel)
	}

	next.Ease = calculateNewEase(next.Ease, grade)

	next.ReviewCount++
	next.Repetitions++
	if grade.IsCorrect() {
		next.CorrectCount++
	}
	if grade == domain.GradeAgain {
		next.WrongCount++
	}
	next.LastReviewedAt = now

	if latency != nil && interval >= oneDay {
		recordLatency(next, *latency)
	}

	if interval >= oneDay {
		next.IntervalDays = float64(interval) / float64(oneDay)
	} else {
		next.IntervalDays = 0
	}

	return next, nil
}

// recordLatency folds one measurement into the running statistics.
func recordLatency(p *domain.Progress, latencyMs int64) {
	count := float64(p.LatencyCount)
	avg := (float64(p.AvgLatencyMs)*count + float64(latencyMs)) / (count + 1)

	p.LastLatencyMs = latencyMs
	p.AvgLatencyMs = int64(math.Round(avg))
	p.LatencyCount++
	p.LatencyHistory = trimHistory(append(p.LatencyHistory, latencyMs))
}

// trimHistory keeps the most recent MaxLatencyHistory samples.
func trimHistory(history []int64) []int64 {
	if len(history) <= domain.MaxLatencyHistory {
		return history
	}
	out := make([]int64, domain.MaxLatencyHistory)
	copy(out, history[len(history)-domain.MaxLatencyHistory:])
	return out
}

// normalizeLatency copies the measurement and floors it at zero.
func normalizeLatency(latencyMs *int64) *int64 {
	if latencyMs == nil {
		return nil
	}
	v := max(*latencyMs, 0)
	return &v
}

func minutes(n int) time.Duration {
	return max(time.Duration(n)*time.Minute, minInterval)
}

// days converts a fractional day count to a duration of at least one minute.
func days(n float64) time.Duration {
	if math.IsNaN(n) || n <= 0 {
		return minInterval
	}
	n = math.Min(n, MaxIntervalDays)
	return max(time.Duration(n*float64(oneDay)), minInterval)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
