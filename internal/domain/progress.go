package domain

import (
	"fmt"
	"time"
)

// Default values and bounds for a progress record.
const (
	DefaultEase = 2.5
	MinEase     = 1.3
	MaxEase     = 2.8

	// MaxLatencyHistory is the number of latency samples retained per item.
	MaxLatencyHistory = 30

	// DateKeyLayout is the layout of calendar date keys.
	DateKeyLayout = "2006-01-02"
)

// Progress tracks the scheduling state of a single learning item.
// The engine never mutates a Progress in place; every grading event
// produces a new record that the caller persists.
type Progress struct {
	Ease         float64 `json:"ease"`          // Growth factor, clamped to [MinEase, MaxEase]
	IntervalDays float64 `json:"interval_days"` // 0 while on a sub-day schedule
	Repetitions  int     `json:"repetitions"`
	ReviewCount  int     `json:"review_count"` // Total grading events; selects the stage
	CorrectCount int     `json:"correct_count"`
	WrongCount   int     `json:"wrong_count"`

	DueAt      time.Time `json:"due_at"`
	DueDateKey string    `json:"due_date_key"` // Local calendar day containing DueAt

	Introduced          bool   `json:"introduced"`
	IntroducedOnDateKey string `json:"introduced_on_date_key,omitempty"`

	LastLatencyMs  int64   `json:"last_latency_ms"`
	AvgLatencyMs   int64   `json:"avg_latency_ms"`
	LatencyCount   int     `json:"latency_count"`
	LatencyHistory []int64 `json:"latency_history"`

	PenaltyLevel   int    `json:"penalty_level"`
	PenaltyDateKey string `json:"penalty_date_key,omitempty"`

	LastReviewedAt time.Time `json:"last_reviewed_at"` // Zero until the first grading event
}

// NewProgress creates the record for an item entering the review pool.
// The item is due immediately.
func NewProgress(now time.Time, loc *time.Location) *Progress {
	today := DateKey(now, loc)
	return &Progress{
		Ease:                DefaultEase,
		IntervalDays:        0,
		DueAt:               now,
		DueDateKey:          today,
		Introduced:          true,
		IntroducedOnDateKey: today,
		LatencyHistory:      []int64{},
	}
}

// IsDue reports whether the item should be offered for review at now.
// Items that were never introduced are never due.
func (p *Progress) IsDue(now time.Time) bool {
	if p == nil || !p.Introduced {
		return false
	}
	return !p.DueAt.After(now)
}

// Clone returns a deep copy of the record.
func (p *Progress) Clone() *Progress {
	if p == nil {
		return nil
	}
	out := *p
	if p.LatencyHistory != nil {
		out.LatencyHistory = make([]int64, len(p.LatencyHistory))
		copy(out.LatencyHistory, p.LatencyHistory)
	}
	return &out
}

// DateKey returns the calendar date containing t in loc, formatted as
// YYYY-MM-DD. A nil location means time.Local.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return t, nil
}
