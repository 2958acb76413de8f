package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewProgress(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+9", 9*60*60)
	// 20:00 UTC is already the next day at UTC+9
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	p := NewProgress(now, loc)

	if p.Ease != DefaultEase {
		t.Errorf("Expected ease %v, got %v", DefaultEase, p.Ease)
	}
	if p.IntervalDays != 0 {
		t.Errorf("Expected interval 0, got %v", p.IntervalDays)
	}
	if !p.DueAt.Equal(now) {
		t.Errorf("Expected due at %v, got %v", now, p.DueAt)
	}
	if p.DueDateKey != "2024-03-11" {
		t.Errorf("Expected due date key 2024-03-11, got %s", p.DueDateKey)
	}
	if !p.Introduced || p.IntroducedOnDateKey != "2024-03-11" {
		t.Errorf("Expected item introduced on 2024-03-11, got %v/%s", p.Introduced, p.IntroducedOnDateKey)
	}
	if p.ReviewCount != 0 || p.PenaltyLevel != 0 || len(p.LatencyHistory) != 0 {
		t.Error("Expected zeroed counters for a new record")
	}
}

func TestProgressIsDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	p := NewProgress(now, time.UTC)

	if !p.IsDue(now) {
		t.Error("Expected new record to be due immediately")
	}

	p.DueAt = now.Add(time.Minute)
	if p.IsDue(now) {
		t.Error("Expected record due in the future to not be due")
	}

	p.DueAt = now.Add(-time.Hour)
	p.Introduced = false
	if p.IsDue(now) {
		t.Error("Expected un-introduced record to never be due")
	}

	var nilProgress *Progress
	if nilProgress.IsDue(now) {
		t.Error("Expected nil record to never be due")
	}
}

func TestProgressClone(t *testing.T) {
	t.Parallel()

	p := &Progress{Ease: 2.1, LatencyHistory: []int64{100, 200}}
	c := p.Clone()
	c.LatencyHistory[0] = 999
	c.Ease = 1.5

	if p.LatencyHistory[0] != 100 {
		t.Error("Expected clone to not share the latency history")
	}
	if p.Ease != 2.1 {
		t.Error("Expected clone to not alias the original")
	}

	var nilProgress *Progress
	if nilProgress.Clone() != nil {
		t.Error("Expected nil clone of nil record")
	}
}

func TestDateKey(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 1, 2, 30, 0, 0, time.UTC)
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	if got := DateKey(ts, time.UTC); got != "2024-01-01" {
		t.Errorf("Expected 2024-01-01, got %s", got)
	}
	if got := DateKey(ts, ny); got != "2023-12-31" {
		t.Errorf("Expected 2023-12-31, got %s", got)
	}

	parsed, err := ParseDateKey("2024-02-29", time.UTC)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !parsed.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected parsed time %v", parsed)
	}

	if _, err := ParseDateKey("29/02/2024", time.UTC); !errors.Is(err, ErrInvalidDateKey) {
		t.Errorf("Expected ErrInvalidDateKey, got %v", err)
	}
}
