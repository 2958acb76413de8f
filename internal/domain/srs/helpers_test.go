package srs

import (
	"time"

	"github.com/phrazzld/cadence/internal/domain"
)

// testNow is a fixed mid-day instant so that short intervals never cross
// a calendar boundary.
var testNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

const testToday = "2024-05-15"

func testParams() *Params {
	params := NewDefaultParams()
	params.Location = time.UTC
	return params
}

// matureProgress returns a stage 3 record with the given interval.
func matureProgress(intervalDays float64) *domain.Progress {
	p := domain.NewProgress(testNow.AddDate(0, 0, -int(intervalDays)), time.UTC)
	p.ReviewCount = 5
	p.Repetitions = 5
	p.IntervalDays = intervalDays
	p.DueAt = testNow
	return p
}

func latency(ms int64) *int64 {
	return &ms
}
