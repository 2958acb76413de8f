package srs

import (
	"testing"
	"time"

	"github.com/phrazzld/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		in       time.Duration
		expected string
	}{
		{0, "1m"},
		{30 * time.Second, "1m"},
		{10 * time.Minute, "10m"},
		{59 * time.Minute, "59m"},
		{90 * time.Minute, "2h"},
		{23 * time.Hour, "23h"},
		{24 * time.Hour, "1d"},
		{3 * oneDay, "3d"},
		{29 * oneDay, "29d"},
		{45 * oneDay, "2mo"},
		{200 * oneDay, "7mo"},
		{400 * oneDay, "1.1y"},
		{730 * oneDay, "2y"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatDuration(tc.in))
		})
	}
}

func TestPreviewLabelFreshRecord(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := testParams()
	p := domain.NewProgress(testNow, time.UTC)

	expected := map[domain.Grade]string{
		domain.GradeAgain: "1m",
		domain.GradeHard:  "10m",
		domain.GradeGood:  "1d",
		domain.GradeEasy:  "3d",
	}
	for grade, label := range expected {
		got, err := PreviewLabel(p, grade, params, testNow)
		require.NoError(t, err)
		assert.Equal(t, label, got, "grade %s", grade)
	}
}

func TestPreviewLabelUsesLatency(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := testParams()

	// Without a measurement the fast threshold is assumed: 10 * 2.0 * 1.2
	neutral, err := PreviewLabel(matureProgress(10), domain.GradeGood, params, testNow)
	require.NoError(t, err)
	assert.Equal(t, "24d", neutral)

	// The last slow answer stands in for the next one: 10 * 2.0 * 0.8
	slow := matureProgress(10)
	slow.LatencyCount = 1
	slow.LastLatencyMs = 12000
	label, err := PreviewLabel(slow, domain.GradeGood, params, testNow)
	require.NoError(t, err)
	assert.Equal(t, "16d", label)
}

func TestPreviewLabelDoesNotMutate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	p := matureProgress(10)
	p.PenaltyLevel = 1
	p.PenaltyDateKey = testToday
	before := p.Clone()

	_, err := PreviewLabel(p, domain.GradeAgain, testParams(), testNow)
	require.NoError(t, err)
	assert.Equal(t, before, p)
}

func TestPreviewAll(t *testing.T) {
	t.Parallel() // Enable parallel execution

	p := matureProgress(10)
	p.PenaltyLevel = 1
	p.PenaltyDateKey = testToday

	options := PreviewAll(p, testParams(), testNow)
	require.Len(t, options, 4)

	assert.Equal(t, domain.GradeAgain, options[0].Grade)
	assert.Equal(t, 10*time.Minute, options[0].Interval)
	assert.Equal(t, "10m", options[0].Label)

	// 10 * 2.0 * 1.2 * 0.85 = 20.4 days
	assert.Equal(t, domain.GradeGood, options[2].Grade)
	assert.InDelta(t, 20.4, float64(options[2].Interval)/float64(oneDay), 1e-9)
	assert.Equal(t, "20d", options[2].Label)

	for i := 1; i < len(options); i++ {
		assert.Greater(t, options[i].Interval, options[i-1].Interval,
			"%s must schedule later than %s", options[i].Grade, options[i-1].Grade)
	}
}

func TestServicePreviewMatchesApply(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewServiceWithParams(testParams())

	p := matureProgress(6)
	p.LatencyCount = 1
	p.LastLatencyMs = 5000

	for _, grade := range domain.Grades {
		label, err := service.Preview(p, grade, testNow)
		require.NoError(t, err)

		next, err := service.ApplyGrade(p, grade, &p.LastLatencyMs, testNow)
		require.NoError(t, err)

		assert.Equal(t, FormatDuration(next.DueAt.Sub(testNow)), label, "grade %s", grade)
	}
}
