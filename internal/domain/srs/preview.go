package srs

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/phrazzld/cadence/internal/domain"
)

// Option is the projected outcome of one candidate grade.
type Option struct {
	Grade    domain.Grade  `json:"grade"`
	Interval time.Duration `json:"interval"`
	Label    string        `json:"label"`
}

// PreviewLabel returns a short human-readable label ("10m", "3d") for the
// interval grade would produce. The record is not modified.
//
// The record's last measured latency stands in for the answer that has not
// been given yet; records without one use the fast threshold.
func PreviewLabel(
	progress *domain.Progress,
	grade domain.Grade,
	params *Params,
	now time.Time,
) (string, error) {
	interval, err := previewInterval(progress, grade, params, now)
	if err != nil {
		return "", err
	}
	return FormatDuration(interval), nil
}

// PreviewAll returns the projected interval and label for every grade,
// ordered from again to easy.
func PreviewAll(progress *domain.Progress, params *Params, now time.Time) []Option {
	options := make([]Option, 0, len(domain.Grades))
	for _, g := range domain.Grades {
		// Grades only holds valid values
		interval, _ := previewInterval(progress, g, params, now)
		options = append(options, Option{
			Grade:    g,
			Interval: interval,
			Label:    FormatDuration(interval),
		})
	}
	return options
}

func previewInterval(
	progress *domain.Progress,
	grade domain.Grade,
	params *Params,
	now time.Time,
) (time.Duration, error) {
	params = normalizeParams(params)
	p := Normalize(progress, params, now)

	latency := params.Timing.FastMs
	if p.LatencyCount > 0 {
		latency = p.LastLatencyMs
	}

	return ComputeNextInterval(p, grade, params, &latency, now)
}

// FormatDuration renders d with the largest unit that keeps it readable:
// minutes under an hour, hours under a day, days under a month, months under
// a year and years with one decimal beyond that.
func FormatDuration(d time.Duration) string {
	mins := int64(math.Round(d.Minutes()))
	if mins < 60 {
		return fmt.Sprintf("%dm", max(mins, 1))
	}

	hours := int64(math.Round(d.Hours()))
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	totalDays := d.Hours() / 24
	days := int64(math.Round(totalDays))
	if days < 30 {
		return fmt.Sprintf("%dd", days)
	}
	if days < 365 {
		return fmt.Sprintf("%dmo", int64(math.Round(totalDays/30)))
	}

	years := math.Round(totalDays/365*10) / 10
	return strconv.FormatFloat(years, 'f', -1, 64) + "y"
}
