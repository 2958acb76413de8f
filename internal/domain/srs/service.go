package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/cadence/internal/domain"
)

// Common errors
var (
	ErrInvalidDays = errors.New("postpone days must be between 1 and 36500")
)

// Service defines the interface for scheduler operations.
// Implementations hold no mutable state and are safe for concurrent use.
type Service interface {
	// Stage reports which rule set governs the next grading of progress
	Stage(progress *domain.Progress) Stage

	// NextInterval computes the delay a grade would produce without applying it
	NextInterval(
		progress *domain.Progress,
		grade domain.Grade,
		latencyMs *int64,
		now time.Time,
	) (time.Duration, error)

	// ApplyGrade computes the new record for a grading event
	ApplyGrade(
		progress *domain.Progress,
		grade domain.Grade,
		latencyMs *int64,
		now time.Time,
	) (*domain.Progress, error)

	// Preview returns the display label for a candidate grade
	Preview(progress *domain.Progress, grade domain.Grade, now time.Time) (string, error)

	// PreviewAll returns the projected outcome of every grade
	PreviewAll(progress *domain.Progress, now time.Time) []Option

	// Introduce creates the record for an item entering the review pool
	Introduce(now time.Time) *domain.Progress

	// PostponeReview pushes the due time forward by between 1 and
	// MaxIntervalDays days
	PostponeReview(progress *domain.Progress, days int, now time.Time) (*domain.Progress, error)

	// Params returns a copy of the parameters the service schedules with
	Params() Params

	// WithOverrides returns a service whose parameters are this service's
	// parameters with config applied on top
	WithOverrides(config ParamsConfig) Service
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduler service with custom
// parameters. Missing knobs fall back to their defaults; a nil params is the
// same as NewDefaultService.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: normalizeParams(params),
	}
}

func (s *defaultService) Stage(progress *domain.Progress) Stage {
	return StageFor(progress)
}

func (s *defaultService) NextInterval(
	progress *domain.Progress,
	grade domain.Grade,
	latencyMs *int64,
	now time.Time,
) (time.Duration, error) {
	return ComputeNextInterval(progress, grade, s.params, latencyMs, now)
}

func (s *defaultService) ApplyGrade(
	progress *domain.Progress,
	grade domain.Grade,
	latencyMs *int64,
	now time.Time,
) (*domain.Progress, error) {
	return ApplyGrade(progress, grade, s.params, latencyMs, now)
}

func (s *defaultService) Preview(
	progress *domain.Progress,
	grade domain.Grade,
	now time.Time,
) (string, error) {
	return PreviewLabel(progress, grade, s.params, now)
}

func (s *defaultService) PreviewAll(progress *domain.Progress, now time.Time) []Option {
	return PreviewAll(progress, s.params, now)
}

func (s *defaultService) Introduce(now time.Time) *domain.Progress {
	return domain.NewProgress(now, s.params.Location)
}

// PostponeReview implements the Service interface for postponing reviews
func (s *defaultService) PostponeReview(
	progress *domain.Progress,
	days int,
	now time.Time,
) (*domain.Progress, error) {
	if days < 1 || days > MaxIntervalDays {
		return nil, ErrInvalidDays
	}

	next := Normalize(progress, s.params, now)
	next.DueAt = next.DueAt.AddDate(0, 0, days)
	next.DueDateKey = domain.DateKey(next.DueAt, s.params.Location)

	return next, nil
}

func (s *defaultService) Params() Params {
	return *s.params
}

func (s *defaultService) WithOverrides(config ParamsConfig) Service {
	return &defaultService{
		params: MergeParams(s.params, config),
	}
}
