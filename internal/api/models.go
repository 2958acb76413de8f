package api

import (
	"time"

	"github.com/phrazzld/cadence/internal/domain"
	"github.com/phrazzld/cadence/internal/domain/srs"
)

// GradeRequest defines the payload for the grade endpoint.
// A missing progress record is treated as a fresh item.
type GradeRequest struct {
	Progress  *domain.Progress  `json:"progress"`
	Grade     string            `json:"grade"                validate:"required"`
	LatencyMs *int64            `json:"latency_ms,omitempty" validate:"omitempty,gte=0"`
	Now       *time.Time        `json:"now,omitempty"`
	Config    *srs.ParamsConfig `json:"config,omitempty"`
}

// GradeResponse is the result of applying a grade.
type GradeResponse struct {
	Progress *domain.Progress `json:"progress"`

	// Stage is the rule set the grade was evaluated under
	Stage          int    `json:"stage"`
	NextIntervalMs int64  `json:"next_interval_ms"`
	Label          string `json:"label"`
}

// PreviewRequest defines the payload for the preview endpoint.
type PreviewRequest struct {
	Progress *domain.Progress  `json:"progress"`
	Now      *time.Time        `json:"now,omitempty"`
	Config   *srs.ParamsConfig `json:"config,omitempty"`
}

// PreviewOption is the projected outcome of one grade.
type PreviewOption struct {
	Grade      domain.Grade `json:"grade"`
	IntervalMs int64        `json:"interval_ms"`
	Label      string       `json:"label"`
}

// PreviewResponse lists the projected outcome of every grade, again first.
type PreviewResponse struct {
	Stage   int             `json:"stage"`
	Options []PreviewOption `json:"options"`
}

// IntroduceRequest defines the payload for the introduce endpoint.
// An empty body is accepted.
type IntroduceRequest struct {
	Now    *time.Time        `json:"now,omitempty"`
	Config *srs.ParamsConfig `json:"config,omitempty"`
}

// PostponeRequest defines the payload for the postpone endpoint.
type PostponeRequest struct {
	Progress *domain.Progress  `json:"progress"`
	Days     int               `json:"days"             validate:"required,min=1,max=36500"`
	Now      *time.Time        `json:"now,omitempty"`
	Config   *srs.ParamsConfig `json:"config,omitempty"`
}

// ProgressResponse wraps a single progress record.
type ProgressResponse struct {
	Progress *domain.Progress `json:"progress"`
}

// ParamsResponse reports the parameters the server schedules with when a
// request carries no overrides.
type ParamsResponse struct {
	srs.Params
	Timezone string `json:"timezone"`
}
