package srs

import (
	"math"
	"time"

	"github.com/phrazzld/cadence/internal/domain"
)

// StageParams holds the fixed durations used for the first and second
// grading events of an item.
type StageParams struct {
	AgainMins int `json:"again_mins"`
	HardMins  int `json:"hard_mins"`
	GoodDays  int `json:"good_days"`
	EasyDays  int `json:"easy_days"`
}

// GradeMultipliers holds one multiplier per successful grade.
type GradeMultipliers struct {
	Hard float64 `json:"hard"`
	Good float64 `json:"good"`
	Easy float64 `json:"easy"`
}

// For returns the multiplier for g. Again has no multiplier and yields 1.
func (m GradeMultipliers) For(g domain.Grade) float64 {
	switch g {
	case domain.GradeHard:
		return m.Hard
	case domain.GradeGood:
		return m.Good
	case domain.GradeEasy:
		return m.Easy
	default:
		return 1
	}
}

// TimingParams controls how response latency scales mature intervals.
// Answers at or below FastMs earn ClampMax; at or above SlowMs earn ClampMin.
type TimingParams struct {
	FastMs   int64   `json:"fast_ms"`
	SlowMs   int64   `json:"slow_ms"`
	ClampMin float64 `json:"clamp_min"`
	ClampMax float64 `json:"clamp_max"`
}

// PenaltyParams controls the same-day attenuation applied after repeated
// failures on mature items.
type PenaltyParams struct {
	L1              GradeMultipliers `json:"l1"`
	L2Plus          GradeMultipliers `json:"l2plus"`
	Day3AgainMins   int              `json:"day3_again_mins"`
	MaxLevel        int              `json:"max_level"`
	CompoundAfterL1 bool             `json:"compound_after_l1"`
}

// Params defines all configurable parameters for the scheduler.
// A Params value is never modified after construction.
type Params struct {
	Stage1    StageParams      `json:"stage1"`
	Stage2    StageParams      `json:"stage2"`
	Intervals GradeMultipliers `json:"intervals"`
	Timing    TimingParams     `json:"timing"`
	Penalties PenaltyParams    `json:"penalties"`

	// Location is the learner's timezone; date keys are computed in it.
	Location *time.Location `json:"-"`
}

// ParamsConfig allows overriding parameters. Zero values inherit from the
// base the config is merged onto. CompoundAfterL1 is a pointer so that an
// explicit false can override a true base.
type ParamsConfig struct {
	Stage1    StageParams      `json:"stage1"`
	Stage2    StageParams      `json:"stage2"`
	Intervals GradeMultipliers `json:"intervals"`
	Timing    TimingParams     `json:"timing"`
	Penalties PenaltyConfig    `json:"penalties"`
	Timezone  string           `json:"timezone,omitempty"`
}

// PenaltyConfig is the override shape of PenaltyParams.
type PenaltyConfig struct {
	L1              GradeMultipliers `json:"l1"`
	L2Plus          GradeMultipliers `json:"l2plus"`
	Day3AgainMins   int              `json:"day3_again_mins"`
	MaxLevel        int              `json:"max_level"`
	CompoundAfterL1 *bool            `json:"compound_after_l1,omitempty"`
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Stage1: StageParams{
			AgainMins: 1,
			HardMins:  10,
			GoodDays:  1,
			EasyDays:  3,
		},
		Stage2: StageParams{
			AgainMins: 5,
			HardMins:  30,
			GoodDays:  3,
			EasyDays:  5,
		},
		Intervals: GradeMultipliers{
			Hard: 1.2,
			Good: 2.0,
			Easy: 3.0,
		},
		Timing: TimingParams{
			FastMs:   3000,
			SlowMs:   12000,
			ClampMin: 0.8,
			ClampMax: 1.2,
		},
		Penalties: PenaltyParams{
			L1:            GradeMultipliers{Hard: 0.8, Good: 0.85, Easy: 0.9},
			L2Plus:        GradeMultipliers{Hard: 0.6, Good: 0.7, Easy: 0.8},
			Day3AgainMins: 10,
			MaxLevel:      3,
		},
		Location: time.Local,
	}
}

// NewParams creates a new Params instance with custom configuration laid
// over the defaults.
func NewParams(config ParamsConfig) *Params {
	return MergeParams(NewDefaultParams(), config)
}

// MergeParams returns a copy of base with every non-zero field of config
// applied. A nil base means the defaults. An unknown timezone is ignored and
// the base location kept.
func MergeParams(base *Params, config ParamsConfig) *Params {
	params := normalizeParams(base)

	mergeStage(&params.Stage1, config.Stage1)
	mergeStage(&params.Stage2, config.Stage2)
	mergeMultipliers(&params.Intervals, config.Intervals)

	if config.Timing.FastMs > 0 {
		params.Timing.FastMs = config.Timing.FastMs
	}
	if config.Timing.SlowMs > 0 {
		params.Timing.SlowMs = config.Timing.SlowMs
	}
	if config.Timing.ClampMin > 0 {
		params.Timing.ClampMin = config.Timing.ClampMin
	}
	if config.Timing.ClampMax > 0 {
		params.Timing.ClampMax = config.Timing.ClampMax
	}

	mergeMultipliers(&params.Penalties.L1, config.Penalties.L1)
	mergeMultipliers(&params.Penalties.L2Plus, config.Penalties.L2Plus)
	if config.Penalties.Day3AgainMins > 0 {
		params.Penalties.Day3AgainMins = config.Penalties.Day3AgainMins
	}
	if config.Penalties.MaxLevel > 0 {
		params.Penalties.MaxLevel = config.Penalties.MaxLevel
	}
	if config.Penalties.CompoundAfterL1 != nil {
		params.Penalties.CompoundAfterL1 = *config.Penalties.CompoundAfterL1
	}

	if config.Timezone != "" {
		if loc, err := time.LoadLocation(config.Timezone); err == nil {
			params.Location = loc
		}
	}

	return normalizeParams(params)
}

func mergeStage(dst *StageParams, src StageParams) {
	if src.AgainMins > 0 {
		dst.AgainMins = src.AgainMins
	}
	if src.HardMins > 0 {
		dst.HardMins = src.HardMins
	}
	if src.GoodDays > 0 {
		dst.GoodDays = src.GoodDays
	}
	if src.EasyDays > 0 {
		dst.EasyDays = src.EasyDays
	}
}

func mergeMultipliers(dst *GradeMultipliers, src GradeMultipliers) {
	if src.Hard > 0 {
		dst.Hard = src.Hard
	}
	if src.Good > 0 {
		dst.Good = src.Good
	}
	if src.Easy > 0 {
		dst.Easy = src.Easy
	}
}

// normalizeParams returns a complete copy of p. Missing or unusable knobs
// fall back to their defaults, and reversed timing bounds are swapped.
func normalizeParams(p *Params) *Params {
	def := NewDefaultParams()
	if p == nil {
		return def
	}
	out := *p

	fillStage(&out.Stage1, def.Stage1)
	fillStage(&out.Stage2, def.Stage2)
	fillMultipliers(&out.Intervals, def.Intervals)
	fillMultipliers(&out.Penalties.L1, def.Penalties.L1)
	fillMultipliers(&out.Penalties.L2Plus, def.Penalties.L2Plus)

	if out.Timing.FastMs <= 0 {
		out.Timing.FastMs = def.Timing.FastMs
	}
	if out.Timing.SlowMs <= 0 {
		out.Timing.SlowMs = def.Timing.SlowMs
	}
	if out.Timing.FastMs > out.Timing.SlowMs {
		out.Timing.FastMs, out.Timing.SlowMs = out.Timing.SlowMs, out.Timing.FastMs
	}
	if !positive(out.Timing.ClampMin) {
		out.Timing.ClampMin = def.Timing.ClampMin
	}
	if !positive(out.Timing.ClampMax) {
		out.Timing.ClampMax = def.Timing.ClampMax
	}
	if out.Timing.ClampMin > out.Timing.ClampMax {
		out.Timing.ClampMin, out.Timing.ClampMax = out.Timing.ClampMax, out.Timing.ClampMin
	}

	if out.Penalties.Day3AgainMins <= 0 {
		out.Penalties.Day3AgainMins = def.Penalties.Day3AgainMins
	}
	if out.Penalties.MaxLevel <= 0 {
		out.Penalties.MaxLevel = def.Penalties.MaxLevel
	}

	if out.Location == nil {
		out.Location = def.Location
	}

	return &out
}

func fillStage(dst *StageParams, def StageParams) {
	if dst.AgainMins <= 0 {
		dst.AgainMins = def.AgainMins
	}
	if dst.HardMins <= 0 {
		dst.HardMins = def.HardMins
	}
	if dst.GoodDays <= 0 {
		dst.GoodDays = def.GoodDays
	}
	if dst.EasyDays <= 0 {
		dst.EasyDays = def.EasyDays
	}
}

func fillMultipliers(dst *GradeMultipliers, def GradeMultipliers) {
	if !positive(dst.Hard) {
		dst.Hard = def.Hard
	}
	if !positive(dst.Good) {
		dst.Good = def.Good
	}
	if !positive(dst.Easy) {
		dst.Easy = def.Easy
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// stageParams returns the fixed knobs for an early stage.
func (p *Params) stageParams(stage Stage) StageParams {
	if stage == StageFirst {
		return p.Stage1
	}
	return p.Stage2
}

// penaltyMultipliers returns the multiplier table for a penalty level >= 1.
func (p *Params) penaltyMultipliers(level int) GradeMultipliers {
	if level == 1 {
		return p.Penalties.L1
	}
	return p.Penalties.L2Plus
}
