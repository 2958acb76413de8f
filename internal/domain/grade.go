package domain

import (
	"encoding"
	"fmt"
)

// Grade is the learner's assessment of a single recall attempt.
type Grade string

// Possible grade values
const (
	GradeAgain Grade = "again"
	GradeHard  Grade = "hard"
	GradeGood  Grade = "good"
	GradeEasy  Grade = "easy"
)

// Grades lists every valid grade from worst to best.
var Grades = [...]Grade{GradeAgain, GradeHard, GradeGood, GradeEasy}

var (
	_ fmt.Stringer             = Grade("")
	_ encoding.TextMarshaler   = Grade("")
	_ encoding.TextUnmarshaler = (*Grade)(nil)
)

// ParseGrade converts a raw token into a Grade.
// Returns ErrInvalidGrade for anything other than the four literal tokens.
func ParseGrade(s string) (Grade, error) {
	g := Grade(s)
	if !g.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGrade, s)
	}
	return g, nil
}

// IsValid reports whether g is one of the four known grades.
func (g Grade) IsValid() bool {
	switch g {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return true
	default:
		return false
	}
}

// Quality returns the SM-2 style quality score used by the ease update:
// easy=5, good=4, hard=3, again=1. Invalid grades score 0.
func (g Grade) Quality() int {
	switch g {
	case GradeEasy:
		return 5
	case GradeGood:
		return 4
	case GradeHard:
		return 3
	case GradeAgain:
		return 1
	default:
		return 0
	}
}

// IsCorrect reports whether the grade counts as a successful recall.
func (g Grade) IsCorrect() bool {
	return g == GradeGood || g == GradeEasy
}

func (g Grade) String() string {
	return string(g)
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGrade, string(g))
	}
	return []byte(g), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Because Grade is
// string-backed, encoding/json routes JSON strings through this method too.
func (g *Grade) UnmarshalText(text []byte) error {
	parsed, err := ParseGrade(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
