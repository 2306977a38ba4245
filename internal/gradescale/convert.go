package gradescale

import "errors"

var (
	// ErrOutOfRange means no range of the scale contains the score.
	// Expected condition, callers decide how to surface it.
	ErrOutOfRange = errors.New("score out of range for scale")

	// ErrEmptyScale rejects lookups against a scale with no ranges.
	ErrEmptyScale = errors.New("scale has no ranges")

	// ErrUnsupportedScaleType is returned when a cross-scale conversion
	// source cannot be normalized to a percentage.
	ErrUnsupportedScaleType = errors.New("unsupported scale type for conversion")
)

// ConvertScoreToGrade returns the grade of the first range containing
// score. Ranges validated for non-overlap have at most one match, so
// scan order does not matter.
func ConvertScoreToGrade(score float64, scale Scale) (GradeResult, error) {
	if len(scale.Ranges) == 0 {
		return GradeResult{}, ErrEmptyScale
	}
	for _, r := range scale.Ranges {
		if r.Contains(score) {
			return gradeOf(r), nil
		}
	}
	return GradeResult{}, ErrOutOfRange
}

// GradeLabel is the label-only convenience over ConvertScoreToGrade.
// ok is false when the score is out of range (or the scale is empty).
func GradeLabel(score float64, scale Scale) (label string, ok bool) {
	g, err := ConvertScoreToGrade(score, scale)
	if err != nil {
		return "", false
	}
	return g.Label, true
}

func gradeOf(r Range) GradeResult {
	return GradeResult{
		Label:       r.Label,
		Description: r.Description,
		Color:       r.Color,
		GPAEquiv:    r.GPAEquiv,
		IsPassing:   r.IsPassing,
	}
}
