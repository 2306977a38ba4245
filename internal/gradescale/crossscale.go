package gradescale

// Score is the input to a cross-scale conversion. Letter scales grade by
// label rather than number, so the two representations are kept explicit
// instead of overloading one field.
type Score struct {
	Number float64
	Label  string
}

func NumericScore(v float64) Score { return Score{Number: v} }
func LetterScore(label string) Score { return Score{Label: label} }

// ConvertBetweenScales translates a score from one scale to another via a
// 0-100 percentage intermediate, then maps that percentage into the
// target scale's ranges.
func ConvertBetweenScales(score Score, from, to Scale) (CrossScaleResult, error) {
	if len(to.Ranges) == 0 {
		return CrossScaleResult{}, ErrEmptyScale
	}
	pct, err := NormalizePercent(score, from)
	if err != nil {
		return CrossScaleResult{}, err
	}
	res := CrossScaleResult{
		FromScore:  score.Number,
		FromLabel:  score.Label,
		Percentage: pct,
	}
	g, err := ConvertScoreToGrade(pct, to)
	if err != nil {
		return res, err
	}
	res.Grade = g
	return res, nil
}

// NormalizePercent reduces a score under its scale to a 0-100 percentage.
//
//   - percentage: identity
//   - points:     score / highest max_value * 100
//   - letter:     midpoint of the range whose label matches; an unknown
//     label normalizes to 0 rather than failing
//
// Other scale types cannot be normalized and return
// ErrUnsupportedScaleType.
func NormalizePercent(score Score, from Scale) (float64, error) {
	switch from.Type {
	case TypePercentage:
		return score.Number, nil
	case TypePoints:
		if len(from.Ranges) == 0 {
			return 0, ErrEmptyScale
		}
		max := from.MaxRangeValue()
		if max == 0 {
			return 0, nil
		}
		return (score.Number / max) * 100, nil
	case TypeLetter:
		for _, r := range from.Ranges {
			if r.Label == score.Label {
				return r.Midpoint(), nil
			}
		}
		return 0, nil
	default:
		return 0, ErrUnsupportedScaleType
	}
}
