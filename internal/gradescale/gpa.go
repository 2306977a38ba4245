package gradescale

import (
	"errors"
	"math"
)

// CalculateGPA aggregates (score, weight) pairs into a single weighted
// GPA under one scale. A grade whose range has no gpa_equivalent, or
// whose score matches no range at all, is excluded from both the sum and
// the weight total instead of counting as zero. Omitted weights count
// as 1.0. The result is rounded to 2 decimals; when nothing contributes
// the GPA is 0.
func CalculateGPA(grades []Grade, scale Scale) (float64, error) {
	if len(scale.Ranges) == 0 {
		return 0, ErrEmptyScale
	}

	var sum, weights float64
	for _, g := range grades {
		res, err := ConvertScoreToGrade(g.Score, scale)
		if err != nil {
			if errors.Is(err, ErrOutOfRange) {
				continue
			}
			return 0, err
		}
		if res.GPAEquiv == nil {
			continue
		}
		w := g.Weight
		if w <= 0 {
			w = 1.0
		}
		sum += *res.GPAEquiv * w
		weights += w
	}
	if weights == 0 {
		return 0, nil
	}
	return round2(sum / weights), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
