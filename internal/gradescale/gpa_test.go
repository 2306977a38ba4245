package gradescale_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradekit/gradescale/internal/gradescale"
)

func TestCalculateGPAWeighted(t *testing.T) {
	rq := require.New(t)

	gpa, err := gradescale.CalculateGPA([]gradescale.Grade{
		{Score: 90, Weight: 2},
		{Score: 70, Weight: 1},
	}, letterScale())
	rq.NoError(err)
	// (4.0*2 + 2.0*1) / 3 = 3.333... → 3.33
	rq.Equal(3.33, gpa)
}

func TestCalculateGPADefaultWeight(t *testing.T) {
	rq := require.New(t)

	gpa, err := gradescale.CalculateGPA([]gradescale.Grade{
		{Score: 95},
		{Score: 62},
	}, letterScale())
	rq.NoError(err)
	rq.Equal(2.5, gpa)
}

func TestCalculateGPAExcludesNilEquivalents(t *testing.T) {
	rq := require.New(t)

	scale := letterScale()
	// pass/fail band with no grade-point value
	scale.Ranges = append(scale.Ranges, gradescale.Range{
		MinValue: 100.01, MaxValue: 110, Label: "EX", IsPassing: true,
	})

	gpa, err := gradescale.CalculateGPA([]gradescale.Grade{
		{Score: 95, Weight: 1},  // 4.0
		{Score: 105, Weight: 5}, // excluded: nil equivalent, weight must not count
	}, scale)
	rq.NoError(err)
	rq.Equal(4.0, gpa)
}

func TestCalculateGPAExcludesOutOfRange(t *testing.T) {
	rq := require.New(t)

	gpa, err := gradescale.CalculateGPA([]gradescale.Grade{
		{Score: 95},
		{Score: 150}, // out of range, skipped
	}, letterScale())
	rq.NoError(err)
	rq.Equal(4.0, gpa)
}

func TestCalculateGPAEmptyInput(t *testing.T) {
	rq := require.New(t)

	gpa, err := gradescale.CalculateGPA(nil, letterScale())
	rq.NoError(err)
	rq.Zero(gpa)

	// all grades excluded behaves like empty input
	gpa, err = gradescale.CalculateGPA([]gradescale.Grade{{Score: 500}}, letterScale())
	rq.NoError(err)
	rq.Zero(gpa)
}

func TestCalculateGPAEmptyScale(t *testing.T) {
	rq := require.New(t)

	_, err := gradescale.CalculateGPA([]gradescale.Grade{{Score: 90}}, gradescale.Scale{})
	rq.ErrorIs(err, gradescale.ErrEmptyScale)
}
