package gradescale_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradekit/gradescale/internal/gradescale"
)

func TestPresetsRegistered(t *testing.T) {
	rq := require.New(t)

	presets := gradescale.ListPresets()
	rq.NotEmpty(presets)

	p, ok := gradescale.PresetFor("us.letter.v1")
	rq.True(ok)
	rq.Equal(gradescale.TypeLetter, p.Type)
	rq.Empty(gradescale.ValidateRanges(p.Ranges), "preset ships with overlapping ranges")

	_, ok = gradescale.PresetFor("nope")
	rq.False(ok)
}

func TestPresetScaleMaterialization(t *testing.T) {
	rq := require.New(t)

	p, ok := gradescale.PresetFor("percentage.passfail.v1")
	rq.True(ok)

	s := p.Scale("school-1", "sys-1")
	rq.Equal("school-1", s.SchoolID)
	rq.Equal("sys-1", s.GradingSystemID)
	rq.False(s.IsDefault)
	rq.Len(s.Ranges, 2)

	label, ok := gradescale.GradeLabel(72, s)
	rq.True(ok)
	rq.Equal("Pass", label)

	// mutating the materialized copy must not touch the registry
	s.Ranges[0].Label = "changed"
	p2, _ := gradescale.PresetFor("percentage.passfail.v1")
	rq.Equal("Pass", p2.Ranges[0].Label)
}
