package gradescale

import (
	"fmt"
	"sort"
)

// Violation names the two ranges whose intervals collide.
type Violation struct {
	A string `json:"a"`
	B string `json:"b"`
}

func (v Violation) String() string {
	return fmt.Sprintf("ranges %q and %q overlap", v.A, v.B)
}

// ValidateRanges checks a candidate range set for overlapping intervals.
// The result is advisory: persistence does not call this itself, callers
// must run it before committing a set.
//
// Adjacent ranges sharing an exact boundary (a.max == b.min) pass the
// strict comparison used here. Point lookups at that shared boundary
// resolve to whichever range is scanned first.
func ValidateRanges(ranges []Range) []Violation {
	if len(ranges) < 2 {
		return nil
	}
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinValue < sorted[j].MinValue
	})

	var out []Violation
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].MaxValue > sorted[i+1].MinValue {
			out = append(out, Violation{A: sorted[i].Label, B: sorted[i+1].Label})
		}
	}
	return out
}

// ValidateScale rejects structurally broken scales before any lookup.
func ValidateScale(s Scale) error {
	if len(s.Ranges) == 0 {
		return ErrEmptyScale
	}
	for _, r := range s.Ranges {
		if r.MinValue > r.MaxValue {
			return fmt.Errorf("range %q: min_value %.2f above max_value %.2f", r.Label, r.MinValue, r.MaxValue)
		}
	}
	return nil
}
