package gradescale

// ScaleType tags how raw scores are expressed under a scale.
type ScaleType string

const (
	TypeLetter     ScaleType = "letter"
	TypePercentage ScaleType = "percentage"
	TypePoints     ScaleType = "points"
	TypeStandards  ScaleType = "standards"
)

// Range is one closed interval of a scale mapped to a display grade.
// GPAEquivalent stays nil when the range carries no grade-point value;
// such ranges are skipped by GPA aggregation.
type Range struct {
	ID          string   `json:"id,omitempty"`
	ScaleID     string   `json:"scale_id,omitempty"`
	MinValue    float64  `json:"min_value"`
	MaxValue    float64  `json:"max_value"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Color       string   `json:"color,omitempty"`
	GPAEquiv    *float64 `json:"gpa_equivalent,omitempty"`
	IsPassing   bool     `json:"is_passing"`
	Order       int      `json:"order"`
}

// Contains reports whether score falls inside the closed interval.
func (r Range) Contains(score float64) bool {
	return r.MinValue <= score && score <= r.MaxValue
}

// Midpoint is used when normalizing a letter grade to a percentage.
func (r Range) Midpoint() float64 {
	return (r.MinValue + r.MaxValue) / 2
}

type Scale struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            ScaleType `json:"scale_type"`
	SchoolID        string    `json:"school_id"`
	GradingSystemID string    `json:"grading_system_id"`
	IsDefault       bool      `json:"is_default"`
	Ranges          []Range   `json:"ranges"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// MaxRangeValue is the highest max_value across the scale's ranges,
// i.e. the ceiling of a points scale.
func (s Scale) MaxRangeValue() float64 {
	max := 0.0
	for _, r := range s.Ranges {
		if r.MaxValue > max {
			max = r.MaxValue
		}
	}
	return max
}

// GradeResult is the display + aggregation view of a matched range.
type GradeResult struct {
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Color       string   `json:"color,omitempty"`
	GPAEquiv    *float64 `json:"gpa_equivalent,omitempty"`
	IsPassing   bool     `json:"is_passing"`
}

// Grade is one calculator input. Weight <= 0 means "not supplied" and
// counts as 1.0.
type Grade struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight,omitempty"`
}

// CrossScaleResult keeps the intermediate percentage so conversions stay
// auditable.
type CrossScaleResult struct {
	FromScore  float64     `json:"from_score,omitempty"`
	FromLabel  string      `json:"from_label,omitempty"`
	Percentage float64     `json:"percentage"`
	Grade      GradeResult `json:"grade"`
}
