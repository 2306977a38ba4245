package gradescale

import "sort"

// Preset is a ready-made range table a school can clone instead of
// entering breakpoints by hand.
type Preset struct {
	Key    string    `json:"key"`
	Name   string    `json:"name"`
	Type   ScaleType `json:"scale_type"`
	Ranges []Range   `json:"ranges"`
}

var presetRegistry = map[string]Preset{}

// RegisterPreset binds a preset to a key like "us.letter.v1".
func RegisterPreset(p Preset) {
	if p.Key == "" {
		return
	}
	presetRegistry[p.Key] = p
}

// PresetFor fetches a preset, or false if the key is unknown.
func PresetFor(key string) (Preset, bool) {
	p, ok := presetRegistry[key]
	return p, ok
}

func ListPresets() []Preset {
	out := make([]Preset, 0, len(presetRegistry))
	for _, p := range presetRegistry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Scale materializes the preset for a scope. The caller persists it.
func (p Preset) Scale(schoolID, gradingSystemID string) Scale {
	rs := make([]Range, len(p.Ranges))
	copy(rs, p.Ranges)
	return Scale{
		Name:            p.Name,
		Type:            p.Type,
		SchoolID:        schoolID,
		GradingSystemID: gradingSystemID,
		Ranges:          rs,
	}
}

func fv(v float64) *float64 { return &v }

func init() {
	RegisterPreset(Preset{
		Key:  "us.letter.v1",
		Name: "US Letter (A-F)",
		Type: TypeLetter,
		Ranges: []Range{
			{MinValue: 90, MaxValue: 100, Label: "A", Description: "Excellent", GPAEquiv: fv(4.0), IsPassing: true, Order: 1},
			{MinValue: 80, MaxValue: 89.99, Label: "B", Description: "Good", GPAEquiv: fv(3.0), IsPassing: true, Order: 2},
			{MinValue: 70, MaxValue: 79.99, Label: "C", Description: "Satisfactory", GPAEquiv: fv(2.0), IsPassing: true, Order: 3},
			{MinValue: 60, MaxValue: 69.99, Label: "D", Description: "Needs improvement", GPAEquiv: fv(1.0), IsPassing: true, Order: 4},
			{MinValue: 0, MaxValue: 59.99, Label: "F", Description: "Failing", GPAEquiv: fv(0.0), IsPassing: false, Order: 5},
		},
	})
	RegisterPreset(Preset{
		Key:  "percentage.passfail.v1",
		Name: "Percentage Pass/Fail",
		Type: TypePercentage,
		Ranges: []Range{
			{MinValue: 50, MaxValue: 100, Label: "Pass", IsPassing: true, Order: 1},
			{MinValue: 0, MaxValue: 49.99, Label: "Fail", Order: 2},
		},
	})
	RegisterPreset(Preset{
		Key:  "standards.4band.v1",
		Name: "Standards Based (1-4)",
		Type: TypeStandards,
		Ranges: []Range{
			{MinValue: 3.5, MaxValue: 4, Label: "4", Description: "Exceeds standard", GPAEquiv: fv(4.0), IsPassing: true, Order: 1},
			{MinValue: 2.5, MaxValue: 3.49, Label: "3", Description: "Meets standard", GPAEquiv: fv(3.0), IsPassing: true, Order: 2},
			{MinValue: 1.5, MaxValue: 2.49, Label: "2", Description: "Approaching standard", GPAEquiv: fv(2.0), IsPassing: false, Order: 3},
			{MinValue: 0, MaxValue: 1.49, Label: "1", Description: "Below standard", GPAEquiv: fv(1.0), IsPassing: false, Order: 4},
		},
	})
}
