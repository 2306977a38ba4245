package gradescale

import (
	"context"
	"errors"
)

var (
	ErrScaleNotFound = errors.New("scale not found")
	ErrRangeNotFound = errors.New("range not found")

	// ErrScaleIsDefault refuses deletion of the scale currently acting
	// as a scope's default.
	ErrScaleIsDefault = errors.New("scale is the default for its scope")
)

type ListOpts struct {
	SchoolID        string
	GradingSystemID string
	Type            ScaleType // optional filter
	Limit           int
	Offset          int
}

// Store persists scales and their ranges. Engine functions never touch
// it; the HTTP layer loads scales here and hands them to the engine.
type Store interface {
	PutScale(ctx context.Context, s Scale) (Scale, error)
	GetScale(ctx context.Context, id string) (Scale, error)
	ListScales(ctx context.Context, opts ListOpts) ([]Scale, error)
	DeleteScale(ctx context.Context, id string) error

	// ReplaceRanges swaps a scale's full range set in one transaction.
	ReplaceRanges(ctx context.Context, scaleID string, ranges []Range) (Scale, error)
	PutRange(ctx context.Context, scaleID string, r Range) (Range, error)
	DeleteRange(ctx context.Context, scaleID, rangeID string) error

	// SetDefault flips the default flag to scaleID within its
	// (school, grading system) scope as a single atomic unit.
	SetDefault(ctx context.Context, scaleID string) error
	GetDefaultScale(ctx context.Context, schoolID, gradingSystemID string) (Scale, error)
}
