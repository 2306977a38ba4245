package gradescale

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu     sync.RWMutex
	scales map[string]Scale
}

// NewInMemoryStore backs offline mode and tests.
func NewInMemoryStore() Store {
	return &memoryStore{scales: map[string]Scale{}}
}

func (m *memoryStore) PutScale(_ context.Context, s Scale) (Scale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt == 0 {
		s.CreatedAt = time.Now().Unix()
	}
	rs := make([]Range, len(s.Ranges))
	copy(rs, s.Ranges)
	for i := range rs {
		if rs[i].ID == "" {
			rs[i].ID = uuid.NewString()
		}
		rs[i].ScaleID = s.ID
	}
	s.Ranges = rs
	m.scales[s.ID] = s
	return s, nil
}

func (m *memoryStore) GetScale(_ context.Context, id string) (Scale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scales[id]
	if !ok {
		return Scale{}, ErrScaleNotFound
	}
	return cloneScale(s), nil
}

func (m *memoryStore) ListScales(_ context.Context, opts ListOpts) ([]Scale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Scale
	for _, s := range m.scales {
		if opts.SchoolID != "" && s.SchoolID != opts.SchoolID {
			continue
		}
		if opts.GradingSystemID != "" && s.GradingSystemID != opts.GradingSystemID {
			continue
		}
		if opts.Type != "" && s.Type != opts.Type {
			continue
		}
		out = append(out, cloneScale(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memoryStore) DeleteScale(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scales[id]
	if !ok {
		return ErrScaleNotFound
	}
	if s.IsDefault {
		return ErrScaleIsDefault
	}
	delete(m.scales, id)
	return nil
}

func (m *memoryStore) ReplaceRanges(_ context.Context, scaleID string, ranges []Range) (Scale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scales[scaleID]
	if !ok {
		return Scale{}, ErrScaleNotFound
	}
	rs := make([]Range, len(ranges))
	copy(rs, ranges)
	for i := range rs {
		if rs[i].ID == "" {
			rs[i].ID = uuid.NewString()
		}
		rs[i].ScaleID = scaleID
	}
	sortRanges(rs)
	s.Ranges = rs
	m.scales[scaleID] = s
	return cloneScale(s), nil
}

func (m *memoryStore) PutRange(_ context.Context, scaleID string, r Range) (Range, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scales[scaleID]
	if !ok {
		return Range{}, ErrScaleNotFound
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.ScaleID = scaleID
	replaced := false
	for i := range s.Ranges {
		if s.Ranges[i].ID == r.ID {
			s.Ranges[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		s.Ranges = append(s.Ranges, r)
	}
	sortRanges(s.Ranges)
	m.scales[scaleID] = s
	return r, nil
}

func (m *memoryStore) DeleteRange(_ context.Context, scaleID, rangeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scales[scaleID]
	if !ok {
		return ErrScaleNotFound
	}
	for i := range s.Ranges {
		if s.Ranges[i].ID == rangeID {
			s.Ranges = append(s.Ranges[:i], s.Ranges[i+1:]...)
			m.scales[scaleID] = s
			return nil
		}
	}
	return ErrRangeNotFound
}

func (m *memoryStore) SetDefault(_ context.Context, scaleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.scales[scaleID]
	if !ok {
		return ErrScaleNotFound
	}
	for id, s := range m.scales {
		if id == scaleID {
			continue
		}
		if s.SchoolID == target.SchoolID && s.GradingSystemID == target.GradingSystemID && s.IsDefault {
			s.IsDefault = false
			m.scales[id] = s
		}
	}
	target.IsDefault = true
	m.scales[scaleID] = target
	return nil
}

func (m *memoryStore) GetDefaultScale(_ context.Context, schoolID, gradingSystemID string) (Scale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found []Scale
	for _, s := range m.scales {
		if s.SchoolID == schoolID && s.GradingSystemID == gradingSystemID && s.IsDefault {
			found = append(found, s)
		}
	}
	if len(found) == 0 {
		return Scale{}, ErrScaleNotFound
	}
	// lowest id wins when data holds more than one default
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return cloneScale(found[0]), nil
}

func sortRanges(rs []Range) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Order != rs[j].Order {
			return rs[i].Order < rs[j].Order
		}
		return rs[i].MinValue < rs[j].MinValue
	})
}

func cloneScale(s Scale) Scale {
	out := s
	out.Ranges = make([]Range, len(s.Ranges))
	copy(out.Ranges, s.Ranges)
	return out
}
