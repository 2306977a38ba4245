package gradescale

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachingStore keeps hot reads (scale by id, scope default) in a small
// TTL cache. Conversion traffic is read-heavy against a handful of
// scales; writes are rare, so invalidation just drops the affected keys.
type CachingStore struct {
	Store
	cache *gocache.Cache
}

func NewCachingStore(inner Store, ttl time.Duration) *CachingStore {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachingStore{
		Store: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *CachingStore) GetScale(ctx context.Context, id string) (Scale, error) {
	if v, ok := c.cache.Get(scaleKey(id)); ok {
		return v.(Scale), nil
	}
	s, err := c.Store.GetScale(ctx, id)
	if err != nil {
		return Scale{}, err
	}
	c.cache.SetDefault(scaleKey(id), s)
	return s, nil
}

func (c *CachingStore) GetDefaultScale(ctx context.Context, schoolID, gradingSystemID string) (Scale, error) {
	key := defaultKey(schoolID, gradingSystemID)
	if v, ok := c.cache.Get(key); ok {
		return v.(Scale), nil
	}
	s, err := c.Store.GetDefaultScale(ctx, schoolID, gradingSystemID)
	if err != nil {
		return Scale{}, err
	}
	c.cache.SetDefault(key, s)
	return s, nil
}

func (c *CachingStore) PutScale(ctx context.Context, s Scale) (Scale, error) {
	out, err := c.Store.PutScale(ctx, s)
	if err == nil {
		c.cache.Delete(scaleKey(out.ID))
		c.cache.Delete(defaultKey(out.SchoolID, out.GradingSystemID))
	}
	return out, err
}

func (c *CachingStore) DeleteScale(ctx context.Context, id string) error {
	err := c.Store.DeleteScale(ctx, id)
	if err == nil {
		c.cache.Delete(scaleKey(id))
	}
	return err
}

func (c *CachingStore) ReplaceRanges(ctx context.Context, scaleID string, ranges []Range) (Scale, error) {
	out, err := c.Store.ReplaceRanges(ctx, scaleID, ranges)
	if err == nil {
		c.cache.Delete(scaleKey(scaleID))
		c.cache.Delete(defaultKey(out.SchoolID, out.GradingSystemID))
	}
	return out, err
}

func (c *CachingStore) PutRange(ctx context.Context, scaleID string, r Range) (Range, error) {
	out, err := c.Store.PutRange(ctx, scaleID, r)
	if err == nil {
		c.cache.Delete(scaleKey(scaleID))
	}
	return out, err
}

func (c *CachingStore) DeleteRange(ctx context.Context, scaleID, rangeID string) error {
	err := c.Store.DeleteRange(ctx, scaleID, rangeID)
	if err == nil {
		c.cache.Delete(scaleKey(scaleID))
	}
	return err
}

// SetDefault flushes everything: the old default for the scope is not
// known here, so a targeted delete could leave a stale entry behind.
func (c *CachingStore) SetDefault(ctx context.Context, scaleID string) error {
	err := c.Store.SetDefault(ctx, scaleID)
	if err == nil {
		c.cache.Flush()
	}
	return err
}

func scaleKey(id string) string { return "scale:" + id }

func defaultKey(schoolID, gradingSystemID string) string {
	return "default:" + schoolID + ":" + gradingSystemID
}
