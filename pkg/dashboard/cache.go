package dashboard

import (
	"astrodash/pkg/consts"
	"astrodash/pkg/metrics"
	"astrodash/pkg/repository"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Clock returns the current time. Tests pass a fixed one.
type Clock func() time.Time

// CacheKey is the picture cache key for the calendar day of t.
func CacheKey(t time.Time) string {
	return fmt.Sprintf(consts.CacheKeyFormat, t.Format(consts.CacheDayFormat))
}

// PictureCache keeps at most one day of picture of the day responses. A miss
// empties the whole store before fetching, so an entry from a previous day
// never survives the first load of a new day.
type PictureCache struct {
	store repository.Cache
	now   Clock
}

func NewPictureCache(store repository.Cache, now Clock) *PictureCache {
	if now == nil {
		now = time.Now
	}
	return &PictureCache{store: store, now: now}
}

// Load returns today's cached body or calls fetch and stores its result.
// A failed fetch stores nothing.
func (c *PictureCache) Load(ctx context.Context, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	key := CacheKey(c.now())

	body, ok, err := c.store.Get(ctx, key)
	if err != nil {
		logrus.Warnf("picture cache read failed, fetching: %q", err)
	}
	if ok {
		metrics.PictureCacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		logrus.WithField("key", key).Debug("picture served from cache")
		return body, nil
	}
	metrics.PictureCacheLookups.WithLabelValues(metrics.CacheMiss).Inc()

	if err := c.store.Clear(ctx); err != nil {
		logrus.Warnf("picture cache clear failed: %q", err)
	}

	body, err = fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, body); err != nil {
		logrus.Warnf("picture cache write failed: %q", err)
	}
	logrus.WithField("key", key).Debug("picture fetched and cached")

	return body, nil
}
