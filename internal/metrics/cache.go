package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	cacheVersionKey = "kpi:version"
	bumpChannel     = "records.bump"
)

// ReportCache wraps Redis-based report caching with versioning controls.
// The engine stays pure; this cache belongs to the calling layer, which
// bumps the version whenever any record collection changes.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache instantiates the cache helper.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising when missing.
func (c *ReportCache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes the report cache key with the current version.
func (c *ReportCache) BuildKey(ctx context.Context, userID uuid.UUID, rng *DateRange, currency string) (string, error) {
	parts := []string{"kpi", "report", userID.String(), rangeToken(rng), strings.ToUpper(currency)}
	if c == nil || c.client == nil {
		return strings.Join(parts, ":"), nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", strings.Join(parts, ":"), ver), nil
}

// Fetch loads a cached report or populates it using the loader.
func (c *ReportCache) Fetch(ctx context.Context, key string, loader func(context.Context) (Report, error)) (Report, error) {
	if loader == nil {
		return Report{}, errors.New("metrics: cache loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var report Report
		if err := json.Unmarshal(payload, &report); err == nil {
			return report, nil
		}
		// Corrupt entry: fall through and rebuild.
	} else if !errors.Is(err, redis.Nil) {
		return Report{}, err
	}
	report, err := loader(ctx)
	if err != nil {
		return Report{}, err
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return Report{}, err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return Report{}, err
	}
	return report, nil
}

// Bump invalidates every cached report by incrementing the global version
// and publishing the change for other processes.
func (c *ReportCache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, bumpChannel, strconv.FormatInt(ver, 10)).Err()
}

func rangeToken(rng *DateRange) string {
	if rng == nil {
		return "all"
	}
	return rng.Start.Format("2006-01-02") + ".." + rng.End.Format("2006-01-02")
}
