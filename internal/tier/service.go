package tier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "tier:user:"

// Service resolves subscription tiers with a Redis read-through cache in
// front of PostgreSQL. Accounts without a subscription row are free.
type Service struct {
	pool  *pgxpool.Pool
	cache *redis.Client
	ttl   time.Duration
}

// NewService constructs a Service. Cache may be nil, in which case every
// lookup hits the database.
func NewService(pool *pgxpool.Pool, cache *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{pool: pool, cache: cache, ttl: ttl}
}

// TierForUser returns the user's current tier.
func (s *Service) TierForUser(ctx context.Context, userID uuid.UUID) (Tier, error) {
	if s == nil {
		return "", fmt.Errorf("tier: service not configured")
	}

	key := cacheKeyPrefix + userID.String()
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			if t := Tier(cached); t.Valid() {
				return t, nil
			}
		}
		// redis.Nil, a cache outage, or a garbage value all degrade to a
		// database read.
	}

	t, err := s.lookup(ctx, userID)
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, string(t), s.ttl).Err()
	}
	return t, nil
}

// Invalidate drops the cached tier after a subscription change. Cached KPI
// reports keep the old locked flags until their TTL expires; callers that
// need the new tier reflected immediately must also bump the report cache.
func (s *Service) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if s == nil || s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, cacheKeyPrefix+userID.String()).Err()
}

func (s *Service) lookup(ctx context.Context, userID uuid.UUID) (Tier, error) {
	if s.pool == nil {
		return "", fmt.Errorf("tier: database not configured")
	}
	const query = `
		SELECT tier FROM subscriptions
		WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > now())
		ORDER BY expires_at DESC NULLS FIRST
		LIMIT 1`
	var raw string
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TierFree, nil
		}
		return "", fmt.Errorf("tier: lookup: %w", err)
	}
	t := Tier(raw)
	if !t.Valid() {
		return TierFree, nil
	}
	return t, nil
}
