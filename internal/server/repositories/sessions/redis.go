package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisRepository keeps each session as a hash whose TTL matches the
// session expiry, so Redis drops expired sessions on its own.
type RedisRepository struct {
	rdb redis.Cmdable
	now func() time.Time
}

func NewRedisRepository(rdb redis.Cmdable) *RedisRepository {
	return &RedisRepository{rdb: rdb, now: time.Now}
}

// redisSession is the hash layout. Times are Unix nanoseconds.
type redisSession struct {
	UserID    int64 `redis:"user_id"`
	CreatedAt int64 `redis:"created_at"`
	ExpiresAt int64 `redis:"expires_at"`
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func (r *RedisRepository) Create(ctx context.Context, s *models.Session) error {
	s.CreatedAt = r.now().UTC()
	ttl := s.ExpiresAt.Sub(s.CreatedAt)
	if ttl <= 0 {
		return fmt.Errorf("%w: session already expired", common.ErrValidation)
	}

	key := sessionKey(s.ID)
	rs := &redisSession{UserID: s.UserID, CreatedAt: s.CreatedAt.UnixNano(), ExpiresAt: s.ExpiresAt.UnixNano()}
	if err := r.rdb.HSet(ctx, key, rs).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if err := r.rdb.Expire(ctx, key, ttl).Err(); err != nil {
		_ = r.rdb.Del(ctx, key).Err()
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	cmd := r.rdb.HGetAll(ctx, sessionKey(id))
	fields, err := cmd.Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(fields) == 0 {
		return nil, common.ErrNotFound
	}

	var rs redisSession
	if err := cmd.Scan(&rs); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &models.Session{
		ID:        id,
		UserID:    rs.UserID,
		CreatedAt: time.Unix(0, rs.CreatedAt).UTC(),
		ExpiresAt: time.Unix(0, rs.ExpiresAt).UTC(),
	}, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
