package repository

import (
	"classroom_portal/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const assessmentViewKeyPrefix = "assessment:view:"

// AssessmentCache 在 Redis 中缓存渲染好的测评树。client 为 nil 时直接透传，
// Redis 故障也不会让读取失败
type AssessmentCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewAssessmentCache(rdb *redis.Client, ttl time.Duration) *AssessmentCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AssessmentCache{Redis: rdb, TTL: ttl}
}

func ViewKey(classroomID, assessmentID uint) string {
	return fmt.Sprintf("%s%d:%d", assessmentViewKeyPrefix, classroomID, assessmentID)
}

// GetOrLoad 优先从缓存填充 dest，未命中时调用 load 并写回缓存
func (c *AssessmentCache) GetOrLoad(ctx context.Context, key string, dest interface{}, load func() (interface{}, error)) error {
	if c == nil || c.Redis == nil {
		return c.fill(dest, load)
	}

	val, err := c.Redis.Get(ctx, key).Bytes()
	if err == nil {
		if err := json.Unmarshal(val, dest); err == nil {
			return nil
		}
		logger.Log.Warn("Discarding undecodable cache entry", zap.String("key", key))
	} else if err != redis.Nil {
		logger.Log.Warn("Assessment cache read failed", zap.String("key", key), zap.Error(err))
	}

	fresh, err := load()
	if err != nil {
		return err
	}
	data, err := json.Marshal(fresh)
	if err != nil {
		return err
	}
	if err := c.Redis.Set(ctx, key, data, c.TTL).Err(); err != nil {
		logger.Log.Warn("Assessment cache write failed", zap.String("key", key), zap.Error(err))
	}
	return json.Unmarshal(data, dest)
}

func (c *AssessmentCache) fill(dest interface{}, load func() (interface{}, error)) error {
	fresh, err := load()
	if err != nil {
		return err
	}
	data, err := json.Marshal(fresh)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *AssessmentCache) Invalidate(ctx context.Context, classroomID, assessmentID uint) {
	if c == nil || c.Redis == nil {
		return
	}
	key := ViewKey(classroomID, assessmentID)
	if err := c.Redis.Del(ctx, key).Err(); err != nil {
		logger.Log.Warn("Assessment cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
