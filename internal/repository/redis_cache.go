package repository

import (
	"context"
	"encoding/json"
	"time"

	"openlearner_backend/internal/model"
	"openlearner_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const levelContentKeyPrefix = "level_content:"

// RedisContentCache 关卡内容的 redis 读穿/写穿缓存，底层 Store 仍是权威数据
type RedisContentCache struct {
	Store
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisContentCache(inner Store, rdb *redis.Client, ttl time.Duration) *RedisContentCache {
	return &RedisContentCache{Store: inner, Redis: rdb, TTL: ttl}
}

func (c *RedisContentCache) SaveLevelContent(ctx context.Context, levelID string, steps []model.LessonStep) error {
	if err := c.Store.SaveLevelContent(ctx, levelID, steps); err != nil {
		return err
	}
	// 以底层存储写入后的记录为准，保证 GeneratedAt 一致
	rec, found, err := c.Store.GetLevelContent(ctx, levelID)
	if err != nil || !found {
		c.Redis.Del(ctx, levelContentKeyPrefix+levelID)
		return err
	}
	c.put(ctx, rec)
	return nil
}

func (c *RedisContentCache) GetLevelContent(ctx context.Context, levelID string) (*model.LevelContentCache, bool, error) {
	val, err := c.Redis.Get(ctx, levelContentKeyPrefix+levelID).Result()
	if err == nil {
		var rec model.LevelContentCache
		if err := json.Unmarshal([]byte(val), &rec); err == nil {
			return &rec, true, nil
		}
	} else if err != redis.Nil {
		logger.Log.Warn("Redis get failed, falling back to store", zap.String("levelId", levelID), zap.Error(err))
	}

	rec, found, err := c.Store.GetLevelContent(ctx, levelID)
	if err != nil || !found {
		return rec, found, err
	}
	c.put(ctx, rec)
	return rec, true, nil
}

func (c *RedisContentCache) PruneLevelContent(ctx context.Context, before time.Time) (int64, error) {
	// redis 中的条目依靠自身 TTL 过期
	return c.Store.PruneLevelContent(ctx, before)
}

func (c *RedisContentCache) put(ctx context.Context, rec *model.LevelContentCache) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, levelContentKeyPrefix+rec.LevelID, data, c.TTL).Err(); err != nil {
		logger.Log.Warn("Redis set failed", zap.String("levelId", rec.LevelID), zap.Error(err))
	}
}
