package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

type deliveredValue struct {
	TelegramMessageID int64     `json:"telegramMessageId"`
	SentAt            time.Time `json:"sentAt"`
}

func (c *RedisCache) StoreDelivered(ctx context.Context, messageID int64, telegramMessageID int64, sentAt time.Time) error {
	key := fmt.Sprintf("msg:%d", messageID)
	val := deliveredValue{
		TelegramMessageID: telegramMessageID,
		SentAt:            sentAt.UTC(),
	}

	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
