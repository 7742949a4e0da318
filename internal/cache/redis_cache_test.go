package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisCache_StoreDelivered_Success(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	ttl := 10 * time.Second
	cache := NewRedisCache(rdb, ttl)

	ctx := context.Background()
	messageID := int64(42)
	telegramID := int64(9001)
	sentAt := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	if err := cache.StoreDelivered(ctx, messageID, telegramID, sentAt); err != nil {
		t.Fatalf("StoreDelivered() error: %v", err)
	}

	key := "msg:42"

	if !mr.Exists(key) {
		t.Fatalf("expected key %q to exist", key)
	}

	ttlRemaining := mr.TTL(key)
	if ttlRemaining <= 0 {
		t.Fatalf("expected TTL to be set, got %v", ttlRemaining)
	}

	raw, err := mr.Get(key)
	if err != nil {
		t.Fatalf("failed to get key %q: %v", key, err)
	}

	var got deliveredValue
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("failed to unmarshal value: %v", err)
	}

	if got.TelegramMessageID != telegramID {
		t.Fatalf("expected TelegramMessageID %d, got %d", telegramID, got.TelegramMessageID)
	}
	if !got.SentAt.Equal(sentAt.UTC()) {
		t.Fatalf("expected SentAt %v, got %v", sentAt.UTC(), got.SentAt)
	}
}

func TestRedisCache_StoreDelivered_OverwritesExistingValue(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(rdb, time.Minute)
	ctx := context.Background()

	messageID := int64(1)

	if err := cache.StoreDelivered(ctx, messageID, 100, time.Now()); err != nil {
		t.Fatalf("first StoreDelivered() error: %v", err)
	}

	secondTime := time.Now().Add(time.Minute)
	if err := cache.StoreDelivered(ctx, messageID, 200, secondTime); err != nil {
		t.Fatalf("second StoreDelivered() error: %v", err)
	}

	raw, err := mr.Get("msg:1")
	if err != nil {
		t.Fatalf("failed to get key msg:1: %v", err)
	}

	var got deliveredValue
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("failed to unmarshal value: %v", err)
	}

	if got.TelegramMessageID != 200 {
		t.Fatalf("expected overwritten TelegramMessageID 200, got %d", got.TelegramMessageID)
	}
}

func TestRedisCache_StoreDelivered_ContextCanceled(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(rdb, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cache.StoreDelivered(ctx, 1, 2, time.Now())
	if err == nil {
		t.Fatalf("expected error due to canceled context, got nil")
	}
}
