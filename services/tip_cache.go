package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// TipCache keeps one quick tip per user per day so repeated dashboard
// loads don't burn API calls. Redis is optional: a nil cache (REDIS_ADDR
// unset or unreachable) means every request goes straight to the API.
type TipCache struct {
	client *redis.Client
}

func NewTipCache() *TipCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unavailable, tip caching disabled: %v", err)
		return nil
	}
	return &TipCache{client: client}
}

func tipKey(userID uint) string {
	return fmt.Sprintf("tip:%d:%s", userID, time.Now().Format("2006-01-02"))
}

func (c *TipCache) Get(ctx context.Context, userID uint) (string, bool) {
	if c == nil {
		return "", false
	}
	tip, err := c.client.Get(ctx, tipKey(userID)).Result()
	if err != nil {
		return "", false
	}
	return tip, true
}

func (c *TipCache) Set(ctx context.Context, userID uint, tip string) {
	if c == nil {
		return
	}
	// expire at the end of the day plus slack
	_ = c.client.Set(ctx, tipKey(userID), tip, 26*time.Hour).Err()
}
