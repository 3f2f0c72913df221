package configs

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects to the claims/cache store. The service degrades to
// uncached, mirror-less operation when Redis is unreachable, so a failed ping
// logs and returns nil instead of aborting startup.
func OpenRedis() *redis.Client {
	if LoadENV.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR not set, running without Redis")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     LoadENV.RedisAddr,
		Password: LoadENV.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis ping failed (%v), running without Redis", err)
		return nil
	}

	return rdb
}
