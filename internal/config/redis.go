package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis creates the redis client used for the directory cache.
// A dead redis is a soft failure: the directory service falls back to
// the database, so connection errors are logged, not fatal.
func ConnectRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: redis unreachable (%v), directory cache disabled", err)
	} else {
		log.Printf("Redis connected [%s:%s]", cfg.Redis.Host, cfg.Redis.Port)
	}

	return client
}
