package cache

import (
	"fmt"
	"strconv"

	"creative-assigner/infrastructure/configuration"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client from the redisClient config section. DatabaseName
// carries the numeric database index.
func NewRedisClient(cfg configuration.RedisClient) *redis.Client {
	db, err := strconv.Atoi(cfg.DatabaseName)
	if err != nil {
		db = 0
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       db,
	})
}
