package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// InitRedis returns nil when no address is configured; the cache layer
// treats a nil client as cache-off.
func InitRedis(addr string, log *slog.Logger) *redis.Client {
	if addr == "" {
		log.Info("redis not configured, widget cache disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}
