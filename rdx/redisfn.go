package rdx

import (
	"log"
	"time"

	"github.com/craftingshard/tour-website-sub000/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	Conn = redis.NewClient(&redis.Options{
		Addr:     globals.Getenv("REDIS_URL", "localhost:6379"),
		Password: globals.Getenv("REDIS_PASSWORD", ""),
		DB:       0,
	})
}

// RdxSet stores a value with a TTL; failures are logged, not returned.
// Redis here is a cache and event bus, never a system of record.
func RdxSet(key, value string, ttl time.Duration) {
	if err := Conn.Set(globals.Ctx, key, value, ttl).Err(); err != nil {
		log.Printf("[rdx] SET %s failed: %v", key, err)
	}
}

func RdxGet(key string) (string, bool) {
	val, err := Conn.Get(globals.Ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func RdxDel(key string) {
	if err := Conn.Del(globals.Ctx, key).Err(); err != nil {
		log.Printf("[rdx] DEL %s failed: %v", key, err)
	}
}
