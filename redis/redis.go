package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hoaconnect/hoa-services-app/config"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

// ServiceCatalogKey caches the static service catalog; the catalog changes
// only through admin writes, which invalidate it.
const ServiceCatalogKey = "service:catalog"

const catalogTTL = 12 * time.Hour

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: config.Get().RedisAddr,
		DB:   0,
	})

	// Test connection
	_, err := Client.Ping(Ctx).Result()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	fmt.Println("✅ Connected to Redis")
}

// GetCachedCatalog loads the cached service list into dest. It reports false
// when the cache is cold or unavailable.
func GetCachedCatalog(dest interface{}) bool {
	if Client == nil {
		return false
	}
	data, err := Client.Get(Ctx, ServiceCatalogKey).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetCachedCatalog stores the service list. Failures are ignored; the cache
// is an optimization, not a source of truth.
func SetCachedCatalog(value interface{}) {
	if Client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	Client.Set(Ctx, ServiceCatalogKey, data, catalogTTL)
}

// InvalidateCatalog drops the cached service list after a catalog write.
func InvalidateCatalog() {
	if Client == nil {
		return
	}
	Client.Del(Ctx, ServiceCatalogKey)
}
