package routes

import (
	"context"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/rs/zerolog/log"

	"github.com/metroseat/metroseat/pkg/redis_client"
)

// responseCache is a shared second-tier cache for rendered responses.
// The engine keeps its own in-process cache; this one lets a fleet of
// API instances share hot routes. Optional, only active when Redis is
// configured.
var responseCache *cache.Cache[string]

func EnableResponseCache() {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(5*time.Minute))

	responseCache = cache.New[string](redisStore)

	log.Info().Msg("Shared response cache enabled")
}

func responseCacheEnabled() bool {
	return responseCache != nil
}

func responseCacheGet(key string) (string, bool) {
	if responseCache == nil {
		return "", false
	}

	value, err := responseCache.Get(context.Background(), key)
	if err != nil {
		return "", false
	}

	return value, true
}

func responseCacheSet(key string, value string) {
	if responseCache == nil {
		return
	}

	if err := responseCache.Set(context.Background(), key, value); err != nil {
		log.Error().Err(err).Msg("Failed to store response in shared cache")
	}
}
