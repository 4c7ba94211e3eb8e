package cache

import (
	"context"
	"log/slog"
)

// SafeDelete deletes cache keys, logging instead of returning failures
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"prefix", helper.prefix,
			"count", len(keys))
	}
}

// SafeSet stores a value, logging instead of returning failures
func SafeSet(ctx context.Context, helper *CacheHelper, key string, value interface{}, cfg CacheConfig) {
	if err := helper.Set(ctx, key, value, cfg.TTL); err != nil {
		slog.ErrorContext(ctx, "Failed to write cache entry",
			"error", err,
			"prefix", helper.prefix)
	}
}
