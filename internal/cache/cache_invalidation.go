package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateContentCache drops every cached resolution for a content key.
// Called on any translation or entry write so resolve never serves a stale
// value after an update.
func InvalidateContentCache(ctx context.Context, cm *CacheManager, key string) {
	SafeInvalidatePattern(ctx, cm.Content, fmt.Sprintf("resolve:%s:*", key))
	SafeDelete(ctx, cm.Content, fmt.Sprintf("entry:%s", key))
	SafeInvalidatePattern(ctx, cm.Content, "list:*")
}

// InvalidateAccountCache drops cached lookups for one account plus the
// staff directory pages that may include it.
func InvalidateAccountCache(ctx context.Context, cm *CacheManager, accountID string) {
	SafeDelete(ctx, cm.Account, fmt.Sprintf("id:%s", accountID))
	SafeInvalidatePattern(ctx, cm.Fast, "staff:*")
}
