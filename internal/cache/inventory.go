package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	EntitlementKeyPrefix = "entitlement:scope:%d"
)

const (
	UserTTL = 5 * time.Minute
	// EntitlementTTL is short because subscription mutations invalidate
	// explicitly; the TTL only bounds staleness across instances.
	EntitlementTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func EntitlementKey(scopeID uint) string {
	return fmt.Sprintf(EntitlementKeyPrefix, scopeID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateEntitlement(ctx context.Context, scopeID uint) {
	Invalidate(ctx, EntitlementKey(scopeID))
}
