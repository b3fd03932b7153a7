package cache

import (
    "context"
    "fmt"
    "strconv"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/d60-Lab/social-graph/internal/partition"
)

// UnreadCounter caches per-receiver unread notification counts in Redis.
// It is a read-through cache: callers fill it from the store on miss and
// drop keys on any write that can change the count. A nil client disables
// caching entirely, every lookup falls through to the store.
type UnreadCounter struct {
    rdb *redis.Client
    ttl time.Duration
}

func NewUnreadCounter(rdb *redis.Client, ttl time.Duration) *UnreadCounter {
    if ttl <= 0 {
        ttl = time.Minute
    }
    return &UnreadCounter{rdb: rdb, ttl: ttl}
}

func (c *UnreadCounter) key(ref partition.UserRef) string {
    return fmt.Sprintf("notif:unread:%s:%s", ref.Partition, ref.ID)
}

// Get returns the cached count and whether it was present.
func (c *UnreadCounter) Get(ctx context.Context, ref partition.UserRef) (int64, bool) {
    if c == nil || c.rdb == nil {
        return 0, false
    }
    val, err := c.rdb.Get(ctx, c.key(ref)).Result()
    if err != nil {
        return 0, false
    }
    n, err := strconv.ParseInt(val, 10, 64)
    if err != nil {
        return 0, false
    }
    return n, true
}

func (c *UnreadCounter) Set(ctx context.Context, ref partition.UserRef, n int64) {
    if c == nil || c.rdb == nil {
        return
    }
    _ = c.rdb.Set(ctx, c.key(ref), strconv.FormatInt(n, 10), c.ttl).Err()
}

// Invalidate drops the cached counts for the given receivers, best effort.
func (c *UnreadCounter) Invalidate(ctx context.Context, refs ...partition.UserRef) {
    if c == nil || c.rdb == nil || len(refs) == 0 {
        return
    }
    keys := make([]string, len(refs))
    for i, r := range refs {
        keys[i] = c.key(r)
    }
    _ = c.rdb.Del(ctx, keys...).Err()
}
