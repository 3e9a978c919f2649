package cache

import (
	"context"
	"encoding/json"
	"time"

	"assessment-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// BankCache fronts the item repository with a Redis read-through cache.
// Item banks are immutable once loaded, so a short TTL is plenty. A nil
// client degrades to a permanent miss.
type BankCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBankCache(rdb *redis.Client, ttl time.Duration) *BankCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BankCache{rdb: rdb, ttl: ttl}
}

func bankKey(bankID string) string {
	return "bank:" + bankID
}

func (c *BankCache) GetBank(ctx context.Context, bankID string) ([]models.AssessableItem, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, bankKey(bankID)).Bytes()
	if err != nil {
		return nil, false
	}
	var items []models.AssessableItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *BankCache) SetBank(ctx context.Context, bankID string, items []models.AssessableItem) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, bankKey(bankID), raw, c.ttl)
}

func (c *BankCache) Invalidate(ctx context.Context, bankID string) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, bankKey(bankID))
}
