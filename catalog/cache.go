package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cardtavern/storefront/models"
)

const (
	cardCachePrefix = "card:detail:"
	cardCacheTTL    = 10 * time.Minute
)

// Cache holds recently fetched card rows in Redis so repeated cart
// views do not hit the catalog table for the same ids.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCache(client *redis.Client, log *zap.Logger) *Cache {
	return &Cache{
		redis: client,
		ttl:   cardCacheTTL,
		log:   log,
	}
}

func cardKey(id int64) string {
	return fmt.Sprintf("%s%d", cardCachePrefix, id)
}

// GetCard returns the cached card and whether it was present. Cache
// errors are treated as misses.
func (c *Cache) GetCard(ctx context.Context, id int64) (*models.Card, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, cardKey(id)).Result()
	if err != nil {
		return nil, false
	}
	var card models.Card
	if err := json.Unmarshal([]byte(data), &card); err != nil {
		c.log.Warn("Failed to unmarshal cached card", zap.Int64("id", id), zap.Error(err))
		return nil, false
	}
	return &card, true
}

// SetCardsAsync caches cards in the background; failures are logged only.
func (c *Cache) SetCardsAsync(cards []models.Card) {
	if c == nil || c.redis == nil || len(cards) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, card := range cards {
			data, err := json.Marshal(card)
			if err != nil {
				c.log.Warn("Failed to marshal card for cache", zap.Int64("id", card.ID), zap.Error(err))
				continue
			}
			if err := c.redis.Set(ctx, cardKey(card.ID), data, c.ttl).Err(); err != nil {
				c.log.Warn("Failed to cache card", zap.Int64("id", card.ID), zap.Error(err))
			}
		}
	}()
}
