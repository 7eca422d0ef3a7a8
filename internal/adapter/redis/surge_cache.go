package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
)

const (
	SurgeRulesKey = "fare:surge:rules"

	// loadedField marks a filled hash, so an empty catalog is still a hit.
	loadedField = "__loaded"
)

type surgeEntry struct {
	Name       string  `json:"name,omitempty"`
	Multiplier float64 `json:"multiplier"`
}

// SurgeCache keeps the surge catalog in one Redis hash, field per rule id.
type SurgeCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewSurgeCache(client *redis.Client, ttl time.Duration) *SurgeCache {
	return &SurgeCache{
		client: client,
		key:    SurgeRulesKey,
		ttl:    ttl,
	}
}

func (c *SurgeCache) Load(ctx context.Context) ([]models.SurgeRule, bool, error) {
	const op = "SurgeCache.Load"

	fields, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := fields[loadedField]; !ok {
		return nil, false, nil
	}
	delete(fields, loadedField)

	rules := make([]models.SurgeRule, 0, len(fields))
	for id, raw := range fields {
		var e surgeEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, false, fmt.Errorf("%s: decode rule %s: %w", op, id, err)
		}
		rules = append(rules, models.SurgeRule{ID: id, Name: e.Name, Multiplier: e.Multiplier})
	}
	return rules, true, nil
}

// Store replaces the cached catalog atomically and sets its TTL.
func (c *SurgeCache) Store(ctx context.Context, rules []models.SurgeRule) error {
	const op = "SurgeCache.Store"

	values := make([]any, 0, 2*len(rules)+2)
	values = append(values, loadedField, "1")
	for _, r := range rules {
		raw, err := json.Marshal(surgeEntry{Name: r.Name, Multiplier: r.Multiplier})
		if err != nil {
			return fmt.Errorf("%s: encode rule %s: %w", op, r.ID, err)
		}
		values = append(values, r.ID, string(raw))
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key)
		pipe.HSet(ctx, c.key, values...)
		if c.ttl > 0 {
			pipe.Expire(ctx, c.key, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *SurgeCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("SurgeCache.Invalidate: %w", err)
	}
	return nil
}
