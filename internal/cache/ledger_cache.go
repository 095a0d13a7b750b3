package cache

import (
	"context"
	"fmt"

	"sciannotate/internal/model"

	"github.com/redis/go-redis/v9"
)

// LedgerCache handles Redis operations for the review-count ledger: how many
// reviews each question has accumulated and which questions each user has
// reviewed.
type LedgerCache interface {
	IncrCount(ctx context.Context, domain, questionID string) (int64, error)
	Counts(ctx context.Context, domain string) (map[string]int, error)
	MarkUserReviewed(ctx context.Context, domain, userEmail, questionID string) error
	UserReviewed(ctx context.Context, domain, userEmail string) ([]string, error)
	Warm(ctx context.Context, domain string, counts map[string]int) error
}

type ledgerCache struct {
	client *redis.Client
}

// NewLedgerCache creates a new ledger cache
func NewLedgerCache(client *redis.Client) LedgerCache {
	return &ledgerCache{client: client}
}

func (c *ledgerCache) countsKey(domain string) string {
	return fmt.Sprintf("domain:%s:reviewCounts", model.Slugify(domain))
}

func (c *ledgerCache) userKey(domain, userEmail string) string {
	return fmt.Sprintf("domain:%s:user:%s:reviewed", model.Slugify(domain), userEmail)
}

func (c *ledgerCache) IncrCount(ctx context.Context, domain, questionID string) (int64, error) {
	return c.client.HIncrBy(ctx, c.countsKey(domain), questionID, 1).Result()
}

func (c *ledgerCache) Counts(ctx context.Context, domain string) (map[string]int, error) {
	data, err := c.client.HGetAll(ctx, c.countsKey(domain)).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(data))
	for id, raw := range data {
		var n int
		if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
			continue
		}
		counts[id] = n
	}
	return counts, nil
}

func (c *ledgerCache) MarkUserReviewed(ctx context.Context, domain, userEmail, questionID string) error {
	return c.client.SAdd(ctx, c.userKey(domain, userEmail), questionID).Err()
}

func (c *ledgerCache) UserReviewed(ctx context.Context, domain, userEmail string) ([]string, error) {
	ids, err := c.client.SMembers(ctx, c.userKey(domain, userEmail)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	return ids, err
}

// Warm seeds the count hash from a Mongo aggregation, used when Redis starts
// cold.
func (c *ledgerCache) Warm(ctx context.Context, domain string, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}
	values := make(map[string]interface{}, len(counts))
	for id, n := range counts {
		values[id] = n
	}
	return c.client.HSet(ctx, c.countsKey(domain), values).Err()
}
