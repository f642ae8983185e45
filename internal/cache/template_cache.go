package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"outreach/internal/models"
	"outreach/internal/repository"
)

// TemplateCache is a read-through Redis cache in front of the template
// repository. Templates are read-only from the engine's perspective, so a
// short TTL is the only invalidation needed. A nil client disables
// caching and every read falls through to the store.
type TemplateCache struct {
	inner  repository.TemplateRepository
	client *redis.Client
	ttl    time.Duration
}

// NewTemplateCache wraps a template repository. client may be nil.
func NewTemplateCache(inner repository.TemplateRepository, client *redis.Client, ttl time.Duration) *TemplateCache {
	return &TemplateCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}
}

func templateKey(id int) string {
	return fmt.Sprintf("outreach:template:%d", id)
}

// GetByID returns the cached template, falling through to the store on a
// miss. Cache failures never fail the read.
func (c *TemplateCache) GetByID(ctx context.Context, id int) (*models.Template, error) {
	if c.client == nil {
		return c.inner.GetByID(ctx, id)
	}

	key := templateKey(id)
	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		template := &models.Template{}
		if err := json.Unmarshal(cached, template); err == nil {
			return template, nil
		}
		// Unreadable entry: drop it and fall through
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("Warning: template cache read failed: %v", err)
	}

	template, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if body, err := json.Marshal(template); err == nil {
		if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
			log.Printf("Warning: template cache write failed: %v", err)
		}
	}

	return template, nil
}
