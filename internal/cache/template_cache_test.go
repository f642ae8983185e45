package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outreach/internal/models"
	"outreach/internal/repository"
)

type countingTemplateRepo struct {
	templates map[int]*models.Template
	calls     int
}

func (r *countingTemplateRepo) GetByID(ctx context.Context, id int) (*models.Template, error) {
	r.calls++
	t, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("template %d: %w", id, repository.ErrNotFound)
	}
	return t, nil
}

func newCacheFixture(t *testing.T) (*TemplateCache, *countingTemplateRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := &countingTemplateRepo{templates: map[int]*models.Template{
		10: {ID: 10, Name: "welcome_sms", Body: "Hi {first_name}!"},
	}}

	return NewTemplateCache(inner, client, time.Minute), inner, mr
}

func TestTemplateCache_ReadThrough(t *testing.T) {
	cache, inner, _ := newCacheFixture(t)
	ctx := context.Background()

	first, err := cache.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "welcome_sms", first.Name)
	assert.Equal(t, 1, inner.calls)

	second, err := cache.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, first.Body, second.Body)
	// served from cache
	assert.Equal(t, 1, inner.calls)
}

func TestTemplateCache_TTLExpiry(t *testing.T) {
	cache, inner, mr := newCacheFixture(t)
	ctx := context.Background()

	_, err := cache.GetByID(ctx, 10)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cache.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestTemplateCache_MissPassesThroughError(t *testing.T) {
	cache, _, _ := newCacheFixture(t)

	_, err := cache.GetByID(context.Background(), 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTemplateCache_CorruptEntryFallsThrough(t *testing.T) {
	cache, inner, mr := newCacheFixture(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("outreach:template:10", "not json"))

	template, err := cache.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "welcome_sms", template.Name)
	assert.Equal(t, 1, inner.calls)
}

func TestTemplateCache_NilClientDisablesCaching(t *testing.T) {
	inner := &countingTemplateRepo{templates: map[int]*models.Template{
		10: {ID: 10, Name: "welcome_sms", Body: "Hi!"},
	}}
	cache := NewTemplateCache(inner, nil, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := cache.GetByID(ctx, 10)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, inner.calls)
}

func TestTemplateCache_RedisDownFallsThrough(t *testing.T) {
	cache, inner, mr := newCacheFixture(t)
	mr.Close()

	template, err := cache.GetByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "welcome_sms", template.Name)
	assert.Equal(t, 1, inner.calls)
}
