package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	eventSlugKeyPrefix   = "junta:events:slug:"
	eventPublishedKey    = "junta:events:published"
	defaultEventCacheTTL = 30 * time.Second
)

// Cache is the subset of the Redis client used for event caching
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedEventRepository wraps EventRepository with Redis caching of the
// public reads. Cache failures fall through to the database.
type CachedEventRepository struct {
	repo  EventRepository
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedEventRepository creates a new CachedEventRepository
func NewCachedEventRepository(repo EventRepository, cache Cache, ttl time.Duration, log *logger.Logger) *CachedEventRepository {
	if ttl <= 0 {
		ttl = defaultEventCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedEventRepository{repo: repo, cache: cache, ttl: ttl, log: log}
}

// Create creates a new event and invalidates the published list
func (r *CachedEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if err := r.repo.Create(ctx, event); err != nil {
		return err
	}
	r.invalidate(ctx, event.Slug)
	return nil
}

// GetByID bypasses the cache so owners always see their latest draft
func (r *CachedEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return r.repo.GetByID(ctx, id)
}

// GetBySlug retrieves an event by slug with caching
func (r *CachedEventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	key := eventSlugKeyPrefix + slug
	var cached domain.Event
	if r.load(ctx, key, &cached) {
		return &cached, nil
	}

	event, err := r.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, nil
	}

	r.store(ctx, key, event)
	return event, nil
}

// Update updates an event and invalidates caches. The old slug is
// invalidated too when a retitle changed it.
func (r *CachedEventRepository) Update(ctx context.Context, event *domain.Event) error {
	old, err := r.repo.GetByID(ctx, event.ID)
	if err != nil {
		return err
	}
	if err := r.repo.Update(ctx, event); err != nil {
		return err
	}

	slugs := []string{event.Slug}
	if old != nil && old.Slug != event.Slug {
		slugs = append(slugs, old.Slug)
	}
	r.invalidate(ctx, slugs...)
	return nil
}

// Delete soft deletes an event and invalidates caches
func (r *CachedEventRepository) Delete(ctx context.Context, id string) error {
	event, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	if event != nil {
		r.invalidate(ctx, event.Slug)
	}
	return nil
}

// ListPublished lists published events with caching
func (r *CachedEventRepository) ListPublished(ctx context.Context) ([]*domain.Event, error) {
	var cached []*domain.Event
	if r.load(ctx, eventPublishedKey, &cached) {
		return cached, nil
	}

	events, err := r.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	r.store(ctx, eventPublishedKey, events)
	return events, nil
}

// ListByCreator is per-user and not cached
func (r *CachedEventRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.Event, error) {
	return r.repo.ListByCreator(ctx, userID)
}

// SlugExists bypasses the cache
func (r *CachedEventRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return r.repo.SlugExists(ctx, slug, excludeID)
}

// ImageInUse bypasses the cache
func (r *CachedEventRepository) ImageInUse(ctx context.Context, imageURL, excludeID string) (bool, error) {
	return r.repo.ImageInUse(ctx, imageURL, excludeID)
}

func (r *CachedEventRepository) load(ctx context.Context, key string, dest any) bool {
	raw, err := r.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("event cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

func (r *CachedEventRepository) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, string(data), r.ttl).Err(); err != nil {
		r.log.Warn("event cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *CachedEventRepository) invalidate(ctx context.Context, slugs ...string) {
	keys := []string{eventPublishedKey}
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, eventSlugKeyPrefix+s)
		}
	}
	if err := r.cache.Del(ctx, keys...).Err(); err != nil {
		r.log.Warn("event cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
