package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
)

var _ domain.MealRepository = (*CachedMealRepository)(nil)

// CachedMealRepository is a cache-aside decorator: meal records are immutable
// enough for a TTL cache, and plan resolution hits the same few hundred meals
// on every client load.
type CachedMealRepository struct {
	next  domain.MealRepository
	cache *redis.Client
}

func NewCachedMealRepository(next domain.MealRepository, cache *redis.Client) *CachedMealRepository {
	return &CachedMealRepository{
		next:  next,
		cache: cache,
	}
}

const mealCacheTTL = 30 * time.Minute

func (r *CachedMealRepository) cacheKey(id string) string {
	return fmt.Sprintf("meal:%s", id)
}

func (r *CachedMealRepository) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	val, err := r.cache.Get(ctx, r.cacheKey(id)).Result()
	if err == nil {
		var meal domain.Meal
		if err := json.Unmarshal([]byte(val), &meal); err == nil {
			return &meal, nil
		}

		log.Printf("[CACHE] Corrupted data for meal %s, cleaning up key", id)
		r.cache.Del(ctx, r.cacheKey(id))
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	meal, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, meal)
	return meal, nil
}

func (r *CachedMealRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Meal, error) {
	meals := make([]*domain.Meal, 0, len(ids))
	var missing []string

	for _, id := range ids {
		val, err := r.cache.Get(ctx, r.cacheKey(id)).Result()
		if err != nil {
			if err != redis.Nil {
				log.Printf("[CACHE] Redis read error: %v", err)
			}
			missing = append(missing, id)
			continue
		}

		var meal domain.Meal
		if err := json.Unmarshal([]byte(val), &meal); err != nil {
			log.Printf("[CACHE] Corrupted data for meal %s, cleaning up key", id)
			r.cache.Del(ctx, r.cacheKey(id))
			missing = append(missing, id)
			continue
		}
		meals = append(meals, &meal)
	}

	if len(missing) == 0 {
		return meals, nil
	}

	fetched, err := r.next.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	for _, meal := range fetched {
		r.store(ctx, meal)
	}

	return append(meals, fetched...), nil
}

func (r *CachedMealRepository) store(ctx context.Context, meal *domain.Meal) {
	data, err := json.Marshal(meal)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, r.cacheKey(meal.ID), data, mealCacheTTL).Err(); err != nil {
		log.Printf("[CACHE] Redis set error: %v", err)
	}
}
