package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
)

// RecommendationCacheRepository caches recommendation lists per genre
// in Redis so repeated requests skip the model call.
type RecommendationCacheRepository struct {
	client *redis.Client
	exp    time.Duration
	log    *zap.SugaredLogger
}

// NewRecommendationCacheRepository creates a repository with the given TTL.
func NewRecommendationCacheRepository(client *redis.Client, expiration time.Duration, log *zap.SugaredLogger) *RecommendationCacheRepository {
	return &RecommendationCacheRepository{client: client, exp: expiration, log: log}
}

func recommendationKey(genre models.Genre) string {
	return fmt.Sprintf("recommendations:%s", genre)
}

// GetRecommendations fetches the cached title list for a genre.
func (r *RecommendationCacheRepository) GetRecommendations(ctx context.Context, genre models.Genre) ([]string, error) {
	key := recommendationKey(genre)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		r.log.Debugw("recommendation cache miss", "key", key, "error", err)
		if err == redis.Nil {
			return nil, fmt.Errorf("recommendations not found in cache for genre %s", genre)
		}
		return nil, err
	}

	var titles []string
	if err := json.Unmarshal([]byte(val), &titles); err != nil {
		r.log.Errorw("corrupt recommendation cache entry", "key", key, "error", err)
		return nil, err
	}

	r.log.Debugw("recommendation cache hit", "key", key, "count", len(titles))
	return titles, nil
}

// SetRecommendations caches a title list for a genre with expiration.
func (r *RecommendationCacheRepository) SetRecommendations(ctx context.Context, genre models.Genre, titles []string) error {
	key := recommendationKey(genre)

	data, err := json.Marshal(titles)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()

	r.log.Debugw("recommendation cache set",
		"key", key,
		"count", len(titles),
		"error", err,
	)

	return err
}
