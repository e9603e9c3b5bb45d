package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
)

// RecommendationReader fetches recommendations from the external
// collaborator.
type RecommendationReader interface {
	Recommend(ctx context.Context, genre models.Genre) ([]string, error)
}

// RecommendationCache caches recommendation lists per genre.
type RecommendationCache interface {
	GetRecommendations(ctx context.Context, genre models.Genre) ([]string, error)
	SetRecommendations(ctx context.Context, genre models.Genre, titles []string) error
}

// RecommendationService serves genre-based recommendations, cache first.
type RecommendationService struct {
	reader         RecommendationReader
	cache          RecommendationCache
	gatewayTimeout time.Duration
	log            *zap.SugaredLogger
}

// NewRecommendationService creates a new service instance.
func NewRecommendationService(
	reader RecommendationReader,
	cache RecommendationCache,
	gatewayTimeout time.Duration,
	log *zap.SugaredLogger,
) *RecommendationService {
	return &RecommendationService{
		reader:         reader,
		cache:          cache,
		gatewayTimeout: gatewayTimeout,
		log:            log,
	}
}

// Recommend returns titles for a genre. A cache hit skips the
// collaborator entirely; on a miss the collaborator is called under a
// bounded timeout and the result is cached best-effort.
func (svc *RecommendationService) Recommend(ctx context.Context, genre models.Genre) ([]string, error) {
	titles, err := svc.cache.GetRecommendations(ctx, genre)
	if err == nil && len(titles) > 0 {
		return titles, nil
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, svc.gatewayTimeout)
	defer cancel()

	titles, err = svc.reader.Recommend(gatewayCtx, genre)
	if err != nil {
		if isGatewayTimeout(err) {
			svc.log.Errorw("recommendation generation timed out", "genre", genre)
			return nil, ErrGatewayTimeout
		}
		svc.log.Errorw("recommendation generation failed", "genre", genre, "err", err)
		return nil, err
	}

	if err := svc.cache.SetRecommendations(ctx, genre, titles); err != nil {
		svc.log.Errorw("failed to cache recommendations", "genre", genre, "err", err)
	}

	return titles, nil
}
