package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
	"github.com/riskibarqy/match-forecast/internal/domain/prediction"
	basecache "github.com/riskibarqy/match-forecast/internal/platform/cache"
)

const (
	predictionKeyPrefix = "prediction:"
	accuracyKeyPrefix   = "prediction-accuracy:"
)

type cachedPrediction struct {
	value    prediction.Prediction
	accuracy prediction.Accuracy
	exists   bool
}

// PredictionRepository serves repeated reads of the same (match, model version) from
// memory. Writes go to next first and then drop the affected keys.
type PredictionRepository struct {
	next  prediction.Repository
	cache *basecache.Store[cachedPrediction]
}

func NewPredictionRepository(next prediction.Repository, ttl time.Duration) *PredictionRepository {
	return &PredictionRepository{next: next, cache: basecache.NewStore[cachedPrediction](ttl)}
}

func (r *PredictionRepository) Stats() basecache.Stats {
	return r.cache.Stats()
}

func (r *PredictionRepository) GetByMatchID(ctx context.Context, matchID, modelVersion string) (prediction.Prediction, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, predictionKey(matchID, modelVersion), func(ctx context.Context) (cachedPrediction, error) {
		item, exists, err := r.next.GetByMatchID(ctx, matchID, modelVersion)
		if err != nil {
			return cachedPrediction{}, err
		}
		return cachedPrediction{value: item, exists: exists}, nil
	})
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	return v.value, v.exists, nil
}

func (r *PredictionRepository) CreateIfAbsent(ctx context.Context, item prediction.Prediction) (prediction.Prediction, bool, error) {
	stored, created, err := r.next.CreateIfAbsent(ctx, item)
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	r.cache.Set(ctx, predictionKey(stored.MatchID, stored.ModelVersion), cachedPrediction{value: stored, exists: true})
	return stored, created, nil
}

func (r *PredictionRepository) Annotate(ctx context.Context, matchID, modelVersion string, actual forecast.Outcome) (prediction.Prediction, bool, error) {
	item, found, err := r.next.Annotate(ctx, matchID, modelVersion, actual)
	r.cache.Delete(ctx, predictionKey(matchID, modelVersion))
	r.cache.Delete(ctx, accuracyKeyPrefix+modelVersion)
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	return item, found, nil
}

func (r *PredictionRepository) Accuracy(ctx context.Context, modelVersion string) (prediction.Accuracy, error) {
	v, err := r.cache.GetOrLoad(ctx, accuracyKeyPrefix+modelVersion, func(ctx context.Context) (cachedPrediction, error) {
		acc, err := r.next.Accuracy(ctx, modelVersion)
		if err != nil {
			return cachedPrediction{}, err
		}
		return cachedPrediction{accuracy: acc, exists: true}, nil
	})
	if err != nil {
		return prediction.Accuracy{}, err
	}
	return v.accuracy, nil
}

func (r *PredictionRepository) ListUnannotated(ctx context.Context, modelVersion string, limit int) ([]string, error) {
	return r.next.ListUnannotated(ctx, modelVersion, limit)
}

func predictionKey(matchID, modelVersion string) string {
	return predictionKeyPrefix + matchID + ":" + modelVersion
}
