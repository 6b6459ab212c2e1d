package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
	"github.com/riskibarqy/match-forecast/internal/domain/prediction"
)

type predictionKey struct {
	matchID string
	version string
}

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[predictionKey]prediction.Prediction
	now   func() time.Time
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{
		items: make(map[predictionKey]prediction.Prediction),
		now:   time.Now,
	}
}

func (r *PredictionRepository) GetByMatchID(_ context.Context, matchID, modelVersion string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[predictionKey{matchID: matchID, version: modelVersion}]
	return clonePrediction(item), ok, nil
}

func (r *PredictionRepository) CreateIfAbsent(_ context.Context, item prediction.Prediction) (prediction.Prediction, bool, error) {
	key := predictionKey{matchID: item.MatchID, version: item.ModelVersion}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[key]; ok {
		return clonePrediction(existing), false, nil
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = r.now().UTC()
	}
	r.items[key] = clonePrediction(item)
	return clonePrediction(item), true, nil
}

func (r *PredictionRepository) Annotate(_ context.Context, matchID, modelVersion string, actual forecast.Outcome) (prediction.Prediction, bool, error) {
	key := predictionKey{matchID: matchID, version: modelVersion}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[key]
	if !ok {
		return prediction.Prediction{}, false, nil
	}
	if item.ActualResult == nil {
		outcome := actual
		correct := item.MostLikely == actual
		annotatedAt := r.now().UTC()
		item.ActualResult = &outcome
		item.IsCorrect = &correct
		item.AnnotatedAt = &annotatedAt
		r.items[key] = item
	}
	return clonePrediction(item), true, nil
}

func (r *PredictionRepository) Accuracy(_ context.Context, modelVersion string) (prediction.Accuracy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := prediction.Accuracy{ModelVersion: modelVersion}
	for key, item := range r.items {
		if key.version != modelVersion || item.IsCorrect == nil {
			continue
		}
		out.Annotated++
		if *item.IsCorrect {
			out.Correct++
		}
	}
	return out, nil
}

func (r *PredictionRepository) ListUnannotated(_ context.Context, modelVersion string, limit int) ([]string, error) {
	r.mu.RLock()
	pending := make([]prediction.Prediction, 0)
	for key, item := range r.items {
		if key.version == modelVersion && item.ActualResult == nil {
			pending = append(pending, item)
		}
	}
	r.mu.RUnlock()

	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].KickoffAt.Equal(pending[j].KickoffAt) {
			return pending[i].KickoffAt.Before(pending[j].KickoffAt)
		}
		return pending[i].MatchID < pending[j].MatchID
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	out := make([]string, 0, len(pending))
	for _, item := range pending {
		out = append(out, item.MatchID)
	}
	return out, nil
}

func clonePrediction(item prediction.Prediction) prediction.Prediction {
	out := item
	if item.ActualResult != nil {
		v := *item.ActualResult
		out.ActualResult = &v
	}
	if item.IsCorrect != nil {
		v := *item.IsCorrect
		out.IsCorrect = &v
	}
	if item.AnnotatedAt != nil {
		v := *item.AnnotatedAt
		out.AnnotatedAt = &v
	}
	return out
}
