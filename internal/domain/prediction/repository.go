package prediction

import (
	"context"

	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
)

type Repository interface {
	GetByMatchID(ctx context.Context, matchID, modelVersion string) (Prediction, bool, error)
	// CreateIfAbsent stores item unless a prediction for the same match and model
	// version exists. It returns the stored row and whether item was the one written.
	CreateIfAbsent(ctx context.Context, item Prediction) (Prediction, bool, error)
	// Annotate sets the actual outcome once. found is false when no prediction exists.
	Annotate(ctx context.Context, matchID, modelVersion string, actual forecast.Outcome) (Prediction, bool, error)
	Accuracy(ctx context.Context, modelVersion string) (Accuracy, error)
	// ListUnannotated returns match ids of predictions under modelVersion that have no
	// actual outcome yet, earliest kickoff first.
	ListUnannotated(ctx context.Context, modelVersion string, limit int) ([]string, error)
}
