package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
	"github.com/riskibarqy/match-forecast/internal/domain/match"
	"github.com/riskibarqy/match-forecast/internal/domain/prediction"
	"github.com/riskibarqy/match-forecast/internal/infrastructure/repository/memory"
	usecasemock "github.com/riskibarqy/match-forecast/internal/mocks/usecase"
	"github.com/riskibarqy/match-forecast/internal/platform/lock"
	"github.com/riskibarqy/match-forecast/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestFixtureSyncService_Sync_StoresAndAnnotates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fixture := fixtureAt("m1", "Lyon", "Nice", kickoff)
	matchRepo := memory.NewMatchRepository([]match.Match{fixture})
	predictions := newTestPredictionService(matchRepo, memory.NewPredictionRepository(), nil, nil)
	if _, err := predictions.Predict(ctx, "m1"); err != nil {
		t.Fatalf("predict: %v", err)
	}

	finished := fixture
	finished.Status = match.StatusFinished
	finished.Result = match.NewResult(0, 2)
	broken := match.Match{ID: "m9", HomeTeam: "Lyon", StartTime: kickoff, Status: match.StatusFinished}

	source := usecasemock.NewMatchSource(t)
	source.On("FetchUpcoming", mock.Anything).Return([]match.Match{fixtureAt("m2", "Lens", "Brest", kickoff)}).Once()
	source.On("FetchResults", mock.Anything).Return([]match.Match{finished, broken}).Once()

	svc := NewFixtureSyncService(source, matchRepo, predictions, logging.NewNop())
	summary, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	want := FixtureSyncSummary{Upcoming: 1, Results: 2, Inserted: 1, Updated: 1, Skipped: 1, Annotated: 1}
	if summary != want {
		t.Fatalf("unexpected summary: got=%+v want=%+v", summary, want)
	}

	acc, err := predictions.Accuracy(ctx)
	if err != nil {
		t.Fatalf("accuracy: %v", err)
	}
	if acc.Annotated != 1 || acc.Correct != 0 {
		t.Fatalf("expected one wrong prediction, got=%+v", acc)
	}
}

func TestFixtureSyncService_Sync_AnnotatesResultStoredByRefresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fixture := fixtureAt("m1", "Lyon", "Nice", kickoff)
	matchRepo := memory.NewMatchRepository([]match.Match{fixture})
	predictions := newTestPredictionService(matchRepo, memory.NewPredictionRepository(), nil, nil)
	if _, err := predictions.Predict(ctx, "m1"); err != nil {
		t.Fatalf("predict: %v", err)
	}

	finished := fixture
	finished.Status = match.StatusFinished
	finished.Result = match.NewResult(0, 2)

	refreshSource := usecasemock.NewMatchSource(t)
	refreshSource.On("FetchResults", mock.Anything).Return([]match.Match{finished}).Once()
	newTestHistorySync(refreshSource, matchRepo, lock.NewLocalLocker(), HistorySyncConfig{}).RefreshFixture(ctx, fixture)

	stored, _, err := matchRepo.GetByID(ctx, "m1")
	if err != nil || !stored.IsFinished() {
		t.Fatalf("expected refresh to store the final result, got=%+v err=%v", stored, err)
	}

	source := usecasemock.NewMatchSource(t)
	source.On("FetchUpcoming", mock.Anything).Return([]match.Match{}).Once()
	source.On("FetchResults", mock.Anything).Return([]match.Match{finished}).Once()

	svc := NewFixtureSyncService(source, matchRepo, predictions, logging.NewNop())
	summary, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if summary.Updated != 0 || summary.Annotated != 1 {
		t.Fatalf("expected unchanged row with one annotation, got=%+v", summary)
	}

	acc, err := predictions.Accuracy(ctx)
	if err != nil {
		t.Fatalf("accuracy: %v", err)
	}
	if acc.Annotated != 1 || acc.Correct != 0 {
		t.Fatalf("expected finished match m1 to be annotated, got=%+v", acc)
	}
}

type flakyPredictionRepository struct {
	prediction.Repository
	failures int
}

func (r *flakyPredictionRepository) Annotate(ctx context.Context, matchID, modelVersion string, actual forecast.Outcome) (prediction.Prediction, bool, error) {
	if r.failures > 0 {
		r.failures--
		return prediction.Prediction{}, false, errors.New("connection reset")
	}
	return r.Repository.Annotate(ctx, matchID, modelVersion, actual)
}

func TestFixtureSyncService_Sync_RetriesFailedAnnotation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fixture := fixtureAt("m1", "Lyon", "Nice", kickoff)
	matchRepo := memory.NewMatchRepository([]match.Match{fixture})
	predictionRepo := &flakyPredictionRepository{Repository: memory.NewPredictionRepository(), failures: 1}
	predictions := newTestPredictionService(matchRepo, predictionRepo, nil, nil)
	if _, err := predictions.Predict(ctx, "m1"); err != nil {
		t.Fatalf("predict: %v", err)
	}

	finished := fixture
	finished.Status = match.StatusFinished
	finished.Result = match.NewResult(2, 1)

	source := usecasemock.NewMatchSource(t)
	source.On("FetchUpcoming", mock.Anything).Return([]match.Match{})
	source.On("FetchResults", mock.Anything).Return([]match.Match{finished})

	svc := NewFixtureSyncService(source, matchRepo, predictions, logging.NewNop())
	first, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if first.Updated != 1 || first.Annotated != 0 {
		t.Fatalf("expected stored result without annotation, got=%+v", first)
	}

	second, err := svc.Sync(ctx)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if second.Updated != 0 || second.Annotated != 1 {
		t.Fatalf("expected annotation on retry, got=%+v", second)
	}
}

func TestFixtureSyncService_Sync_EmptyProviderIsNotAnError(t *testing.T) {
	t.Parallel()

	source := usecasemock.NewMatchSource(t)
	source.On("FetchUpcoming", mock.Anything).Return([]match.Match{}).Once()
	source.On("FetchResults", mock.Anything).Return([]match.Match{}).Once()

	svc := NewFixtureSyncService(source, memory.NewMatchRepository(nil), nil, logging.NewNop())
	summary, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if summary != (FixtureSyncSummary{}) {
		t.Fatalf("expected empty summary, got=%+v", summary)
	}
}

func TestFixtureSyncService_Sync_RequiresSource(t *testing.T) {
	t.Parallel()

	svc := NewFixtureSyncService(nil, memory.NewMatchRepository(nil), nil, logging.NewNop())
	if _, err := svc.Sync(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
