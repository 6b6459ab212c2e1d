package memory

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
	"github.com/riskibarqy/match-forecast/internal/domain/prediction"
)

func TestPredictionRepository_CreateIfAbsentFirstWriterWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPredictionRepository()

	first := prediction.Prediction{ID: "p1", MatchID: "m1", ModelVersion: "v1", MostLikely: forecast.OutcomeHome}
	second := prediction.Prediction{ID: "p2", MatchID: "m1", ModelVersion: "v1", MostLikely: forecast.OutcomeAway}

	stored, created, err := repo.CreateIfAbsent(ctx, first)
	if err != nil || !created || stored.ID != "p1" {
		t.Fatalf("expected first create, got=%+v created=%v err=%v", stored, created, err)
	}
	stored, created, err = repo.CreateIfAbsent(ctx, second)
	if err != nil || created || stored.ID != "p1" {
		t.Fatalf("expected existing row, got=%+v created=%v err=%v", stored, created, err)
	}

	other, created, err := repo.CreateIfAbsent(ctx, prediction.Prediction{ID: "p3", MatchID: "m1", ModelVersion: "v2"})
	if err != nil || !created || other.ID != "p3" {
		t.Fatalf("expected new version to create a row, got=%+v created=%v err=%v", other, created, err)
	}
}

func TestPredictionRepository_AnnotateOnceAndAccuracy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPredictionRepository()
	_, _, _ = repo.CreateIfAbsent(ctx, prediction.Prediction{ID: "p1", MatchID: "m1", ModelVersion: "v1", MostLikely: forecast.OutcomeHome})
	_, _, _ = repo.CreateIfAbsent(ctx, prediction.Prediction{ID: "p2", MatchID: "m2", ModelVersion: "v1", MostLikely: forecast.OutcomeDraw})

	got, found, err := repo.Annotate(ctx, "m1", "v1", forecast.OutcomeHome)
	if err != nil || !found || got.IsCorrect == nil || !*got.IsCorrect {
		t.Fatalf("expected correct annotation, got=%+v found=%v err=%v", got, found, err)
	}
	got, _, _ = repo.Annotate(ctx, "m1", "v1", forecast.OutcomeAway)
	if *got.ActualResult != forecast.OutcomeHome {
		t.Fatalf("expected first annotation to stick, got=%s", *got.ActualResult)
	}
	if _, _, err := repo.Annotate(ctx, "m2", "v1", forecast.OutcomeAway); err != nil {
		t.Fatalf("annotate m2: %v", err)
	}
	if _, found, _ := repo.Annotate(ctx, "missing", "v1", forecast.OutcomeAway); found {
		t.Fatalf("expected missing prediction to report not found")
	}

	acc, err := repo.Accuracy(ctx, "v1")
	if err != nil {
		t.Fatalf("accuracy: %v", err)
	}
	if acc.Annotated != 2 || acc.Correct != 1 {
		t.Fatalf("unexpected accuracy: %+v", acc)
	}
}

func TestPredictionRepository_ListUnannotated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPredictionRepository()
	base := time.Date(2025, 5, 10, 19, 0, 0, 0, time.UTC)
	for _, item := range []prediction.Prediction{
		{ID: "p1", MatchID: "m3", ModelVersion: "v1", KickoffAt: base.Add(48 * time.Hour)},
		{ID: "p2", MatchID: "m1", ModelVersion: "v1", KickoffAt: base},
		{ID: "p3", MatchID: "m2", ModelVersion: "v1", KickoffAt: base.Add(24 * time.Hour)},
		{ID: "p4", MatchID: "m4", ModelVersion: "v2", KickoffAt: base},
	} {
		if _, _, err := repo.CreateIfAbsent(ctx, item); err != nil {
			t.Fatalf("create %s: %v", item.ID, err)
		}
	}
	if _, _, err := repo.Annotate(ctx, "m2", "v1", forecast.OutcomeDraw); err != nil {
		t.Fatalf("annotate: %v", err)
	}

	got, err := repo.ListUnannotated(ctx, "v1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if want := []string{"m1", "m3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected pending ids: got=%v want=%v", got, want)
	}

	got, err = repo.ListUnannotated(ctx, "v1", 1)
	if err != nil {
		t.Fatalf("list with limit: %v", err)
	}
	if len(got) != 1 || got[0] != "m1" {
		t.Fatalf("expected earliest kickoff first, got=%v", got)
	}
}
