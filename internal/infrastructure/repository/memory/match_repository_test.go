package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/match-forecast/internal/domain/match"
)

var day = time.Date(2025, 5, 1, 20, 0, 0, 0, time.UTC)

func finishedMatch(id, home, away string, hs, as, daysAgo int) match.Match {
	return match.Match{
		ID:        id,
		HomeTeam:  home,
		AwayTeam:  away,
		StartTime: day.AddDate(0, 0, -daysAgo),
		Status:    match.StatusFinished,
		Result:    match.NewResult(hs, as),
	}
}

func TestMatchRepository_UpsertNeverOverwritesFinished(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(nil)

	scheduled := match.Match{ID: "1", HomeTeam: "Lyon", AwayTeam: "Nice", StartTime: day, Status: match.StatusScheduled}
	res, err := repo.UpsertMany(ctx, []match.Match{scheduled, finishedMatch("2", "Lens", "Brest", 1, 0, 3)})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if res.Inserted != 2 {
		t.Fatalf("expected 2 inserted, got=%+v", res)
	}

	done := scheduled
	done.Status = match.StatusFinished
	done.Result = match.NewResult(3, 1)
	res, err = repo.UpsertMany(ctx, []match.Match{done, finishedMatch("2", "Lens", "Brest", 0, 4, 3)})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if res.Updated != 1 || res.Unchanged != 1 || len(res.Finished) != 1 || res.Finished[0] != "1" {
		t.Fatalf("unexpected upsert result: %+v", res)
	}

	stored, ok, err := repo.GetByID(ctx, "2")
	if err != nil || !ok {
		t.Fatalf("get stored match: ok=%v err=%v", ok, err)
	}
	if stored.Result.HomeScore != 1 || stored.Result.AwayScore != 0 {
		t.Fatalf("finished record was overwritten: %+v", stored.Result)
	}
}

func TestMatchRepository_UpsertSkipsInvalid(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(nil)
	res, err := repo.UpsertMany(context.Background(), []match.Match{
		{ID: "1", HomeTeam: "Lyon", AwayTeam: "Nice", StartTime: day, Status: match.StatusFinished},
		{ID: "2", HomeTeam: "Lyon", AwayTeam: "", StartTime: day, Status: match.StatusScheduled},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res.Skipped != 2 || res.Inserted != 0 {
		t.Fatalf("expected both records skipped, got=%+v", res)
	}
}

func TestMatchRepository_QueriesUseTeamKeysAndWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository([]match.Match{
		finishedMatch("1", "Olympique Lyonnais", "Nice", 1, 0, 30),
		finishedMatch("2", "Nice", "olympique lyonnais", 2, 2, 20),
		finishedMatch("3", "Lens", "Olympique Lyonnais", 0, 1, 10),
		finishedMatch("4", "Olympique Lyonnais", "Nice", 3, 0, 1),
		{ID: "5", HomeTeam: "Olympique Lyonnais", AwayTeam: "Nice", StartTime: day.AddDate(0, 0, 3), Status: match.StatusScheduled},
	})
	lyon, nice := match.NewTeamKey("Olympique Lyonnais"), match.NewTeamKey("Nice")

	history, err := repo.QueryTeamHistory(ctx, lyon, match.HistoryQuery{Limit: 3})
	if err != nil {
		t.Fatalf("team history: %v", err)
	}
	if len(history) != 3 || history[0].ID != "4" || history[2].ID != "2" {
		t.Fatalf("expected newest-first bounded history, got=%v", ids(history))
	}

	h2h, err := repo.QueryHeadToHead(ctx, nice, lyon, match.HistoryQuery{Before: day.AddDate(0, 0, -5), ExcludeID: "1"})
	if err != nil {
		t.Fatalf("head to head: %v", err)
	}
	if len(h2h) != 1 || h2h[0].ID != "2" {
		t.Fatalf("expected only meeting 2 inside window, got=%v", ids(h2h))
	}

	count, err := repo.CountForTeam(ctx, lyon)
	if err != nil || count != 4 {
		t.Fatalf("expected 4 finished lyon matches, got=%d err=%v", count, err)
	}
	total, err := repo.CountAll(ctx)
	if err != nil || total != 4 {
		t.Fatalf("expected 4 finished matches, got=%d err=%v", total, err)
	}

	upcoming, err := repo.ListUpcoming(ctx, day, 10)
	if err != nil || len(upcoming) != 1 || upcoming[0].ID != "5" {
		t.Fatalf("expected upcoming fixture 5, got=%v err=%v", ids(upcoming), err)
	}
}

func ids(items []match.Match) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
