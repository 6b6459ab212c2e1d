package match

import (
	"context"
	"time"
)

// HistoryQuery bounds a recency query. Zero values disable the corresponding filter.
type HistoryQuery struct {
	Limit     int
	Since     time.Time
	Before    time.Time
	ExcludeID string
}

type UpsertResult struct {
	Inserted  int
	Updated   int
	Unchanged int
	Skipped   int
	// Finished lists ids that transitioned to finished during this upsert.
	Finished []string
}

func (r *UpsertResult) Add(other UpsertResult) {
	r.Inserted += other.Inserted
	r.Updated += other.Updated
	r.Unchanged += other.Unchanged
	r.Skipped += other.Skipped
	r.Finished = append(r.Finished, other.Finished...)
}

// Repository is the historical match store.
type Repository interface {
	UpsertMany(ctx context.Context, items []Match) (UpsertResult, error)
	GetByID(ctx context.Context, id string) (Match, bool, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Match, error)
	QueryTeamHistory(ctx context.Context, team TeamKey, q HistoryQuery) ([]Match, error)
	QueryHeadToHead(ctx context.Context, teamA, teamB TeamKey, q HistoryQuery) ([]Match, error)
	CountForTeam(ctx context.Context, team TeamKey) (int, error)
	CountAll(ctx context.Context) (int, error)
}
