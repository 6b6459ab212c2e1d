package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/match-forecast/internal/domain/match"
)

// MatchRepository keeps the historical match store in process memory.
type MatchRepository struct {
	mu    sync.RWMutex
	byID  map[string]match.Match
	order []string
	now   func() time.Time
}

func NewMatchRepository(seed []match.Match) *MatchRepository {
	r := &MatchRepository{
		byID: make(map[string]match.Match),
		now:  time.Now,
	}
	if len(seed) > 0 {
		_, _ = r.UpsertMany(context.Background(), seed)
	}
	return r
}

func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) (match.UpsertResult, error) {
	if err := ctx.Err(); err != nil {
		return match.UpsertResult{}, err
	}

	prepared, skipped := match.PrepareUpsert(items)
	result := match.UpsertResult{Skipped: skipped}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	for _, item := range prepared {
		stored, exists := r.byID[item.ID]
		if !exists {
			item.UpdatedAt = now
			r.byID[item.ID] = item
			r.order = append(r.order, item.ID)
			result.Inserted++
			continue
		}

		merged, changed := match.Merge(stored, item)
		if !changed {
			result.Unchanged++
			continue
		}
		merged.UpdatedAt = now
		r.byID[item.ID] = merged
		result.Updated++
		if merged.Status == match.StatusFinished {
			result.Finished = append(result.Finished, merged.ID)
		}
	}

	return result, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	if !ok {
		return match.Match{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *MatchRepository) ListUpcoming(_ context.Context, from time.Time, limit int) ([]match.Match, error) {
	out := r.filter(func(item match.Match) bool {
		return (item.Status == match.StatusScheduled || item.Status == match.StatusLive) && !item.StartTime.Before(from)
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return truncate(out, limit), nil
}

func (r *MatchRepository) QueryTeamHistory(_ context.Context, team match.TeamKey, q match.HistoryQuery) ([]match.Match, error) {
	out := r.filter(func(item match.Match) bool {
		return item.IsFinished() && item.Involves(team) && inWindow(item, q)
	})
	sortNewestFirst(out)
	return truncate(out, q.Limit), nil
}

func (r *MatchRepository) QueryHeadToHead(_ context.Context, teamA, teamB match.TeamKey, q match.HistoryQuery) ([]match.Match, error) {
	out := r.filter(func(item match.Match) bool {
		return item.IsFinished() && item.IsPair(teamA, teamB) && inWindow(item, q)
	})
	sortNewestFirst(out)
	return truncate(out, q.Limit), nil
}

func (r *MatchRepository) CountForTeam(_ context.Context, team match.TeamKey) (int, error) {
	return len(r.filter(func(item match.Match) bool {
		return item.IsFinished() && item.Involves(team)
	})), nil
}

func (r *MatchRepository) CountAll(_ context.Context) (int, error) {
	return len(r.filter(func(item match.Match) bool { return item.IsFinished() })), nil
}

func (r *MatchRepository) filter(keep func(match.Match) bool) []match.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, id := range r.order {
		item := r.byID[id]
		if keep(item) {
			out = append(out, item.Clone())
		}
	}
	return out
}

func inWindow(item match.Match, q match.HistoryQuery) bool {
	if q.ExcludeID != "" && item.ID == q.ExcludeID {
		return false
	}
	if !q.Since.IsZero() && item.StartTime.Before(q.Since) {
		return false
	}
	if !q.Before.IsZero() && !item.StartTime.Before(q.Before) {
		return false
	}
	return true
}

func sortNewestFirst(items []match.Match) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].StartTime.Equal(items[j].StartTime) {
			return items[i].ID > items[j].ID
		}
		return items[i].StartTime.After(items[j].StartTime)
	})
}

func truncate(items []match.Match, limit int) []match.Match {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
