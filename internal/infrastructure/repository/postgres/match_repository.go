package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/match-forecast/internal/domain/match"
	qb "github.com/riskibarqy/match-forecast/internal/platform/querybuilder"
)

const historicalMatchesTable = "historical_matches"

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) (match.UpsertResult, error) {
	prepared, skipped := match.PrepareUpsert(items)
	result := match.UpsertResult{Skipped: skipped}
	if len(prepared) == 0 {
		return result, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return match.UpsertResult{}, fmt.Errorf("begin tx upsert historical matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existing, err := r.loadExisting(ctx, tx, prepared)
	if err != nil {
		return match.UpsertResult{}, err
	}

	fresh := make([]historicalMatchInsertModel, 0, len(prepared))
	for _, item := range prepared {
		stored, ok := existing[item.ID]
		if !ok {
			fresh = append(fresh, newHistoricalMatchInsertModel(item))
			continue
		}

		merged, changed := match.Merge(stored, item)
		if !changed {
			result.Unchanged++
			continue
		}
		updated, err := r.updateMatch(ctx, tx, merged)
		if err != nil {
			return match.UpsertResult{}, err
		}
		if !updated {
			result.Unchanged++
			continue
		}
		result.Updated++
		if merged.Status == match.StatusFinished {
			result.Finished = append(result.Finished, merged.ID)
		}
	}

	for _, batch := range chunk(fresh, insertChunkSize) {
		query, args, err := qb.InsertModels(historicalMatchesTable, batch, "ON CONFLICT (external_id) DO NOTHING RETURNING external_id")
		if err != nil {
			return match.UpsertResult{}, fmt.Errorf("build insert historical matches query: %w", err)
		}

		var inserted []string
		if err := tx.SelectContext(ctx, &inserted, query, args...); err != nil {
			return match.UpsertResult{}, fmt.Errorf("insert historical matches: %w", err)
		}
		result.Inserted += len(inserted)
		// rows written by a concurrent writer between lookup and insert
		result.Unchanged += len(batch) - len(inserted)
	}

	if err := tx.Commit(); err != nil {
		return match.UpsertResult{}, fmt.Errorf("commit tx upsert historical matches: %w", err)
	}
	return result, nil
}

func (r *MatchRepository) loadExisting(ctx context.Context, tx *sqlx.Tx, items []match.Match) (map[string]match.Match, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	query, args, err := selectExistingMatchesQuery(ids)
	if err != nil {
		return nil, fmt.Errorf("build select existing historical matches query: %w", err)
	}

	var rows []historicalMatchTableModel
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select existing historical matches: %w", err)
	}

	out := make(map[string]match.Match, len(rows))
	for _, row := range rows {
		out[row.ExternalID] = row.toDomain()
	}
	return out, nil
}

// selectExistingMatchesQuery locks the rows in id order so concurrent upserts of
// overlapping batches queue instead of deadlocking.
func selectExistingMatchesQuery(ids []string) (string, []any, error) {
	return qb.Select("*").From(historicalMatchesTable).
		Where(qb.Any("external_id", pq.Array(ids))).
		OrderBy("external_id").
		Suffix("FOR UPDATE").
		ToSQL()
}

// updateMatch reports false when the row became finished in the meantime.
func (r *MatchRepository) updateMatch(ctx context.Context, tx *sqlx.Tx, item match.Match) (bool, error) {
	home, away, winner := resultColumns(item.Result)
	query, args, err := qb.Update(historicalMatchesTable).
		Set("status", string(item.Status)).
		Set("home_score", home).
		Set("away_score", away).
		Set("winner", winner).
		Set("start_time", item.StartTime.UTC()).
		Set("league", item.League).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("external_id", item.ID),
			qb.NotEq("status", string(match.StatusFinished)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update historical match query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update historical match id=%s: %w", item.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected rows historical match id=%s: %w", item.ID, err)
	}
	return affected > 0, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From(historicalMatchesTable).
		Where(qb.Eq("external_id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select historical match by id query: %w", err)
	}

	var row historicalMatchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select historical match by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]match.Match, error) {
	query, args, err := qb.Select("*").From(historicalMatchesTable).
		Where(
			qb.In("status", []any{string(match.StatusScheduled), string(match.StatusLive)}),
			qb.Gte("start_time", from.UTC()),
		).
		OrderBy("start_time ASC", "external_id ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select upcoming matches query: %w", err)
	}
	return r.selectMatches(ctx, "upcoming matches", query, args)
}

func (r *MatchRepository) QueryTeamHistory(ctx context.Context, team match.TeamKey, q match.HistoryQuery) ([]match.Match, error) {
	conditions := append([]qb.Condition{
		qb.Eq("status", string(match.StatusFinished)),
		qb.Or(
			qb.Eq("home_team_key", team.String()),
			qb.Eq("away_team_key", team.String()),
		),
	}, windowConditions(q)...)

	query, args, err := qb.Select("*").From(historicalMatchesTable).
		Where(conditions...).
		OrderBy("start_time DESC", "external_id DESC").
		Limit(q.Limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team history query: %w", err)
	}
	return r.selectMatches(ctx, "team history", query, args)
}

func (r *MatchRepository) QueryHeadToHead(ctx context.Context, teamA, teamB match.TeamKey, q match.HistoryQuery) ([]match.Match, error) {
	conditions := append([]qb.Condition{
		qb.Eq("status", string(match.StatusFinished)),
		pairCondition(teamA, teamB),
	}, windowConditions(q)...)

	query, args, err := qb.Select("*").From(historicalMatchesTable).
		Where(conditions...).
		OrderBy("start_time DESC", "external_id DESC").
		Limit(q.Limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select head to head query: %w", err)
	}
	return r.selectMatches(ctx, "head to head", query, args)
}

func (r *MatchRepository) CountForTeam(ctx context.Context, team match.TeamKey) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From(historicalMatchesTable).
		Where(
			qb.Eq("status", string(match.StatusFinished)),
			qb.Or(
				qb.Eq("home_team_key", team.String()),
				qb.Eq("away_team_key", team.String()),
			),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count team matches query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count team matches: %w", err)
	}
	return count, nil
}

func (r *MatchRepository) CountAll(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From(historicalMatchesTable).
		Where(qb.Eq("status", string(match.StatusFinished))).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, label, query string, args []any) ([]match.Match, error) {
	var rows []historicalMatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", label, err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func pairCondition(teamA, teamB match.TeamKey) qb.Condition {
	return qb.Or(
		qb.And(qb.Eq("home_team_key", teamA.String()), qb.Eq("away_team_key", teamB.String())),
		qb.And(qb.Eq("home_team_key", teamB.String()), qb.Eq("away_team_key", teamA.String())),
	)
}

func windowConditions(q match.HistoryQuery) []qb.Condition {
	var out []qb.Condition
	if !q.Since.IsZero() {
		out = append(out, qb.Gte("start_time", q.Since.UTC()))
	}
	if !q.Before.IsZero() {
		out = append(out, qb.Lt("start_time", q.Before.UTC()))
	}
	if q.ExcludeID != "" {
		out = append(out, qb.NotEq("external_id", q.ExcludeID))
	}
	return out
}
