package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/match-forecast/internal/domain/match"
)

type historicalMatchTableModel struct {
	ID          int64          `db:"id"`
	ExternalID  string         `db:"external_id"`
	HomeTeam    string         `db:"home_team"`
	AwayTeam    string         `db:"away_team"`
	HomeTeamKey string         `db:"home_team_key"`
	AwayTeamKey string         `db:"away_team_key"`
	League      string         `db:"league"`
	StartTime   time.Time      `db:"start_time"`
	Status      string         `db:"status"`
	HomeScore   sql.NullInt64  `db:"home_score"`
	AwayScore   sql.NullInt64  `db:"away_score"`
	Winner      sql.NullString `db:"winner"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type historicalMatchInsertModel struct {
	ExternalID  string         `db:"external_id"`
	HomeTeam    string         `db:"home_team"`
	AwayTeam    string         `db:"away_team"`
	HomeTeamKey string         `db:"home_team_key"`
	AwayTeamKey string         `db:"away_team_key"`
	League      string         `db:"league"`
	StartTime   time.Time      `db:"start_time"`
	Status      string         `db:"status"`
	HomeScore   sql.NullInt64  `db:"home_score"`
	AwayScore   sql.NullInt64  `db:"away_score"`
	Winner      sql.NullString `db:"winner"`
}

func newHistoricalMatchInsertModel(item match.Match) historicalMatchInsertModel {
	home, away, winner := resultColumns(item.Result)
	return historicalMatchInsertModel{
		ExternalID:  item.ID,
		HomeTeam:    item.HomeTeam,
		AwayTeam:    item.AwayTeam,
		HomeTeamKey: item.HomeKey().String(),
		AwayTeamKey: item.AwayKey().String(),
		League:      item.League,
		StartTime:   item.StartTime.UTC(),
		Status:      string(item.Status),
		HomeScore:   home,
		AwayScore:   away,
		Winner:      winner,
	}
}

func resultColumns(result *match.Result) (sql.NullInt64, sql.NullInt64, sql.NullString) {
	if result == nil {
		return sql.NullInt64{}, sql.NullInt64{}, sql.NullString{}
	}
	return intToNull(result.HomeScore), intToNull(result.AwayScore), stringToNull(string(result.Winner))
}

func (row historicalMatchTableModel) toDomain() match.Match {
	out := match.Match{
		ID:        row.ExternalID,
		HomeTeam:  row.HomeTeam,
		AwayTeam:  row.AwayTeam,
		League:    row.League,
		StartTime: row.StartTime.UTC(),
		Status:    match.Status(row.Status),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	if row.HomeScore.Valid && row.AwayScore.Valid {
		out.Result = match.NewResult(nullInt64ToInt(row.HomeScore), nullInt64ToInt(row.AwayScore))
		if winner, ok := match.ParseWinner(row.Winner.String); ok {
			out.Result.Winner = winner
		}
	}
	return out
}
