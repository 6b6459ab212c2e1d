package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
	"github.com/riskibarqy/match-forecast/internal/domain/prediction"
)

type predictionTableModel struct {
	ID                 int64          `db:"id"`
	PublicID           string         `db:"public_id"`
	MatchID            string         `db:"match_external_id"`
	ModelVersion       string         `db:"model_version"`
	HomeTeam           string         `db:"home_team"`
	AwayTeam           string         `db:"away_team"`
	League             string         `db:"league"`
	KickoffAt          time.Time      `db:"kickoff_at"`
	HomeProbability    float64        `db:"home_probability"`
	DrawProbability    float64        `db:"draw_probability"`
	AwayProbability    float64        `db:"away_probability"`
	PredictedHomeScore int            `db:"predicted_home_score"`
	PredictedAwayScore int            `db:"predicted_away_score"`
	MostLikely         string         `db:"most_likely"`
	DataConfidence     int            `db:"data_confidence"`
	Snapshot           string         `db:"snapshot"`
	ActualResult       sql.NullString `db:"actual_result"`
	IsCorrect          sql.NullBool   `db:"is_correct"`
	AnnotatedAt        sql.NullTime   `db:"annotated_at"`
	CreatedAt          time.Time      `db:"created_at"`
}

type predictionInsertModel struct {
	PublicID           string    `db:"public_id"`
	MatchID            string    `db:"match_external_id"`
	ModelVersion       string    `db:"model_version"`
	HomeTeam           string    `db:"home_team"`
	AwayTeam           string    `db:"away_team"`
	League             string    `db:"league"`
	KickoffAt          time.Time `db:"kickoff_at"`
	HomeProbability    float64   `db:"home_probability"`
	DrawProbability    float64   `db:"draw_probability"`
	AwayProbability    float64   `db:"away_probability"`
	PredictedHomeScore int       `db:"predicted_home_score"`
	PredictedAwayScore int       `db:"predicted_away_score"`
	MostLikely         string    `db:"most_likely"`
	DataConfidence     int       `db:"data_confidence"`
	Snapshot           string    `db:"snapshot"`
}

type predictionAccuracyRow struct {
	Annotated int `db:"annotated"`
	Correct   int `db:"correct"`
}

func newPredictionInsertModel(item prediction.Prediction) (predictionInsertModel, error) {
	snapshot, err := encodeSnapshot(item.Snapshot)
	if err != nil {
		return predictionInsertModel{}, err
	}
	return predictionInsertModel{
		PublicID:           item.ID,
		MatchID:            item.MatchID,
		ModelVersion:       item.ModelVersion,
		HomeTeam:           item.HomeTeam,
		AwayTeam:           item.AwayTeam,
		League:             item.League,
		KickoffAt:          item.KickoffAt.UTC(),
		HomeProbability:    item.Probabilities.Home,
		DrawProbability:    item.Probabilities.Draw,
		AwayProbability:    item.Probabilities.Away,
		PredictedHomeScore: item.PredictedScore.Home,
		PredictedAwayScore: item.PredictedScore.Away,
		MostLikely:         string(item.MostLikely),
		DataConfidence:     item.DataConfidence,
		Snapshot:           snapshot,
	}, nil
}

func (row predictionTableModel) toDomain() prediction.Prediction {
	out := prediction.Prediction{
		ID:           row.PublicID,
		MatchID:      row.MatchID,
		ModelVersion: row.ModelVersion,
		HomeTeam:     row.HomeTeam,
		AwayTeam:     row.AwayTeam,
		League:       row.League,
		KickoffAt:    row.KickoffAt.UTC(),
		Probabilities: forecast.Probabilities{
			Home: row.HomeProbability,
			Draw: row.DrawProbability,
			Away: row.AwayProbability,
		},
		PredictedScore: forecast.Scoreline{
			Home: row.PredictedHomeScore,
			Away: row.PredictedAwayScore,
		},
		MostLikely:     forecast.Outcome(row.MostLikely),
		DataConfidence: row.DataConfidence,
		Snapshot:       decodeSnapshot(row.Snapshot),
		AnnotatedAt:    nullTimeToPtr(row.AnnotatedAt),
		CreatedAt:      row.CreatedAt.UTC(),
	}
	if row.ActualResult.Valid {
		actual := forecast.Outcome(row.ActualResult.String)
		out.ActualResult = &actual
	}
	if row.IsCorrect.Valid {
		correct := row.IsCorrect.Bool
		out.IsCorrect = &correct
	}
	return out
}

func encodeSnapshot(value prediction.Snapshot) (string, error) {
	encoded, err := sonic.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode prediction snapshot: %w", err)
	}
	return string(encoded), nil
}

// decodeSnapshot tolerates malformed payloads; the snapshot is informational.
func decodeSnapshot(raw string) prediction.Snapshot {
	var out prediction.Snapshot
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out
	}
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return prediction.Snapshot{}
	}
	return out
}
