package httpapi

import (
	"time"

	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
	"github.com/riskibarqy/match-forecast/internal/domain/match"
	"github.com/riskibarqy/match-forecast/internal/domain/prediction"
	"github.com/riskibarqy/match-forecast/internal/usecase"
)

type resultDTO struct {
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Winner    string `json:"winner"`
}

type matchDTO struct {
	ID        string     `json:"id"`
	HomeTeam  string     `json:"home_team"`
	AwayTeam  string     `json:"away_team"`
	League    string     `json:"league"`
	StartTime time.Time  `json:"start_time"`
	Status    string     `json:"status"`
	Result    *resultDTO `json:"result,omitempty"`
}

func toMatchDTO(item match.Match) matchDTO {
	out := matchDTO{
		ID:        item.ID,
		HomeTeam:  item.HomeTeam,
		AwayTeam:  item.AwayTeam,
		League:    item.League,
		StartTime: item.StartTime,
		Status:    string(item.Status),
	}
	if item.Result != nil {
		out.Result = &resultDTO{
			HomeScore: item.Result.HomeScore,
			AwayScore: item.Result.AwayScore,
			Winner:    string(item.Result.Winner),
		}
	}
	return out
}

func toMatchDTOs(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toMatchDTO(item))
	}
	return out
}

type predictionDTO struct {
	ID             string                 `json:"id"`
	MatchID        string                 `json:"match_id"`
	HomeTeam       string                 `json:"home_team"`
	AwayTeam       string                 `json:"away_team"`
	League         string                 `json:"league"`
	KickoffAt      time.Time              `json:"kickoff_at"`
	ModelVersion   string                 `json:"model_version"`
	Probabilities  forecast.Probabilities `json:"probabilities"`
	PredictedScore forecast.Scoreline     `json:"predicted_score"`
	MostLikely     string                 `json:"most_likely"`
	DataConfidence int                    `json:"data_confidence"`
	Statistics     prediction.Snapshot    `json:"statistics"`
	ActualResult   *string                `json:"actual_result,omitempty"`
	IsCorrect      *bool                  `json:"is_correct,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

func toPredictionDTO(item prediction.Prediction) predictionDTO {
	out := predictionDTO{
		ID:             item.ID,
		MatchID:        item.MatchID,
		HomeTeam:       item.HomeTeam,
		AwayTeam:       item.AwayTeam,
		League:         item.League,
		KickoffAt:      item.KickoffAt,
		ModelVersion:   item.ModelVersion,
		Probabilities:  item.Probabilities,
		PredictedScore: item.PredictedScore,
		MostLikely:     string(item.MostLikely),
		DataConfidence: item.DataConfidence,
		Statistics:     item.Snapshot,
		IsCorrect:      item.IsCorrect,
		CreatedAt:      item.CreatedAt,
	}
	if item.ActualResult != nil {
		actual := string(*item.ActualResult)
		out.ActualResult = &actual
	}
	return out
}

type accuracyDTO struct {
	ModelVersion string  `json:"model_version"`
	Annotated    int     `json:"annotated"`
	Correct      int     `json:"correct"`
	Accuracy     float64 `json:"accuracy"`
}

func toAccuracyDTO(item prediction.Accuracy) accuracyDTO {
	return accuracyDTO{
		ModelVersion: item.ModelVersion,
		Annotated:    item.Annotated,
		Correct:      item.Correct,
		Accuracy:     item.Rate(),
	}
}

type historySyncDTO struct {
	Success                bool      `json:"success"`
	TeamsProcessed         int       `json:"teams_processed"`
	PairsProcessed         int       `json:"pairs_processed"`
	TotalHistoricalMatches int       `json:"total_historical_matches"`
	APICallsUsed           int       `json:"api_calls_used"`
	Candidates             int       `json:"candidates"`
	SkippedSufficient      int       `json:"skipped_sufficient"`
	Inserted               int       `json:"inserted"`
	Updated                int       `json:"updated"`
	QuotaExhausted         bool      `json:"quota_exhausted"`
	DeadlineExceeded       bool      `json:"deadline_exceeded"`
	StartedAt              time.Time `json:"started_at"`
	FinishedAt             time.Time `json:"finished_at"`
}

func toHistorySyncDTO(s usecase.SyncSummary) historySyncDTO {
	return historySyncDTO{
		Success:                s.Success,
		TeamsProcessed:         s.TeamsProcessed,
		PairsProcessed:         s.PairsProcessed,
		TotalHistoricalMatches: s.TotalHistoricalMatches,
		APICallsUsed:           s.APICallsUsed,
		Candidates:             s.Candidates,
		SkippedSufficient:      s.SkippedSufficient,
		Inserted:               s.Inserted,
		Updated:                s.Updated,
		QuotaExhausted:         s.QuotaExhausted,
		DeadlineExceeded:       s.DeadlineExceeded,
		StartedAt:              s.StartedAt,
		FinishedAt:             s.FinishedAt,
	}
}

type fixtureSyncDTO struct {
	Upcoming  int `json:"upcoming"`
	Results   int `json:"results"`
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Annotated int `json:"annotated"`
}

type warmUpDTO struct {
	Fixtures int `json:"fixtures"`
	Created  int `json:"created"`
	Existing int `json:"existing"`
	Failed   int `json:"failed"`
}
