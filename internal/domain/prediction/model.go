package prediction

import (
	"time"

	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
	"github.com/riskibarqy/match-forecast/internal/domain/match"
)

// Prediction is the stored forecast for one match under one model version.
// Probability and score fields never change after creation.
type Prediction struct {
	ID             string
	MatchID        string
	ModelVersion   string
	HomeTeam       string
	AwayTeam       string
	League         string
	KickoffAt      time.Time
	Probabilities  forecast.Probabilities
	PredictedScore forecast.Scoreline
	MostLikely     forecast.Outcome
	DataConfidence int
	Snapshot       Snapshot
	ActualResult   *forecast.Outcome
	IsCorrect      *bool
	AnnotatedAt    *time.Time
	CreatedAt      time.Time
}

func (p Prediction) IsAnnotated() bool {
	return p.ActualResult != nil
}

// Snapshot records the statistics a prediction was computed from.
type Snapshot struct {
	Home        TeamSnapshot       `json:"home"`
	Away        TeamSnapshot       `json:"away"`
	HeadToHead  HeadToHeadSnapshot `json:"head_to_head"`
	DataQuality DataQuality        `json:"data_quality"`
}

type TeamSnapshot struct {
	Profile       forecast.TeamStatProfile `json:"profile"`
	RecentMatches []RecentMatch            `json:"recent_matches"`
}

type RecentMatch struct {
	Date     time.Time `json:"date"`
	Opponent string    `json:"opponent"`
	Score    string    `json:"score"`
	Result   string    `json:"result"`
	IsHome   bool      `json:"is_home"`
}

type HeadToHeadSnapshot struct {
	Profile forecast.HeadToHeadProfile `json:"profile"`
	Matches []HeadToHeadMatch          `json:"matches"`
}

type HeadToHeadMatch struct {
	Date          time.Time `json:"date"`
	HomeTeamScore int       `json:"home_team_score"`
	AwayTeamScore int       `json:"away_team_score"`
	Result        string    `json:"result"`
}

type DataQuality struct {
	HomeMatches       int `json:"home_matches"`
	AwayMatches       int `json:"away_matches"`
	HeadToHeadMatches int `json:"head_to_head_matches"`
	Confidence        int `json:"confidence"`
	SkippedRecords    int `json:"skipped_records"`
}

// Accuracy summarises annotated predictions of one model version.
type Accuracy struct {
	ModelVersion string
	Annotated    int
	Correct      int
}

func (a Accuracy) Rate() float64 {
	if a.Annotated <= 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Annotated)
}

// OutcomeFromWinner maps a finished match winner onto a forecast outcome.
func OutcomeFromWinner(w match.Winner) (forecast.Outcome, bool) {
	switch w {
	case match.WinnerHome:
		return forecast.OutcomeHome, true
	case match.WinnerAway:
		return forecast.OutcomeAway, true
	case match.WinnerDraw:
		return forecast.OutcomeDraw, true
	default:
		return "", false
	}
}
