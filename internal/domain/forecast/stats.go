package forecast

import (
	"github.com/riskibarqy/match-forecast/internal/domain/match"
)

const (
	formWindow      = 5
	formWeightDecay = 0.15
)

type FormResult string

const (
	FormWin  FormResult = "win"
	FormDraw FormResult = "draw"
	FormLoss FormResult = "loss"
)

func (r FormResult) value() float64 {
	switch r {
	case FormWin:
		return 1
	case FormLoss:
		return -1
	default:
		return 0
	}
}

// TeamStatProfile summarises a team's recent finished matches from its own perspective.
type TeamStatProfile struct {
	MatchesPlayed        int          `json:"matches_played"`
	Wins                 int          `json:"wins"`
	Draws                int          `json:"draws"`
	Losses               int          `json:"losses"`
	GoalsScored          int          `json:"goals_scored"`
	GoalsConceded        int          `json:"goals_conceded"`
	HomePlayed           int          `json:"home_played"`
	HomeWins             int          `json:"home_wins"`
	AwayPlayed           int          `json:"away_played"`
	AwayWins             int          `json:"away_wins"`
	WinRate              float64      `json:"win_rate"`
	HomeWinRate          float64      `json:"home_win_rate"`
	AwayWinRate          float64      `json:"away_win_rate"`
	AverageGoalsScored   float64      `json:"average_goals_scored"`
	AverageGoalsConceded float64      `json:"average_goals_conceded"`
	RecentForm           []FormResult `json:"recent_form"`
	FormRating           float64      `json:"form_rating"`
	Skipped              int          `json:"skipped"`
}

// HeadToHeadProfile is oriented on the fixture being predicted: "home" is teamA of
// the aggregation call, whichever side it actually played on.
type HeadToHeadProfile struct {
	MatchesPlayed    int     `json:"matches_played"`
	HomeTeamWins     int     `json:"home_team_wins"`
	AwayTeamWins     int     `json:"away_team_wins"`
	Draws            int     `json:"draws"`
	HomeTeamGoals    int     `json:"home_team_goals"`
	AwayTeamGoals    int     `json:"away_team_goals"`
	HomeTeamWinRate  float64 `json:"home_team_win_rate"`
	AwayTeamWinRate  float64 `json:"away_team_win_rate"`
	HomeTeamAvgGoals float64 `json:"home_team_avg_goals"`
	AwayTeamAvgGoals float64 `json:"away_team_avg_goals"`
	Skipped          int     `json:"skipped"`
}

// AggregateTeamStats expects matches ordered newest first.
func AggregateTeamStats(matches []match.Match, team match.TeamKey) TeamStatProfile {
	profile := TeamStatProfile{RecentForm: []FormResult{}}

	for _, item := range matches {
		scored, conceded, isHome, ok := teamPerspective(item, team)
		if !ok {
			profile.Skipped++
			continue
		}

		profile.MatchesPlayed++
		profile.GoalsScored += scored
		profile.GoalsConceded += conceded

		outcome := classify(scored, conceded)
		switch outcome {
		case FormWin:
			profile.Wins++
		case FormLoss:
			profile.Losses++
		default:
			profile.Draws++
		}

		if isHome {
			profile.HomePlayed++
			if outcome == FormWin {
				profile.HomeWins++
			}
		} else {
			profile.AwayPlayed++
			if outcome == FormWin {
				profile.AwayWins++
			}
		}

		if len(profile.RecentForm) < formWindow {
			weight := 1 - formWeightDecay*float64(len(profile.RecentForm))
			profile.FormRating += outcome.value() * weight
			profile.RecentForm = append(profile.RecentForm, outcome)
		}
	}

	profile.WinRate = ratio(profile.Wins, profile.MatchesPlayed)
	profile.HomeWinRate = ratio(profile.HomeWins, profile.HomePlayed)
	profile.AwayWinRate = ratio(profile.AwayWins, profile.AwayPlayed)
	profile.AverageGoalsScored = ratio(profile.GoalsScored, profile.MatchesPlayed)
	profile.AverageGoalsConceded = ratio(profile.GoalsConceded, profile.MatchesPlayed)
	return profile
}

func AggregateHeadToHead(matches []match.Match, teamA, teamB match.TeamKey) HeadToHeadProfile {
	var profile HeadToHeadProfile

	for _, item := range matches {
		if !item.IsFinished() || !item.IsPair(teamA, teamB) {
			profile.Skipped++
			continue
		}

		goalsA, goalsB := item.Result.HomeScore, item.Result.AwayScore
		if !item.HomeKey().Equal(teamA) {
			goalsA, goalsB = goalsB, goalsA
		}

		profile.MatchesPlayed++
		profile.HomeTeamGoals += goalsA
		profile.AwayTeamGoals += goalsB
		switch {
		case goalsA > goalsB:
			profile.HomeTeamWins++
		case goalsA < goalsB:
			profile.AwayTeamWins++
		default:
			profile.Draws++
		}
	}

	profile.HomeTeamWinRate = ratio(profile.HomeTeamWins, profile.MatchesPlayed)
	profile.AwayTeamWinRate = ratio(profile.AwayTeamWins, profile.MatchesPlayed)
	profile.HomeTeamAvgGoals = ratio(profile.HomeTeamGoals, profile.MatchesPlayed)
	profile.AwayTeamAvgGoals = ratio(profile.AwayTeamGoals, profile.MatchesPlayed)
	return profile
}

// teamPerspective returns goals from team's point of view. ok is false for records
// without a usable result and for records where team plays on neither side.
func teamPerspective(item match.Match, team match.TeamKey) (scored, conceded int, isHome, ok bool) {
	if !item.IsFinished() {
		return 0, 0, false, false
	}
	switch {
	case item.HomeKey().Equal(team):
		return item.Result.HomeScore, item.Result.AwayScore, true, true
	case item.AwayKey().Equal(team):
		return item.Result.AwayScore, item.Result.HomeScore, false, true
	default:
		return 0, 0, false, false
	}
}

func classify(scored, conceded int) FormResult {
	switch {
	case scored > conceded:
		return FormWin
	case scored < conceded:
		return FormLoss
	default:
		return FormDraw
	}
}

func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}
