package prediction

import (
	"fmt"

	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
	"github.com/riskibarqy/match-forecast/internal/domain/match"
)

const recentMatchesInSnapshot = 5

// RecentMatches formats up to five finished matches of team, newest first.
func RecentMatches(matches []match.Match, team match.TeamKey) []RecentMatch {
	out := make([]RecentMatch, 0, recentMatchesInSnapshot)
	for _, item := range matches {
		if len(out) == recentMatchesInSnapshot {
			break
		}
		if !item.IsFinished() {
			continue
		}

		var (
			opponent         string
			scored, conceded int
			isHome           bool
		)
		switch {
		case item.HomeKey().Equal(team):
			opponent, scored, conceded, isHome = item.AwayTeam, item.Result.HomeScore, item.Result.AwayScore, true
		case item.AwayKey().Equal(team):
			opponent, scored, conceded = item.HomeTeam, item.Result.AwayScore, item.Result.HomeScore
		default:
			continue
		}

		out = append(out, RecentMatch{
			Date:     item.StartTime,
			Opponent: opponent,
			Score:    fmt.Sprintf("%d-%d", scored, conceded),
			Result:   resultLetter(scored, conceded),
			IsHome:   isHome,
		})
	}
	return out
}

// HeadToHeadMatches formats finished meetings oriented on teamA.
func HeadToHeadMatches(matches []match.Match, teamA, teamB match.TeamKey) []HeadToHeadMatch {
	out := make([]HeadToHeadMatch, 0, len(matches))
	for _, item := range matches {
		if !item.IsFinished() || !item.IsPair(teamA, teamB) {
			continue
		}
		goalsA, goalsB := item.Result.HomeScore, item.Result.AwayScore
		if !item.HomeKey().Equal(teamA) {
			goalsA, goalsB = goalsB, goalsA
		}
		out = append(out, HeadToHeadMatch{
			Date:          item.StartTime,
			HomeTeamScore: goalsA,
			AwayTeamScore: goalsB,
			Result:        resultLetter(goalsA, goalsB),
		})
	}
	return out
}

func BuildSnapshot(
	homeMatches, awayMatches, h2hMatches []match.Match,
	homeKey, awayKey match.TeamKey,
	home, away forecast.TeamStatProfile,
	h2h forecast.HeadToHeadProfile,
	confidence int,
) Snapshot {
	return Snapshot{
		Home: TeamSnapshot{Profile: home, RecentMatches: RecentMatches(homeMatches, homeKey)},
		Away: TeamSnapshot{Profile: away, RecentMatches: RecentMatches(awayMatches, awayKey)},
		HeadToHead: HeadToHeadSnapshot{
			Profile: h2h,
			Matches: HeadToHeadMatches(h2hMatches, homeKey, awayKey),
		},
		DataQuality: DataQuality{
			HomeMatches:       home.MatchesPlayed,
			AwayMatches:       away.MatchesPlayed,
			HeadToHeadMatches: h2h.MatchesPlayed,
			Confidence:        confidence,
			SkippedRecords:    home.Skipped + away.Skipped + h2h.Skipped,
		},
	}
}

func resultLetter(scored, conceded int) string {
	switch {
	case scored > conceded:
		return "W"
	case scored < conceded:
		return "L"
	default:
		return "D"
	}
}
