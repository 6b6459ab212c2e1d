package usecase

import (
	"context"

	"github.com/riskibarqy/match-forecast/internal/domain/match"
)

// MatchSource is the external match data provider. Implementations recover from
// upstream failures themselves and return an empty slice instead of an error.
type MatchSource interface {
	FetchUpcoming(ctx context.Context) []match.Match
	FetchResults(ctx context.Context) []match.Match
	FetchExtendedTeamHistory(ctx context.Context, team string) []match.Match
	FetchExtendedHeadToHead(ctx context.Context, teamA, teamB string) []match.Match
}
