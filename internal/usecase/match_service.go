package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/match-forecast/internal/domain/match"
)

const (
	defaultUpcomingLimit = 20
	maxUpcomingLimit     = 100
)

type MatchService struct {
	matchRepo match.Repository
	now       func() time.Time
}

func NewMatchService(matchRepo match.Repository) *MatchService {
	return &MatchService{
		matchRepo: matchRepo,
		now:       time.Now,
	}
}

// ListUpcoming returns scheduled or live fixtures from now on, soonest first.
// A non-positive limit uses the default; limits above the maximum are capped.
func (s *MatchService) ListUpcoming(ctx context.Context, limit int) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListUpcoming")
	defer span.End()

	switch {
	case limit <= 0:
		limit = defaultUpcomingLimit
	case limit > maxUpcomingLimit:
		limit = maxUpcomingLimit
	}

	items, err := s.matchRepo.ListUpcoming(ctx, s.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming matches: %w", err)
	}
	return items, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}
