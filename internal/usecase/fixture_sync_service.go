package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/match-forecast/internal/domain/match"
	"github.com/riskibarqy/match-forecast/internal/platform/logging"
)

// OutcomeAnnotator records actual results on every stored prediction whose match has
// finished, whichever writer stored the final result.
type OutcomeAnnotator interface {
	AnnotatePending(ctx context.Context) (int, error)
}

type FixtureSyncSummary struct {
	Upcoming  int
	Results   int
	Inserted  int
	Updated   int
	Skipped   int
	Annotated int
}

// FixtureSyncService keeps the league's fixture list and latest results current.
type FixtureSyncService struct {
	source    MatchSource
	matchRepo match.Repository
	annotator OutcomeAnnotator
	logger    *logging.Logger
}

func NewFixtureSyncService(source MatchSource, matchRepo match.Repository, annotator OutcomeAnnotator, logger *logging.Logger) *FixtureSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FixtureSyncService{
		source:    source,
		matchRepo: matchRepo,
		annotator: annotator,
		logger:    logger,
	}
}

func (s *FixtureSyncService) Sync(ctx context.Context) (FixtureSyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureSyncService.Sync")
	defer span.End()

	var summary FixtureSyncSummary
	if s.source == nil || s.matchRepo == nil {
		return summary, fmt.Errorf("%w: fixture sync is not configured", ErrDependencyUnavailable)
	}

	upcoming := s.source.FetchUpcoming(ctx)
	results := s.source.FetchResults(ctx)
	summary.Upcoming = len(upcoming)
	summary.Results = len(results)

	items := make([]match.Match, 0, len(upcoming)+len(results))
	items = append(items, upcoming...)
	items = append(items, results...)
	if len(items) == 0 {
		s.logger.WarnContext(ctx, "fixture sync fetched nothing from provider")
	} else {
		upserted, err := s.matchRepo.UpsertMany(ctx, items)
		if err != nil {
			return summary, fmt.Errorf("upsert fixtures: %w", err)
		}
		summary.Inserted = upserted.Inserted
		summary.Updated = upserted.Updated
		summary.Skipped = upserted.Skipped
	}

	if s.annotator != nil {
		annotated, err := s.annotator.AnnotatePending(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "annotate prediction outcomes failed", "error", err)
		}
		summary.Annotated = annotated
	}

	s.logger.InfoContext(ctx, "fixture sync finished",
		"upcoming", summary.Upcoming,
		"results", summary.Results,
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"annotated", summary.Annotated,
	)
	return summary, nil
}
