package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
	"github.com/riskibarqy/match-forecast/internal/domain/match"
	"github.com/riskibarqy/match-forecast/internal/domain/prediction"
	"github.com/riskibarqy/match-forecast/internal/platform/id"
	"github.com/riskibarqy/match-forecast/internal/platform/logging"
	"github.com/riskibarqy/match-forecast/internal/platform/resilience"
	"github.com/sourcegraph/conc/pool"
)

// FixtureRefresher fetches fresh results for the teams of one fixture. It must not fail
// the caller.
type FixtureRefresher interface {
	RefreshFixture(ctx context.Context, m match.Match)
}

type PredictionConfig struct {
	TeamHistoryLimit int
	HeadToHeadLimit  int
	MinTeamMatches   int
	WarmWorkers      int
	AnnotateBatch    int
	ComputeTimeout   time.Duration
}

func DefaultPredictionConfig() PredictionConfig {
	return PredictionConfig{
		TeamHistoryLimit: 15,
		HeadToHeadLimit:  5,
		MinTeamMatches:   5,
		WarmWorkers:      4,
		AnnotateBatch:    500,
		ComputeTimeout:   30 * time.Second,
	}
}

func (c PredictionConfig) withDefaults() PredictionConfig {
	defaults := DefaultPredictionConfig()
	if c.TeamHistoryLimit <= 0 {
		c.TeamHistoryLimit = defaults.TeamHistoryLimit
	}
	if c.HeadToHeadLimit <= 0 {
		c.HeadToHeadLimit = defaults.HeadToHeadLimit
	}
	if c.MinTeamMatches <= 0 {
		c.MinTeamMatches = defaults.MinTeamMatches
	}
	if c.WarmWorkers <= 0 {
		c.WarmWorkers = defaults.WarmWorkers
	}
	if c.AnnotateBatch <= 0 {
		c.AnnotateBatch = defaults.AnnotateBatch
	}
	if c.ComputeTimeout <= 0 {
		c.ComputeTimeout = defaults.ComputeTimeout
	}
	return c
}

type WarmUpSummary struct {
	Fixtures int
	Created  int
	Existing int
	Failed   int
}

type PredictionService struct {
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	model          *forecast.Model
	refresher      FixtureRefresher
	ids            id.Generator
	cfg            PredictionConfig
	flight         resilience.SingleFlight
	now            func() time.Time
	logger         *logging.Logger
}

func NewPredictionService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	model *forecast.Model,
	refresher FixtureRefresher,
	ids id.Generator,
	cfg PredictionConfig,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	if model == nil {
		model = forecast.NewModel(forecast.DefaultWeights())
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}

	return &PredictionService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		model:          model,
		refresher:      refresher,
		ids:            ids,
		cfg:            cfg.withDefaults(),
		now:            time.Now,
		logger:         logger,
	}
}

func (s *PredictionService) ModelVersion() string {
	return s.model.Version()
}

// Predict returns the stored prediction for matchID under the current model version,
// computing and storing it on first request.
func (s *PredictionService) Predict(ctx context.Context, matchID string) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Predict")
	defer span.End()

	item, _, err := s.predictShared(ctx, matchID, true)
	return item, err
}

func (s *PredictionService) predictShared(ctx context.Context, matchID string, allowRefresh bool) (prediction.Prediction, bool, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return prediction.Prediction{}, false, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	type outcome struct {
		item    prediction.Prediction
		created bool
	}
	// warm-up and user requests differ in refresh policy, so they never share a call
	key := "predict:" + matchID
	if !allowRefresh {
		key = "warm:" + matchID
	}
	v, err, _ := s.flight.DoContext(ctx, key, s.cfg.ComputeTimeout, func(ctx context.Context) (any, error) {
		item, created, err := s.predict(ctx, matchID, allowRefresh)
		if err != nil {
			return nil, err
		}
		return outcome{item: item, created: created}, nil
	})
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	out, _ := v.(outcome)
	return out.item, out.created, nil
}

func (s *PredictionService) predict(ctx context.Context, matchID string, allowRefresh bool) (prediction.Prediction, bool, error) {
	version := s.model.Version()

	existing, found, err := s.predictionRepo.GetByMatchID(ctx, matchID, version)
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}
	if found {
		return existing, false, nil
	}

	fixture, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return prediction.Prediction{}, false, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	history, err := s.loadHistory(ctx, fixture)
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	if allowRefresh && s.refresher != nil && history.thin(s.cfg.MinTeamMatches) {
		s.logger.InfoContext(ctx, "history below threshold, refreshing fixture teams",
			"match_id", fixture.ID,
			"home_matches", len(history.home),
			"away_matches", len(history.away),
		)
		s.refresher.RefreshFixture(ctx, fixture)
		refreshed, err := s.loadHistory(ctx, fixture)
		if err != nil {
			return prediction.Prediction{}, false, err
		}
		history = history.richer(refreshed)
	}

	homeKey, awayKey := fixture.HomeKey(), fixture.AwayKey()
	homeStats := forecast.AggregateTeamStats(history.home, homeKey)
	awayStats := forecast.AggregateTeamStats(history.away, awayKey)
	h2hStats := forecast.AggregateHeadToHead(history.h2h, homeKey, awayKey)
	result := s.model.Predict(homeStats, awayStats, h2hStats)

	publicID, err := s.ids.NewID()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("generate prediction id: %w", err)
	}

	candidate := prediction.Prediction{
		ID:             publicID,
		MatchID:        fixture.ID,
		ModelVersion:   version,
		HomeTeam:       fixture.HomeTeam,
		AwayTeam:       fixture.AwayTeam,
		League:         fixture.League,
		KickoffAt:      fixture.StartTime,
		Probabilities:  result.Probabilities,
		PredictedScore: result.PredictedScore,
		MostLikely:     result.MostLikely,
		DataConfidence: result.DataConfidence,
		Snapshot: prediction.BuildSnapshot(
			history.home, history.away, history.h2h,
			homeKey, awayKey,
			homeStats, awayStats, h2hStats,
			result.DataConfidence,
		),
		CreatedAt: s.now().UTC(),
	}

	stored, created, err := s.predictionRepo.CreateIfAbsent(ctx, candidate)
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("store prediction: %w", err)
	}
	if created {
		s.logger.InfoContext(ctx, "prediction created",
			"match_id", stored.MatchID,
			"model_version", stored.ModelVersion,
			"most_likely", stored.MostLikely,
			"data_confidence", stored.DataConfidence,
		)
	}
	return stored, created, nil
}

type matchHistory struct {
	home []match.Match
	away []match.Match
	h2h  []match.Match
}

func (h matchHistory) thin(minMatches int) bool {
	return len(h.home) < minMatches || len(h.away) < minMatches
}

// richer keeps, per side, whichever load found more matches.
func (h matchHistory) richer(other matchHistory) matchHistory {
	if len(other.home) > len(h.home) {
		h.home = other.home
	}
	if len(other.away) > len(h.away) {
		h.away = other.away
	}
	if len(other.h2h) > len(h.h2h) {
		h.h2h = other.h2h
	}
	return h
}

func (s *PredictionService) loadHistory(ctx context.Context, fixture match.Match) (matchHistory, error) {
	var out matchHistory
	window := match.HistoryQuery{Before: fixture.StartTime, ExcludeID: fixture.ID}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		q := window
		q.Limit = s.cfg.TeamHistoryLimit
		items, err := s.matchRepo.QueryTeamHistory(ctx, fixture.HomeKey(), q)
		if err != nil {
			return fmt.Errorf("query home team history: %w", err)
		}
		out.home = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		q := window
		q.Limit = s.cfg.TeamHistoryLimit
		items, err := s.matchRepo.QueryTeamHistory(ctx, fixture.AwayKey(), q)
		if err != nil {
			return fmt.Errorf("query away team history: %w", err)
		}
		out.away = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		q := window
		q.Limit = s.cfg.HeadToHeadLimit
		items, err := s.matchRepo.QueryHeadToHead(ctx, fixture.HomeKey(), fixture.AwayKey(), q)
		if err != nil {
			return fmt.Errorf("query head to head: %w", err)
		}
		out.h2h = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return matchHistory{}, err
	}
	return out, nil
}

// AnnotateOutcome records the actual result on the prediction of a finished match.
// found is false when the match is unknown, not finished, or has no prediction.
func (s *PredictionService) AnnotateOutcome(ctx context.Context, matchID string) (prediction.Prediction, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.AnnotateOutcome")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return prediction.Prediction{}, false, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	fixture, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("get match: %w", err)
	}
	if !found || !fixture.IsFinished() {
		return prediction.Prediction{}, false, nil
	}

	actual, ok := prediction.OutcomeFromWinner(fixture.Result.Winner)
	if !ok {
		return prediction.Prediction{}, false, nil
	}

	item, found, err := s.predictionRepo.Annotate(ctx, matchID, s.model.Version(), actual)
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("annotate prediction: %w", err)
	}
	return item, found, nil
}

// AnnotatePending annotates every unannotated prediction of the current model version
// whose match is finished in the store. Predictions of matches still to be played are
// left for a later run.
func (s *PredictionService) AnnotatePending(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.AnnotatePending")
	defer span.End()

	pending, err := s.predictionRepo.ListUnannotated(ctx, s.model.Version(), s.cfg.AnnotateBatch)
	if err != nil {
		return 0, fmt.Errorf("list unannotated predictions: %w", err)
	}

	annotated := 0
	for _, matchID := range pending {
		item, found, err := s.AnnotateOutcome(ctx, matchID)
		if err != nil {
			s.logger.WarnContext(ctx, "annotate prediction outcome failed", "match_id", matchID, "error", err)
			continue
		}
		if found && item.IsAnnotated() {
			annotated++
		}
	}
	if annotated > 0 {
		s.logger.InfoContext(ctx, "prediction outcomes annotated", "annotated", annotated, "pending", len(pending))
	}
	return annotated, nil
}

func (s *PredictionService) Accuracy(ctx context.Context) (prediction.Accuracy, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Accuracy")
	defer span.End()

	acc, err := s.predictionRepo.Accuracy(ctx, s.model.Version())
	if err != nil {
		return prediction.Accuracy{}, fmt.Errorf("get prediction accuracy: %w", err)
	}
	return acc, nil
}

// WarmUpcoming predicts up to limit upcoming fixtures through a bounded worker pool.
// It never triggers on-demand refreshes so a warm-up run costs no upstream calls.
func (s *PredictionService) WarmUpcoming(ctx context.Context, limit int) (WarmUpSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.WarmUpcoming")
	defer span.End()

	if limit <= 0 {
		return WarmUpSummary{}, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	fixtures, err := s.matchRepo.ListUpcoming(ctx, s.now().UTC(), limit)
	if err != nil {
		return WarmUpSummary{}, fmt.Errorf("list upcoming matches: %w", err)
	}
	summary := WarmUpSummary{Fixtures: len(fixtures)}
	if len(fixtures) == 0 {
		return summary, nil
	}

	workerPool, err := ants.NewPool(minInt(s.cfg.WarmWorkers, len(fixtures)))
	if err != nil {
		return WarmUpSummary{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var created, existing, failed atomic.Int32
	var workers sync.WaitGroup
	for _, fixture := range fixtures {
		fixture := fixture
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			_, wasCreated, err := s.predictShared(ctx, fixture.ID, false)
			switch {
			case err != nil:
				failed.Add(1)
				s.logger.WarnContext(ctx, "warm-up prediction failed", "match_id", fixture.ID, "error", err)
			case wasCreated:
				created.Add(1)
			default:
				existing.Add(1)
			}
		}); err != nil {
			workers.Done()
			failed.Add(1)
			s.logger.WarnContext(ctx, "submit warm-up task failed", "match_id", fixture.ID, "error", err)
		}
	}
	workers.Wait()

	summary.Created = int(created.Load())
	summary.Existing = int(existing.Load())
	summary.Failed = int(failed.Load())
	s.logger.InfoContext(ctx, "prediction warm-up finished",
		"fixtures", summary.Fixtures,
		"created", summary.Created,
		"existing", summary.Existing,
		"failed", summary.Failed,
	)
	return summary, nil
}

func minInt(left, right int) int {
	if left < right {
		return left
	}
	return right
}
