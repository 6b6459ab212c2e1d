package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/match-forecast/internal/domain/match"
	"github.com/riskibarqy/match-forecast/internal/platform/lock"
	"github.com/riskibarqy/match-forecast/internal/platform/logging"
	"github.com/riskibarqy/match-forecast/internal/platform/resilience"
)

const historySyncLockKey = "history-sync"

type HistorySyncConfig struct {
	MaxRequests       int
	SufficientHistory int
	TopTeams          int
	HeadToHeadPairs   int
	UpcomingLimit     int
	CallInterval      time.Duration
	RunTimeout        time.Duration
	LockTTL           time.Duration
	RefreshTimeout    time.Duration
}

func DefaultHistorySyncConfig() HistorySyncConfig {
	return HistorySyncConfig{
		MaxRequests:       150,
		SufficientHistory: 200,
		TopTeams:          10,
		HeadToHeadPairs:   5,
		UpcomingLimit:     100,
		CallInterval:      1500 * time.Millisecond,
		RunTimeout:        10 * time.Minute,
		LockTTL:           15 * time.Minute,
		RefreshTimeout:    15 * time.Second,
	}
}

func (c HistorySyncConfig) withDefaults() HistorySyncConfig {
	defaults := DefaultHistorySyncConfig()
	if c.MaxRequests <= 0 {
		c.MaxRequests = defaults.MaxRequests
	}
	if c.SufficientHistory <= 0 {
		c.SufficientHistory = defaults.SufficientHistory
	}
	if c.TopTeams <= 0 {
		c.TopTeams = defaults.TopTeams
	}
	if c.HeadToHeadPairs <= 0 {
		c.HeadToHeadPairs = defaults.HeadToHeadPairs
	}
	if c.UpcomingLimit <= 0 {
		c.UpcomingLimit = defaults.UpcomingLimit
	}
	if c.CallInterval < 0 {
		c.CallInterval = 0
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = defaults.RunTimeout
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	if c.RefreshTimeout <= 0 {
		c.RefreshTimeout = defaults.RefreshTimeout
	}
	return c
}

type SyncSummary struct {
	Success                bool
	TeamsProcessed         int
	PairsProcessed         int
	TotalHistoricalMatches int
	APICallsUsed           int
	Candidates             int
	SkippedSufficient      int
	Inserted               int
	Updated                int
	QuotaExhausted         bool
	DeadlineExceeded       bool
	StartedAt              time.Time
	FinishedAt             time.Time
}

type HistorySyncService struct {
	source    MatchSource
	matchRepo match.Repository
	locker    lock.Locker
	cfg       HistorySyncConfig
	newPacer  func(time.Duration) resilience.Pacer
	now       func() time.Time
	logger    *logging.Logger
}

func NewHistorySyncService(
	source MatchSource,
	matchRepo match.Repository,
	locker lock.Locker,
	cfg HistorySyncConfig,
	logger *logging.Logger,
) *HistorySyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if locker == nil {
		locker = lock.NewLocalLocker()
	}

	return &HistorySyncService{
		source:    source,
		matchRepo: matchRepo,
		locker:    locker,
		cfg:       cfg.withDefaults(),
		newPacer:  resilience.NewIntervalPacer,
		now:       time.Now,
		logger:    logger,
	}
}

// errQuotaExhausted stops the current run early. It never leaves the service.
var errQuotaExhausted = errors.New("sync request quota exhausted")

// syncRun carries the request budget of one Sync call.
type syncRun struct {
	quota int
	used  int
	pacer resilience.Pacer
}

// call reserves one upstream request, waiting on the pacer first.
func (r *syncRun) call(ctx context.Context) error {
	if r.used >= r.quota {
		return errQuotaExhausted
	}
	if err := r.pacer.Wait(ctx); err != nil {
		return err
	}
	r.used++
	return nil
}

type syncCandidate struct {
	key   match.TeamKey
	name  string
	count int
}

type syncPair struct {
	home string
	away string
}

func (s *HistorySyncService) Sync(ctx context.Context) (SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistorySyncService.Sync")
	defer span.End()

	summary := SyncSummary{StartedAt: s.now().UTC()}
	if s.source == nil || s.matchRepo == nil {
		return summary, fmt.Errorf("%w: history sync is not configured", ErrDependencyUnavailable)
	}

	lease, err := s.locker.TryAcquire(ctx, historySyncLockKey, s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrLockHeld) {
			return summary, fmt.Errorf("%w: lock=%s", ErrSyncInProgress, historySyncLockKey)
		}
		return summary, fmt.Errorf("acquire history sync lock: %w", err)
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.WarnContext(ctx, "release history sync lock failed", "error", err)
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	run := &syncRun{quota: s.cfg.MaxRequests, pacer: s.newPacer(s.cfg.CallInterval)}
	err = s.runSync(runCtx, run, &summary)
	summary.APICallsUsed = run.used
	summary.FinishedAt = s.now().UTC()

	switch {
	case err == nil:
	case errors.Is(err, errQuotaExhausted):
		summary.QuotaExhausted = true
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		summary.DeadlineExceeded = true
	default:
		s.logger.ErrorContext(ctx, "history sync failed", "error", err, "api_calls_used", run.used)
		return summary, err
	}

	total, err := s.matchRepo.CountAll(ctx)
	if err != nil {
		return summary, fmt.Errorf("count historical matches: %w", err)
	}
	summary.TotalHistoricalMatches = total
	summary.Success = true

	s.logger.InfoContext(ctx, "history sync finished",
		"teams_processed", summary.TeamsProcessed,
		"pairs_processed", summary.PairsProcessed,
		"candidates", summary.Candidates,
		"skipped_sufficient", summary.SkippedSufficient,
		"api_calls_used", summary.APICallsUsed,
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"quota_exhausted", summary.QuotaExhausted,
		"deadline_exceeded", summary.DeadlineExceeded,
		"total_matches", summary.TotalHistoricalMatches,
	)
	return summary, nil
}

func (s *HistorySyncService) runSync(ctx context.Context, run *syncRun, summary *SyncSummary) error {
	upcoming, err := s.matchRepo.ListUpcoming(ctx, s.now().UTC(), s.cfg.UpcomingLimit)
	if err != nil {
		return fmt.Errorf("list upcoming matches: %w", err)
	}

	candidates, skipped, err := s.rankCandidates(ctx, upcoming)
	if err != nil {
		return err
	}
	summary.Candidates = len(candidates)
	summary.SkippedSufficient = skipped

	if len(candidates) > s.cfg.TopTeams {
		candidates = candidates[:s.cfg.TopTeams]
	}
	for _, candidate := range candidates {
		if err := run.call(ctx); err != nil {
			return err
		}
		items := s.source.FetchExtendedTeamHistory(ctx, candidate.name)
		if err := s.upsert(ctx, items, summary); err != nil {
			return err
		}
		summary.TeamsProcessed++
		s.logger.DebugContext(ctx, "team history refreshed",
			"team", candidate.name,
			"stored_before", candidate.count,
			"fetched", len(items),
		)
	}

	for _, pair := range distinctPairs(upcoming, s.cfg.HeadToHeadPairs) {
		if err := run.call(ctx); err != nil {
			return err
		}
		items := s.source.FetchExtendedHeadToHead(ctx, pair.home, pair.away)
		if err := s.upsert(ctx, items, summary); err != nil {
			return err
		}
		summary.PairsProcessed++
	}
	return nil
}

// rankCandidates returns teams of the upcoming slate that still need history, least
// history first. Teams at or above the sufficient threshold are only counted.
func (s *HistorySyncService) rankCandidates(ctx context.Context, upcoming []match.Match) ([]syncCandidate, int, error) {
	seen := make(map[match.TeamKey]struct{})
	out := make([]syncCandidate, 0)
	skipped := 0

	for _, item := range upcoming {
		for _, name := range []string{item.HomeTeam, item.AwayTeam} {
			key := match.NewTeamKey(name)
			if key.IsZero() {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			count, err := s.matchRepo.CountForTeam(ctx, key)
			if err != nil {
				return nil, 0, fmt.Errorf("count matches for team=%s: %w", key, err)
			}
			if count >= s.cfg.SufficientHistory {
				skipped++
				continue
			}
			out = append(out, syncCandidate{key: key, name: name, count: count})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count < out[j].count
		}
		return out[i].key < out[j].key
	})
	return out, skipped, nil
}

func distinctPairs(upcoming []match.Match, limit int) []syncPair {
	if limit <= 0 {
		return nil
	}

	seen := make(map[[2]match.TeamKey]struct{})
	out := make([]syncPair, 0, limit)
	for _, item := range upcoming {
		home, away := item.HomeKey(), item.AwayKey()
		if home.IsZero() || away.IsZero() || home.Equal(away) {
			continue
		}
		key := [2]match.TeamKey{home, away}
		if away < home {
			key = [2]match.TeamKey{away, home}
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, syncPair{home: item.HomeTeam, away: item.AwayTeam})
		if len(out) == limit {
			break
		}
	}
	return out
}

func (s *HistorySyncService) upsert(ctx context.Context, items []match.Match, summary *SyncSummary) error {
	if len(items) == 0 {
		return nil
	}
	// store writes must not be cut by the run deadline halfway through a batch
	result, err := s.matchRepo.UpsertMany(context.WithoutCancel(ctx), items)
	if err != nil {
		return fmt.Errorf("upsert historical matches: %w", err)
	}
	summary.Inserted += result.Inserted
	summary.Updated += result.Updated
	if result.Skipped > 0 {
		s.logger.WarnContext(ctx, "skipped malformed match records", "count", result.Skipped)
	}
	return nil
}

// RefreshFixture pulls the latest league results touching either team of m and stores
// them. It is independent of the run quota and never fails the caller.
func (s *HistorySyncService) RefreshFixture(ctx context.Context, m match.Match) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistorySyncService.RefreshFixture")
	defer span.End()

	if s.source == nil || s.matchRepo == nil {
		return
	}

	refreshCtx, cancel := context.WithTimeout(ctx, s.cfg.RefreshTimeout)
	defer cancel()

	home, away := m.HomeKey(), m.AwayKey()
	relevant := make([]match.Match, 0)
	for _, item := range s.source.FetchResults(refreshCtx) {
		if item.Involves(home) || item.Involves(away) {
			relevant = append(relevant, item)
		}
	}
	if len(relevant) == 0 {
		s.logger.DebugContext(ctx, "on-demand refresh found no new results", "match_id", m.ID)
		return
	}

	result, err := s.matchRepo.UpsertMany(ctx, relevant)
	if err != nil {
		s.logger.WarnContext(ctx, "on-demand refresh upsert failed", "match_id", m.ID, "error", err)
		return
	}
	s.logger.InfoContext(ctx, "on-demand refresh stored results",
		"match_id", m.ID,
		"fetched", len(relevant),
		"inserted", result.Inserted,
		"updated", result.Updated,
	)
}
