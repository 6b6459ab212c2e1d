// Package thesportsdb adapts the TheSportsDB v1 JSON API into match records.
package thesportsdb

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/match-forecast/internal/domain/match"
	"github.com/riskibarqy/match-forecast/internal/platform/logging"
	"github.com/riskibarqy/match-forecast/internal/platform/resilience"
	"github.com/riskibarqy/match-forecast/internal/usecase"
)

const (
	defaultBaseURL     = "https://www.thesportsdb.com/api/v1/json"
	defaultAPIKey      = "3"
	defaultLeagueID    = "4334"
	defaultTimeout     = 20 * time.Second
	defaultSeasonPause = time.Second
	maxResponseBytes   = 6 << 20
)

var (
	errProviderTransient = crerr.New("thesportsdb transient failure")
	apiKeySegmentRegex   = regexp.MustCompile(`/json/[^/\s"']+/`)
)

func DefaultSeasons() []string {
	return []string{"2022-2023", "2021-2022", "2020-2021"}
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	LeagueID       string
	Seasons        []string
	SeasonPause    time.Duration
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	leagueID       string
	seasons        []string
	seasonPause    time.Duration
	maxRetries     int
	logger         *logging.Logger
	validator      *validator.Validate
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	retryBackoff   func(attempt int) time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("thesportsdb")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = defaultAPIKey
	}
	leagueID := strings.TrimSpace(cfg.LeagueID)
	if leagueID == "" {
		leagueID = defaultLeagueID
	}
	seasons := cfg.Seasons
	if seasons == nil {
		seasons = DefaultSeasons()
	}
	seasonPause := cfg.SeasonPause
	if seasonPause < 0 {
		seasonPause = 0
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         apiKey,
		leagueID:       leagueID,
		seasons:        append([]string(nil), seasons...),
		seasonPause:    seasonPause,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		validator:      validator.New(),
		breaker:        resilience.NewCircuitBreaker("thesportsdb", breakerCfg, logBreakerTransition(logger)),
		circuitEnabled: breakerCfg.Enabled,
		retryBackoff:   func(attempt int) time.Duration { return time.Duration(attempt+1) * time.Second },
	}
}

// FetchUpcoming returns the league's next fixtures. Failures are logged and yield nil.
func (c *Client) FetchUpcoming(ctx context.Context) []match.Match {
	items, err := c.fetchEvents(ctx, "eventsnextleague.php", url.Values{"id": {c.leagueID}}, feedUpcoming)
	if err != nil {
		c.logger.WarnContext(ctx, "fetch upcoming matches failed", "league_id", c.leagueID, "error", err)
		return nil
	}
	return items
}

// FetchResults returns the league's most recent results.
func (c *Client) FetchResults(ctx context.Context) []match.Match {
	items, err := c.fetchEvents(ctx, "eventspastleague.php", url.Values{"id": {c.leagueID}}, feedResults)
	if err != nil {
		c.logger.WarnContext(ctx, "fetch match results failed", "league_id", c.leagueID, "error", err)
		return nil
	}
	return items
}

// FetchExtendedTeamHistory searches the team's events for the current season and each
// configured past season, keeping finished matches only. A failing season is skipped.
func (c *Client) FetchExtendedTeamHistory(ctx context.Context, team string) []match.Match {
	team = strings.TrimSpace(team)
	if team == "" {
		return nil
	}

	queries := make([]url.Values, 0, len(c.seasons)+1)
	queries = append(queries, url.Values{"e": {team}})
	for _, season := range c.seasons {
		queries = append(queries, url.Values{"e": {team}, "s": {season}})
	}

	var all []match.Match
	for i, query := range queries {
		if i > 0 {
			if err := sleepContext(ctx, c.seasonPause); err != nil {
				break
			}
		}

		items, err := c.fetchEvents(ctx, "searchevents.php", query, feedHistory)
		if err != nil {
			c.logger.WarnContext(ctx, "fetch team history failed", "team", team, "season", query.Get("s"), "error", err)
			continue
		}
		for _, item := range items {
			if item.IsFinished() {
				all = append(all, item)
			}
		}
	}

	c.logger.DebugContext(ctx, "fetched extended team history", "team", team, "finished", len(all))
	return match.DedupeByID(all)
}

// FetchExtendedHeadToHead merges both teams' extended histories filtered to the
// opposing side, de-duplicated by event id.
func (c *Client) FetchExtendedHeadToHead(ctx context.Context, teamA, teamB string) []match.Match {
	keyA, keyB := match.NewTeamKey(teamA), match.NewTeamKey(teamB)
	if keyA.IsZero() || keyB.IsZero() || keyA.Equal(keyB) {
		return nil
	}

	var pairs []match.Match
	for _, item := range c.FetchExtendedTeamHistory(ctx, teamA) {
		if item.IsPair(keyA, keyB) {
			pairs = append(pairs, item)
		}
	}
	if ctx.Err() == nil {
		for _, item := range c.FetchExtendedTeamHistory(ctx, teamB) {
			if item.IsPair(keyA, keyB) {
				pairs = append(pairs, item)
			}
		}
	}

	return match.DedupeByID(pairs)
}

func (c *Client) fetchEvents(ctx context.Context, endpoint string, query url.Values, source feed) ([]match.Match, error) {
	var envelope eventsEnvelope
	if err := c.doJSON(ctx, endpoint, query, &envelope); err != nil {
		return nil, err
	}

	raw := envelope.items()
	out := make([]match.Match, 0, len(raw))
	dropped := 0
	for _, item := range raw {
		if err := c.validator.StructCtx(ctx, item); err != nil {
			dropped++
			c.logger.DebugContext(ctx, "drop invalid provider event", "endpoint", endpoint, "event_id", item.IDEvent, "error", err)
			continue
		}
		mapped, err := toMatch(item, source)
		if err != nil {
			dropped++
			c.logger.DebugContext(ctx, "drop unmappable provider event", "endpoint", endpoint, "event_id", item.IDEvent, "error", err)
			continue
		}
		out = append(out, mapped)
	}

	if dropped > 0 {
		c.logger.WarnContext(ctx, "dropped malformed provider events", "endpoint", endpoint, "dropped", dropped, "kept", len(out))
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, endpoint string, query url.Values, target any) error {
	var done func(success bool)
	if c.circuitEnabled {
		var err error
		done, err = c.breaker.Allow()
		if err != nil {
			c.logger.WarnContext(ctx, "thesportsdb circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + "/" + url.PathEscape(c.apiKey) + "/" + endpoint
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(endpoint+"?"+query.Encode(), func() (any, error) {
		return c.executeRequest(ctx, fullURL)
	})
	if done != nil {
		done(!isCircuitFailure(err))
	}
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		// The free tier answers some empty searches with an empty body.
		return nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %s", c.sanitize(err.Error()))
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, c.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		if err := sleepContext(ctx, c.retryBackoff(attempt)); err != nil {
			return nil, err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "thesportsdb request failed", "url", c.sanitize(fullURL), "error", lastErr)
	return nil, lastErr
}

// sanitize hides the API key, which TheSportsDB carries as a path segment.
func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if c.apiKey != defaultAPIKey {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return apiKeySegmentRegex.ReplaceAllString(value, "/json/REDACTED/")
}

func logBreakerTransition(logger *logging.Logger) resilience.StateChangeFunc {
	return func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errProviderTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
