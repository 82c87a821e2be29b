package statsfeed

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
	"github.com/propdesk/prop-grading/internal/domain/readout"
	"github.com/propdesk/prop-grading/internal/domain/statrecord"
	"github.com/propdesk/prop-grading/internal/platform/logging"
	"github.com/propdesk/prop-grading/internal/platform/resilience"
	"github.com/propdesk/prop-grading/internal/usecase"
)

const (
	defaultBaseURL = "https://tank01-stats.p.rapidapi.com"

	SourceMLB = "major-mlb"
	SourceNFL = "nfl"
)

var apiKeyParamRegex = regexp.MustCompile(`(?i)(x-rapidapi-key|apikey)=[^&\s"']+`)
var errStatsFeedTransient = crerr.New("statsfeed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchBoxScore pulls the box score for one game and normalizes it. A payload
// with no usable player rows yields an empty map, not an error.
func (c *Client) FetchBoxScore(ctx context.Context, source, gameID string) (usecase.ExternalBoxScore, error) {
	path, err := boxScorePath(source)
	if err != nil {
		return usecase.ExternalBoxScore{}, err
	}
	if strings.TrimSpace(gameID) == "" {
		return usecase.ExternalBoxScore{}, fmt.Errorf("%w: game id is required", usecase.ErrInvalidInput)
	}

	var payload map[string]any
	if _, err := c.doJSON(ctx, path, map[string]string{"gameID": gameID}, &payload); err != nil {
		return usecase.ExternalBoxScore{}, fmt.Errorf("fetch box score game_id=%s: %w", gameID, err)
	}

	players := NormalizeBoxScore(source, payload)
	return usecase.ExternalBoxScore{
		Raw:         payload,
		PlayersByID: players,
		StatKeys:    statrecord.StatKeys(players),
	}, nil
}

// FetchRoster pulls rosters for one or more teams and returns them as one
// merged entity map, used purely to enrich an already-normalized box score.
func (c *Client) FetchRoster(ctx context.Context, source string, teamCodes []string, season string) (map[string]statrecord.Record, error) {
	path, err := rosterPath(source)
	if err != nil {
		return nil, err
	}

	out := make(map[string]statrecord.Record, 64)
	for _, teamCode := range teamCodes {
		teamCode = strings.TrimSpace(teamCode)
		if teamCode == "" {
			continue
		}
		query := map[string]string{"teamAbv": teamCode}
		if strings.TrimSpace(season) != "" {
			query["season"] = season
		}

		var payload map[string]any
		if _, err := c.doJSON(ctx, path, query, &payload); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.WarnContext(ctx, "roster fetch failed, continuing without enrichment", "team", teamCode, "error", err)
			continue
		}
		for id, rec := range NormalizeRoster(source, payload) {
			out[id] = rec
		}
	}
	return out, nil
}

func scopeKey(q usecase.ScoreboardQuery) string {
	if strings.TrimSpace(q.GameDate) != "" {
		return q.GameDate
	}
	return strings.TrimSpace(q.Year) + "w" + strings.TrimSpace(q.Week)
}

// FetchScoreboard pulls the live status rows for one slate of games.
func (c *Client) FetchScoreboard(ctx context.Context, source string, query usecase.ScoreboardQuery) (readout.Snapshot, error) {
	path, err := scoreboardPath(source)
	if err != nil {
		return readout.Snapshot{}, err
	}

	params := map[string]string{}
	if strings.TrimSpace(query.GameDate) != "" {
		params["gameDate"] = strings.TrimSpace(query.GameDate)
	}
	if strings.TrimSpace(query.Year) != "" {
		params["year"] = strings.TrimSpace(query.Year)
	}
	if strings.TrimSpace(query.Week) != "" {
		params["week"] = strings.TrimSpace(query.Week)
	}
	if len(params) == 0 {
		return readout.Snapshot{}, fmt.Errorf("%w: a game date or year and week is required", usecase.ErrInvalidInput)
	}

	var payload map[string]any
	if _, err := c.doJSON(ctx, path, params, &payload); err != nil {
		return readout.Snapshot{}, fmt.Errorf("fetch scoreboard scope=%s: %w", scopeKey(query), err)
	}

	return readout.Snapshot{
		League:    source,
		Scope:     scopeKey(query),
		Games:     NormalizeScoreboard(payload),
		FetchedAt: time.Now().UTC(),
	}, nil
}

func boxScorePath(source string) (string, error) {
	switch source {
	case SourceMLB:
		return "/getMLBBoxScore", nil
	case SourceNFL:
		return "/getNFLBoxScore", nil
	}
	return "", fmt.Errorf("%w: unsupported source %q", usecase.ErrInvalidInput, source)
}

func rosterPath(source string) (string, error) {
	switch source {
	case SourceMLB:
		return "/getMLBTeamRoster", nil
	case SourceNFL:
		return "/getNFLTeamRoster", nil
	}
	return "", fmt.Errorf("%w: unsupported source %q", usecase.ErrInvalidInput, source)
}

func scoreboardPath(source string) (string, error) {
	switch source {
	case SourceMLB:
		return "/getMLBScoresOnly", nil
	case SourceNFL:
		return "/getNFLScoresOnly", nil
	}
	return "", fmt.Errorf("%w: unsupported source %q", usecase.ErrInvalidInput, source)
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "statsfeed circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isStatsFeedCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-rapidapi-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errStatsFeedTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errStatsFeedTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errStatsFeedTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "statsfeed request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "${1}=REDACTED")
}

func isStatsFeedCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errStatsFeedTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("apiKey") {
		query.Set("apiKey", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
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
