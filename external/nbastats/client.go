package nbastats

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/wolvesmetrics/lineup-analytics/internal/platform/logging"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/resilience"
	"github.com/wolvesmetrics/lineup-analytics/internal/usecase"
)

const (
	defaultBaseURL = "https://stats.nba.com"
	defaultTimeout = 20 * time.Second

	seasonTypeRegular = "Regular Season"
	apiDateLayout     = "01/02/2006"
)

var errNBAStatsTransient = crerr.New("nba stats transient failure")

// browserHeaders mimic a real browser; stats.nba.com rejects bare
// clients.
var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36",
	"Referer":            "https://www.nba.com/",
	"Origin":             "https://www.nba.com",
	"Accept":             "application/json, text/plain, */*",
	"Accept-Language":    "en-US,en;q=0.9",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the stats.nba.com tabular API. It implements
// usecase.StatsProvider.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	timeout        time.Duration
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
		httpClient = &fasthttp.Client{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchTeamGames returns the team's finished games for a season from
// the game-finder endpoint.
func (c *Client) FetchTeamGames(ctx context.Context, teamID int64, season string) ([]usecase.ExternalTeamGame, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}

	var envelope statsEnvelope
	err := c.doJSON(ctx, "/stats/leaguegamefinder", map[string]string{
		"PlayerOrTeam":       "T",
		"TeamIDNullable":     strconv.FormatInt(teamID, 10),
		"SeasonNullable":     season,
		"LeagueIDNullable":   "00",
		"SeasonTypeNullable": seasonTypeRegular,
	}, &envelope)
	if err != nil {
		return nil, fmt.Errorf("fetch team games team=%d season=%s: %w", teamID, season, err)
	}

	return parseTeamGames(envelope, teamID)
}

// FetchLineups returns every lineup stat line of one team on one
// calendar date. The DateFrom/DateTo pin makes the season endpoint
// behave as a per-game query.
func (c *Client) FetchLineups(ctx context.Context, req usecase.LineupFetchRequest) ([]usecase.ExternalLineupLine, error) {
	if req.TeamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}
	if req.GroupQuantity <= 0 {
		return nil, fmt.Errorf("group quantity must be greater than zero")
	}

	apiDate := req.Date.Format(apiDateLayout)
	var envelope statsEnvelope
	err := c.doJSON(ctx, "/stats/leaguedashlineups", map[string]string{
		"GroupQuantity": strconv.Itoa(req.GroupQuantity),
		"Season":        req.Season,
		"SeasonType":    seasonTypeRegular,
		"MeasureType":   "Base",
		"PerMode":       "Totals",
		"DateFrom":      apiDate,
		"DateTo":        apiDate,
		"TeamID":        strconv.FormatInt(req.TeamID, 10),
	}, &envelope)
	if err != nil {
		return nil, fmt.Errorf("fetch lineups team=%d date=%s qty=%d: %w", req.TeamID, apiDate, req.GroupQuantity, err)
	}

	return parseLineups(envelope)
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "nba stats circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
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

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errNBAStatsTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode stats payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := c.doOnce(fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !stderrors.Is(err, errNBAStatsTransient) {
			return nil, err
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
		lastErr = fmt.Errorf("stats request failed")
	}
	c.logger.WarnContext(ctx, "nba stats request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errNBAStatsTransient, err)
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		raw := make([]byte, len(resp.Body()))
		copy(raw, resp.Body())
		return raw, nil
	case status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError:
		return nil, fmt.Errorf("%w: stats status=%d body=%s", errNBAStatsTransient, status, abbreviateBody(resp.Body()))
	default:
		return nil, fmt.Errorf("stats status=%d body=%s", status, abbreviateBody(resp.Body()))
	}
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
