package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

// CFBDClient is the CollegeFootballData API client. It is the source of
// truth for canonical team IDs, schedules, final scores, and PPA.
type CFBDClient struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter chan struct{} // Rate limiting semaphore
	maxRetries  int
	retryDelay  time.Duration
}

// NewCFBDClient creates a new CollegeFootballData API client
func NewCFBDClient(baseURL, apiKey string, timeout time.Duration) *CFBDClient {
	// Create rate limiter (max 10 concurrent requests)
	rateLimiter := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		rateLimiter <- struct{}{}
	}

	return &CFBDClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rateLimiter,
		maxRetries:  3,
		retryDelay:  1 * time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request with retry logic and rate limiting
func (c *CFBDClient) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retryable, err := c.doOnce(ctx, url, params, attempt)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

// doOnce performs a single attempt, holding the rate-limit slot only
// for the duration of the request.
func (c *CFBDClient) doOnce(ctx context.Context, url string, params map[string]string, attempt int) ([]byte, bool, error) {
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-c.rateLimiter:
	}
	defer func() { c.rateLimiter <- struct{}{} }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cfb-market-edge/1.0")

	if len(params) > 0 {
		q := req.URL.Query()
		for key, value := range params {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	log.Debug().
		Str("url", url).
		Int("attempt", attempt+1).
		Msg("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		log.Debug().
			Str("url", url).
			Int("status", resp.StatusCode).
			Int("size", len(body)).
			Msg("API request successful")
		return body, false, nil

	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return nil, true, fmt.Errorf("API returned retryable status %d: %s", resp.StatusCode, string(body))

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, false, fmt.Errorf("API authentication failed (status %d): %s", resp.StatusCode, string(body))

	default:
		return nil, false, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
}

// FetchTeams fetches all FBS teams
func (c *CFBDClient) FetchTeams(ctx context.Context) ([]models.TeamInput, error) {
	body, err := c.get(ctx, "teams/fbs", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}

	var teams []models.TeamInput
	if err := json.Unmarshal(body, &teams); err != nil {
		return nil, fmt.Errorf("failed to unmarshal teams: %w", err)
	}

	return teams, nil
}

// FetchGames fetches the schedule (with scores for completed games) for
// a season
func (c *CFBDClient) FetchGames(ctx context.Context, season int) ([]models.GameInput, error) {
	params := map[string]string{
		"year":       strconv.Itoa(season),
		"seasonType": "both",
	}

	body, err := c.get(ctx, "games", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch games: %w", err)
	}

	var games []models.GameInput
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("failed to unmarshal games: %w", err)
	}

	return games, nil
}

// FetchGamesByWeek fetches the schedule for a single week
func (c *CFBDClient) FetchGamesByWeek(ctx context.Context, season, week int) ([]models.GameInput, error) {
	params := map[string]string{
		"year": strconv.Itoa(season),
		"week": strconv.Itoa(week),
	}

	body, err := c.get(ctx, "games", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch games for week %d: %w", week, err)
	}

	var games []models.GameInput
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, fmt.Errorf("failed to unmarshal games: %w", err)
	}

	return games, nil
}

// FetchGamePPA fetches per-game predicted points added for a season,
// one row per team per game
func (c *CFBDClient) FetchGamePPA(ctx context.Context, season int, week *int) ([]models.TeamGamePPAInput, error) {
	params := map[string]string{
		"year": strconv.Itoa(season),
	}
	if week != nil {
		params["week"] = strconv.Itoa(*week)
	}

	body, err := c.get(ctx, "ppa/games", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game ppa: %w", err)
	}

	var rows []models.TeamGamePPAInput
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game ppa: %w", err)
	}

	return rows, nil
}
