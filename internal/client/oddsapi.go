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
	"golang.org/x/time/rate"

	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

// Market keys used by The Odds API.
const (
	oddsMarketSpreads = "spreads"
	oddsMarketTotals  = "totals"

	oddsSportKey = "americanfootball_ncaaf"
)

// OddsEvent is one game in an Odds API response. Teams are free-form
// names; identity resolution maps them to canonical IDs downstream.
type OddsEvent struct {
	ID           string          `json:"id"`
	SportKey     string          `json:"sport_key"`
	CommenceTime time.Time       `json:"commence_time"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Bookmakers   []OddsBookmaker `json:"bookmakers"`
}

// OddsBookmaker is one book's markets within an event.
type OddsBookmaker struct {
	Key        string       `json:"key"`
	Title      string       `json:"title"`
	LastUpdate time.Time    `json:"last_update"`
	Markets    []OddsMarket `json:"markets"`
}

// OddsMarket is one market (spreads, totals) within a bookmaker.
type OddsMarket struct {
	Key      string        `json:"key"`
	Outcomes []OddsOutcome `json:"outcomes"`
}

// OddsOutcome is one side of a market.
type OddsOutcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"`
	Point *float64 `json:"point"`
}

// OddsClient is the The Odds API client. The free tier meters requests
// hard, so all calls share a token-bucket limiter.
type OddsClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewOddsClient creates a new Odds API client. requestsPerSecond bounds
// the sustained request rate across all callers.
func NewOddsClient(baseURL, apiKey string, timeout time.Duration, requestsPerSecond float64) *OddsClient {
	return &OddsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
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

func (c *OddsClient) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Add("apiKey", c.apiKey)
	for key, value := range params {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("odds API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("odds API returned status %d: %s", resp.StatusCode, string(body))
	}

	// The quota headers are the only place usage is visible.
	log.Debug().
		Str("url", url).
		Str("requests_remaining", resp.Header.Get("X-Requests-Remaining")).
		Msg("Odds API request successful")

	return body, nil
}

// FetchOdds fetches current spread and total lines for all upcoming
// college football games. bookmakers is a comma-separated key list.
func (c *OddsClient) FetchOdds(ctx context.Context, bookmakers string) ([]OddsEvent, error) {
	params := map[string]string{
		"regions":    "us",
		"markets":    oddsMarketSpreads + "," + oddsMarketTotals,
		"oddsFormat": "american",
	}
	if bookmakers != "" {
		params["bookmakers"] = bookmakers
	}

	body, err := c.get(ctx, fmt.Sprintf("sports/%s/odds", oddsSportKey), params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds: %w", err)
	}

	var events []OddsEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal odds: %w", err)
	}

	return events, nil
}

// OddsScore is one game's score in the scores endpoint.
type OddsScore struct {
	ID           string    `json:"id"`
	CommenceTime time.Time `json:"commence_time"`
	Completed    bool      `json:"completed"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	Scores       []struct {
		Name  string `json:"name"`
		Score string `json:"score"`
	} `json:"scores"`
}

// FetchScores fetches final and in-progress scores for games that
// started in the last daysFrom days.
func (c *OddsClient) FetchScores(ctx context.Context, daysFrom int) ([]OddsScore, error) {
	params := map[string]string{
		"daysFrom": strconv.Itoa(daysFrom),
	}

	body, err := c.get(ctx, fmt.Sprintf("sports/%s/scores", oddsSportKey), params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}

	var scores []OddsScore
	if err := json.Unmarshal(body, &scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
	}

	return scores, nil
}

// ParseFinalScore extracts the final score from a completed scores
// entry. ok is false for games still in progress or when either side's
// score is missing or unparseable.
func ParseFinalScore(score *OddsScore) (homeScore, awayScore int, ok bool) {
	if !score.Completed {
		return 0, 0, false
	}

	var homeFound, awayFound bool
	for _, entry := range score.Scores {
		points, err := strconv.Atoi(entry.Score)
		if err != nil {
			return 0, 0, false
		}
		switch entry.Name {
		case score.HomeTeam:
			homeScore = points
			homeFound = true
		case score.AwayTeam:
			awayScore = points
			awayFound = true
		}
	}

	return homeScore, awayScore, homeFound && awayFound
}

// ParseEventLines flattens an event's bookmakers into line inputs. The
// spread is normalized to the home handicap regardless of which outcome
// the feed lists first.
func ParseEventLines(event *OddsEvent) []models.LineInput {
	var lines []models.LineInput

	for _, book := range event.Bookmakers {
		for _, market := range book.Markets {
			switch market.Key {
			case oddsMarketSpreads:
				line := models.LineInput{
					Bookmaker:  book.Key,
					Market:     models.MarketSpread,
					CapturedAt: book.LastUpdate,
				}
				for _, outcome := range market.Outcomes {
					if outcome.Point == nil {
						continue
					}
					price := outcome.Price
					switch outcome.Name {
					case event.HomeTeam:
						line.SpreadHome = outcome.Point
						line.PriceHome = &price
					case event.AwayTeam:
						line.PriceAway = &price
					}
				}
				if line.SpreadHome != nil {
					lines = append(lines, line)
				}

			case oddsMarketTotals:
				line := models.LineInput{
					Bookmaker:  book.Key,
					Market:     models.MarketTotal,
					CapturedAt: book.LastUpdate,
				}
				for _, outcome := range market.Outcomes {
					if outcome.Point == nil {
						continue
					}
					price := outcome.Price
					switch outcome.Name {
					case "Over":
						line.Total = outcome.Point
						line.PriceOver = &price
					case "Under":
						line.PriceUnder = &price
					}
				}
				if line.Total != nil {
					lines = append(lines, line)
				}
			}
		}
	}

	return lines
}
