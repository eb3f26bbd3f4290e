// Command backtest replays stored seasons against stored lines and
// prints the run summary with the edge-bucket breakdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/backtest"
	"github.com/wheels195/cfb-market-edge-sub006/internal/client"
	"github.com/wheels195/cfb-market-edge-sub006/internal/config"
	"github.com/wheels195/cfb-market-edge-sub006/internal/identity"
	"github.com/wheels195/cfb-market-edge-sub006/internal/pipeline"
	"github.com/wheels195/cfb-market-edge-sub006/internal/repository"
)

func main() {
	seasonsFlag := flag.String("seasons", "", "comma-separated seasons to replay (default: configured backtest window)")
	minEdge := flag.Float64("min-edge", 2.0, "minimum edge in points to take a bet")
	rebuild := flag.Bool("rebuild", false, "rebuild rating snapshots before the run")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.MustLoad()

	ctx := context.Background()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	seasons, err := parseSeasons(*seasonsFlag, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid seasons flag")
	}

	cfbdClient := client.NewCFBDClient(cfg.CFBDBaseURL, cfg.CFBDAPIKey, cfg.CFBDTimeout)
	oddsClient := client.NewOddsClient(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, cfg.OddsAPITimeout, cfg.OddsAPIRateLimit)
	pipe := pipeline.New(cfg, db, cfbdClient, oddsClient, identity.NewAliasResolver(), nil)

	if *rebuild {
		fmt.Fprintf(os.Stderr, "Rebuilding ratings for seasons %v...\n", seasons)
		if _, err := pipe.RebuildRatings(ctx, seasons); err != nil {
			log.Fatal().Err(err).Msg("Rating rebuild failed")
		}
	}

	runCfg := backtest.DefaultConfig()
	runCfg.MinEdgePoints = *minEdge
	runCfg.HomeField = cfg.HomeFieldBonus
	runCfg.Price = cfg.DefaultPrice

	summary, err := pipe.Backtest(ctx, seasons, runCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Backtest failed")
	}

	printSummary(summary, seasons, runCfg)
}

func parseSeasons(raw string, cfg *config.Config) ([]int, error) {
	if raw == "" {
		var seasons []int
		for yr := cfg.CurrentSeason - cfg.BacktestSeasons; yr < cfg.CurrentSeason; yr++ {
			seasons = append(seasons, yr)
		}
		return seasons, nil
	}

	var seasons []int
	for _, part := range strings.Split(raw, ",") {
		yr, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad season %q: %w", part, err)
		}
		seasons = append(seasons, yr)
	}
	return seasons, nil
}

func printSummary(s *backtest.Summary, seasons []int, cfg backtest.Config) {
	fmt.Printf("Backtest: seasons %v, min edge %.1f, price %d\n", seasons, cfg.MinEdgePoints, cfg.Price)
	fmt.Printf("Games processed: %d (skipped %d)\n", s.Processed, s.Skipped)
	fmt.Printf("Bets: %d  W-L-P: %d-%d-%d  Win rate: %.1f%%\n",
		s.Bets, s.Wins, s.Losses, s.Pushes, s.WinRate()*100)
	fmt.Printf("Profit: %+.2f units on %.0f risked  ROI: %+.2f%%\n",
		s.ProfitUnits, s.Risked, s.ROI()*100)
	if s.CLVSamples > 0 {
		fmt.Printf("Average CLV: %+.2f points (%d bets with closing lines)\n",
			s.AverageCLV(), s.CLVSamples)
	}

	fmt.Println("\nEdge buckets:")
	for _, b := range s.Buckets {
		if b.Bets == 0 {
			continue
		}
		upper := fmt.Sprintf("%.0f", b.MaxEdge)
		if b.MaxEdge > 1000 {
			upper = "inf"
		}
		fmt.Printf("  %.0f-%s pts: %4d bets  %.1f%% win rate\n",
			b.MinEdge, upper, b.Bets, b.WinRate()*100)
	}

	if len(s.Errors) > 0 {
		fmt.Printf("\n%d errors (first %d shown):\n", len(s.Errors), len(s.Errors))
		for _, msg := range s.Errors {
			fmt.Printf("  %s\n", msg)
		}
	}
}
