// Package main provides the entry point for the prediction CLI tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/config"
	"github.com/yourusername/jackpot-engine/internal/database"
	"github.com/yourusername/jackpot-engine/internal/datasource"
	applogger "github.com/yourusername/jackpot-engine/internal/logger"
	"github.com/yourusername/jackpot-engine/internal/models"
	"github.com/yourusername/jackpot-engine/internal/repository"
	"github.com/yourusername/jackpot-engine/internal/service"
	"github.com/yourusername/jackpot-engine/internal/snapshot"
)

// fixtureOutput is the per-fixture JSON emitted on stdout.
type fixtureOutput struct {
	FixtureID   string                                 `json:"fixture_id"`
	HomeTeamID  string                                 `json:"home_team_id"`
	AwayTeamID  string                                 `json:"away_team_id"`
	LambdaHome  float64                                `json:"lambda_home"`
	LambdaAway  float64                                `json:"lambda_away"`
	MostLikely  string                                 `json:"most_likely_score"`
	Over15      float64                                `json:"over_1_5_goals"`
	Over25      float64                                `json:"over_2_5_goals"`
	Components  models.DrawComponents                  `json:"draw_components"`
	Uncertainty models.UncertaintyMetadata             `json:"uncertainty"`
	Sets        map[string]models.OutcomeProbabilities `json:"sets"`
}

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		jackpotID  = flag.String("jackpot", "", "Jackpot ID to compute (required)")
		setName    = flag.String("set", "", "Limit output to one probability set")
		pretty     = flag.Bool("pretty", true, "Indent JSON output")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

	id, err := uuid.Parse(*jackpotID)
	if err != nil {
		logger.Fatalf("Invalid or missing -jackpot: %v", err)
	}

	cfg := loadConfigWithSecrets(*configPath, logger)

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logger.Fatalf("Failed to initialize repositories: %v", err)
	}

	registry := snapshot.NewRegistry(logger)
	snapshotSvc := service.NewSnapshotService(repos.Snapshot, registry, logger)
	if err := snapshotSvc.Reload(ctx); err != nil {
		logger.Fatalf("Failed to load model snapshot: %v", err)
	}

	sources := datasource.NewSources(cfg, applogger.WithComponent(logger, "datasource"))
	defer sources.Close()

	predictionSvc := service.NewPredictionService(service.PredictionServiceConfig{
		Registry:       registry,
		FixtureRepo:    repos.Fixture,
		PredictionRepo: repos.Prediction,
		H2HRepo:        repos.H2H,
		Features:       sources.Features,
		Tuning:         cfg.EffectiveTuning(),
		MaxParallel:    cfg.Engine.MaxParallel,
		CacheTTL:       cfg.Cache.TTL(),
		Logger:         logger,
	})

	predictions, err := predictionSvc.PredictJackpot(ctx, id)
	if err != nil {
		logger.Fatalf("Prediction failed: %v", err)
	}

	output := make([]fixtureOutput, 0, len(predictions))
	for _, p := range predictions {
		sets := make(map[string]models.OutcomeProbabilities, len(p.Result.Sets))
		for name, probs := range p.Result.Sets {
			if *setName != "" && string(name) != *setName {
				continue
			}
			sets[string(name)] = probs
		}
		output = append(output, fixtureOutput{
			FixtureID:   p.Fixture.ID.String(),
			HomeTeamID:  p.Fixture.HomeTeamID,
			AwayTeamID:  p.Fixture.AwayTeamID,
			LambdaHome:  p.Result.Expectations.LambdaHome,
			LambdaAway:  p.Result.Expectations.LambdaAway,
			MostLikely:  p.Result.Grid.MostLikelyScore(),
			Over15:      p.Result.Grid.Over1p5Goals,
			Over25:      p.Result.Grid.Over2p5Goals,
			Components:  p.Result.Components,
			Uncertainty: p.Result.Uncertainty,
			Sets:        sets,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	if *pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		logger.Fatalf("Failed to encode output: %v", err)
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)
	return logger
}

func loadConfigWithSecrets(path string, logger *logrus.Logger) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logger.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logger.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}
