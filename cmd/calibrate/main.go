// Package main provides the calibration maintenance CLI: refit isotonic
// curves from settled prediction history and report per-set accuracy.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/jackpot-engine/internal/config"
	"github.com/yourusername/jackpot-engine/internal/database"
	"github.com/yourusername/jackpot-engine/internal/engine"
	"github.com/yourusername/jackpot-engine/internal/repository"
	"github.com/yourusername/jackpot-engine/internal/service"
	"github.com/yourusername/jackpot-engine/internal/snapshot"
)

func main() {
	var (
		configPath   = flag.String("config", "config/config.yaml", "Path to config file")
		setName      = flag.String("set", "", "Probability set to refit (default: all)")
		windowDays   = flag.Int("window-days", 180, "Trailing window of settled predictions")
		evaluateOnly = flag.Bool("evaluate-only", false, "Report accuracy without storing new curves")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

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

	calibrationSvc := service.NewCalibrationService(repos.Prediction, repos.Snapshot, registry, cfg.EffectiveTuning(), logger)

	since := time.Now().AddDate(0, 0, -*windowDays)
	sets := setsToProcess(*setName)

	for _, name := range sets {
		accuracy, err := calibrationSvc.Evaluate(ctx, name, since)
		if err != nil {
			logger.Fatalf("Accuracy evaluation failed for %s: %v", name, err)
		}
		fmt.Printf("%s: settled=%d hit_rate=%.4f brier=%.4f log_loss=%.4f\n",
			name, accuracy.Settled, accuracy.HitRate, accuracy.BrierScore, accuracy.MeanLogLoss)

		if *evaluateOnly {
			continue
		}

		curves, err := calibrationSvc.Refit(ctx, name, since)
		if err != nil {
			logger.Fatalf("Calibration refit failed for %s: %v", name, err)
		}
		for outcome, curve := range curves {
			fmt.Printf("  curve %s: buckets=%d samples=%d\n", outcome, len(curve.Buckets), curve.TotalSamples())
		}
	}
}

func setsToProcess(setName string) []string {
	if setName != "" {
		return []string{setName}
	}
	sets := make([]string, 0, len(engine.AllSetNames))
	for _, n := range engine.AllSetNames {
		sets = append(sets, string(n))
	}
	return sets
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
