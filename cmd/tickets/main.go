// Package main provides the ticket generation CLI and the long-running
// service mode.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/jackpot-engine/internal/config"
	"github.com/yourusername/jackpot-engine/internal/database"
	"github.com/yourusername/jackpot-engine/internal/datasource"
	"github.com/yourusername/jackpot-engine/internal/health"
	applogger "github.com/yourusername/jackpot-engine/internal/logger"
	"github.com/yourusername/jackpot-engine/internal/metrics"
	"github.com/yourusername/jackpot-engine/internal/oddsfeed"
	"github.com/yourusername/jackpot-engine/internal/repository"
	"github.com/yourusername/jackpot-engine/internal/scheduler"
	"github.com/yourusername/jackpot-engine/internal/service"
	"github.com/yourusername/jackpot-engine/internal/snapshot"
	"github.com/yourusername/jackpot-engine/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile  string
	jackpotFlag string
	setFlag     string
	countFlag   int

	appLogger *logrus.Logger
	cfg       *config.Config
	db        *database.DB
	repos     *repository.Repositories
	registry  *snapshot.Registry
	sources   *datasource.Sources
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	generateCmd.Flags().StringVarP(&jackpotFlag, "jackpot", "j", "", "Jackpot ID (required)")
	generateCmd.Flags().StringVarP(&setFlag, "set", "s", "", "Probability set to generate from")
	generateCmd.Flags().IntVarP(&countFlag, "count", "n", 0, "Number of tickets")
	_ = generateCmd.MarkFlagRequired("jackpot")
}

var rootCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Generate jackpot ticket batches",
	Long:  `Generate constrained ticket batches from computed probability sets, or run the long-lived prediction service.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if sources != nil {
			_ = sources.Close()
		}
		if db != nil {
			db.Close()
		}
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a ticket batch for a jackpot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateBatch(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the prediction service with scheduled maintenance jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func main() {
	rootCmd.AddCommand(generateCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLogger = applogger.NewLogger(cfg.App.LogLevel)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return err
	}

	registry = snapshot.NewRegistry(appLogger)
	snapshotSvc := service.NewSnapshotService(repos.Snapshot, registry, appLogger)
	if err := snapshotSvc.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load model snapshot: %w", err)
	}

	sources = datasource.NewSources(cfg, applogger.WithComponent(appLogger, "datasource"))

	return tracing.Initialize(tracing.Config{
		ServiceName:  cfg.App.Name,
		Enabled:      cfg.Tracing.Enabled,
		SamplingRate: cfg.Tracing.SamplingRate,
		DaemonAddr:   cfg.Tracing.DaemonAddr,
	}, appLogger)
}

func newPredictionService(drift *oddsfeed.DriftTracker) *service.PredictionService {
	return service.NewPredictionService(service.PredictionServiceConfig{
		Registry:       registry,
		FixtureRepo:    repos.Fixture,
		PredictionRepo: repos.Prediction,
		H2HRepo:        repos.H2H,
		Features:       sources.Features,
		Drift:          drift,
		Tuning:         cfg.EffectiveTuning(),
		MaxParallel:    cfg.Engine.MaxParallel,
		CacheTTL:       cfg.Cache.TTL(),
		Logger:         appLogger,
	})
}

func generateBatch(ctx context.Context) error {
	jackpotID, err := uuid.Parse(jackpotFlag)
	if err != nil {
		return fmt.Errorf("invalid jackpot ID: %w", err)
	}

	setName := setFlag
	if setName == "" {
		setName = cfg.Tickets.DefaultSetName
	}
	count := countFlag
	if count <= 0 {
		count = cfg.Tickets.DefaultTicketCount
	}

	if cfg.Tracing.Enabled {
		segCtx, seg := tracing.StartSegment(ctx, "ticket-generation")
		defer seg.Close(nil)
		ctx = segCtx
		tracing.AddAnnotation(ctx, "jackpot_id", jackpotID.String())
		tracing.AddAnnotation(ctx, "set_name", setName)
	}

	ticketSvc := service.NewTicketService(newPredictionService(nil), registry, cfg.EffectivePolicy(), repos.Ticket, appLogger)

	batch, diags, err := ticketSvc.GenerateBatch(ctx, jackpotID, setName, count)
	if err != nil {
		tracing.AddError(ctx, err)
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		Batch       interface{} `json:"batch"`
		Diagnostics interface{} `json:"diagnostics"`
	}{batch, diags})
}

// snapshotChecker adapts the registry to the health server's readiness probe.
type snapshotChecker struct {
	registry *snapshot.Registry
}

func (c snapshotChecker) Active() (string, error) {
	snap, err := c.registry.Active()
	if err != nil {
		return "", err
	}
	return snap.Version(), nil
}

func serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appLogger.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"environment": cfg.App.Environment,
	}).Info("Jackpot engine service starting")

	// Odds drift tracking off the websocket stream, when configured.
	var drift *oddsfeed.DriftTracker
	if cfg.OddsFeed.StreamURL != "" {
		drift = oddsfeed.NewDriftTracker(24*time.Hour, applogger.WithComponent(appLogger, "oddsfeed"))
		stream := oddsfeed.NewStreamClient(cfg.OddsFeed.StreamURL, cfg.OddsFeed.APIKey, applogger.WithComponent(appLogger, "oddsfeed"))
		stream.AddHandler(drift.HandleTick)
		if err := stream.Connect(ctx); err != nil {
			appLogger.WithError(err).Warn("Odds stream unavailable; drift signal disabled")
		} else {
			defer stream.Close()
			if err := stream.Authenticate(ctx); err != nil {
				appLogger.WithError(err).Warn("Odds stream authentication failed")
			}
		}
	}

	predictionSvc := newPredictionService(drift)
	_ = service.NewTicketService(predictionSvc, registry, cfg.EffectivePolicy(), repos.Ticket, appLogger)

	snapshotSvc := service.NewSnapshotService(repos.Snapshot, registry, appLogger)
	calibrationSvc := service.NewCalibrationService(repos.Prediction, repos.Snapshot, registry, cfg.EffectiveTuning(), appLogger)

	// Scheduled maintenance jobs.
	sched := scheduler.NewScheduler(snapshotSvc, calibrationSvc, appLogger)
	if cfg.Scheduler.SnapshotReloadCron != "" {
		if err := sched.ScheduleSnapshotReload(cfg.Scheduler.SnapshotReloadCron); err != nil {
			return err
		}
	}
	if cfg.Scheduler.CalibrationFitCron != "" {
		if err := sched.ScheduleCalibrationRefit(cfg.Scheduler.CalibrationFitCron, 0); err != nil {
			return err
		}
	}
	if err := sched.Start(); err != nil {
		appLogger.WithError(err).Warn("Scheduler not started")
	} else {
		defer func() { _ = sched.Stop() }()
	}

	// Metrics endpoint.
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLogger.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.WithError(err).Error("Metrics server error")
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	// Health endpoints.
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLogger,
		DB:          db,
		Snapshot:    snapshotChecker{registry: registry},
	})
	if err := healthServer.Start(ctx); err != nil {
		return err
	}
	healthServer.SetReady(true)

	appLogger.Info("Jackpot engine service running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLogger.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	appLogger.Info("Jackpot engine service shut down")
	return nil
}
