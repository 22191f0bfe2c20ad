package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"country-registry/core/config"
	"country-registry/core/database"
	"country-registry/core/loader"
	"country-registry/core/logger"
	"country-registry/core/metrics"
	"country-registry/core/middleware/auth"
	"country-registry/core/middleware/rayid"
	"country-registry/feature/country"
	countrysync "country-registry/feature/country/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the country registry server",
	Long: `Starts the HTTP API and, when sync.interval_minutes is set,
synchronizes countries periodically until shutdown.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database and check the schema
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Database connection failed", zap.Error(err))
		}
		if err := verifySchema(db, logg); err != nil {
			logg.Fatal("Schema verification failed", zap.Error(err))
		}
		logg.Info("Connected to database", zap.String("driver", db.Dialector.Name()))

		// 4. Metrics
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		syncMetrics := metrics.New(reg)

		// 5. Syncer
		syncer, err := newSyncer(cfg, db, logg, syncMetrics, "")
		if err != nil {
			logg.Fatal("Failed to initialize sync", zap.Error(err))
		}

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// RayID must be first to trace everything
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

		// Reads are public, writes require the configured credentials
		app.Use(auth.New(cfg.Auth))

		// 7. Load Features
		mgr := loader.NewManager(logg)
		mgr.Register(country.NewFeature(db, syncer, logg))
		if err := mgr.LoadAll(app.Group(cfg.Server.APIPrefix())); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Scheduler
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if cfg.Sync.IntervalMinutes > 0 {
			go runScheduler(ctx, syncer, time.Duration(cfg.Sync.IntervalMinutes)*time.Minute, logg)
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.ListenAddr()))
			if err := app.Listen(cfg.Server.ListenAddr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		cancel()
		_ = app.Shutdown()
	},
}

// runScheduler runs a sync every interval until ctx is done. A failed run is
// logged and the next tick tries again.
func runScheduler(ctx context.Context, syncer *countrysync.Syncer, interval time.Duration, logg *zap.Logger) {
	logg.Info("Sync scheduler started", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := syncer.RunSync(ctx, countrysync.RunOptions{}); err != nil {
				logg.Error("Scheduled sync failed", zap.Error(err))
			}
		}
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
