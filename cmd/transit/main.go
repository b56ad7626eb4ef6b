package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	httpadapter "github.com/samirrijal/bilbopass/internal/adapters/http"
	"github.com/samirrijal/bilbopass/internal/adapters/hrdfcsv"
	natsadapter "github.com/samirrijal/bilbopass/internal/adapters/nats"
	"github.com/samirrijal/bilbopass/internal/adapters/postgres"
	"github.com/samirrijal/bilbopass/internal/adapters/valkey"
	"github.com/samirrijal/bilbopass/internal/core/isochrone"
	"github.com/samirrijal/bilbopass/internal/core/ports"
	"github.com/samirrijal/bilbopass/internal/core/routing"
	"github.com/samirrijal/bilbopass/internal/core/timetable"
	"github.com/samirrijal/bilbopass/internal/pkg/config"
	"github.com/samirrijal/bilbopass/internal/pkg/logging"
	"github.com/samirrijal/bilbopass/internal/pkg/telemetry"
)

func main() {
	root := &cobra.Command{
		Use:   "transit",
		Short: "Multi-modal transit journey planning and isochrone mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadTimetable builds a *timetable.Timetable from whichever source
// cfg.Timetable.Source selects.
func loadTimetable(ctx context.Context, cfg *config.Config) (*timetable.Timetable, error) {
	var source ports.TimetableSource

	switch cfg.Timetable.Source {
	case "postgres":
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		source = postgres.NewTimetableSource(db)
	default:
		source = hrdfcsv.New(cfg.Timetable.SourcePath)
	}

	raw, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load timetable: %w", err)
	}

	return timetable.Build(raw), nil
}

func runServe() error {
	cfg, err := config.Load("bilbopass-transit")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		_, shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	tt, err := loadTimetable(ctx, cfg)
	if err != nil {
		return err
	}
	meta := tt.Metadata()
	slog.Info("timetable loaded", "start_date", meta.StartDate.Format("2006-01-02"), "end_date", meta.EndDate.Format("2006-01-02"))

	cache, err := valkey.New(cfg.Valkey.Addr)
	var resultCache ports.ResultCache
	if err != nil {
		slog.Warn("valkey unavailable, running without result cache", "error", err)
	} else {
		defer cache.Close()
		resultCache = cache
	}

	var publisher ports.QueryEventPublisher
	natsPublisher, err := natsadapter.NewPublisher(cfg.NATS.URL, slog.Default())
	if err != nil {
		slog.Warn("nats unavailable, query telemetry disabled", "error", err)
		publisher = natsadapter.Noop()
	} else {
		defer natsPublisher.Close()
		publisher = natsPublisher
	}

	deps := &httpadapter.Dependencies{
		Timetable:    tt,
		Cache:        resultCache,
		Publisher:    publisher,
		StopIDPrefix: cfg.Timetable.StopIDPrefix,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024,
		AppName:      "BilboPass Transit API",
	})

	httpadapter.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port)
		slog.Info("transit API starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
	return nil
}

// runDemo plans one journey and computes one isochrone map over the
// configured timetable, printing both — a smoke test a reader can run
// without standing up the HTTP service.
func runDemo() error {
	cfg, err := config.Load("bilbopass-transit")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Setup("info", "text")

	ctx := context.Background()
	tt, err := loadTimetable(ctx, cfg)
	if err != nil {
		return err
	}

	meta := tt.Metadata()
	fmt.Printf("timetable validity: %s to %s\n\n", meta.StartDate.Format("2006-01-02"), meta.EndDate.Format("2006-01-02"))

	departureAt := meta.StartDate.Add(5 * time.Hour * 24).Add(8 * time.Hour)

	stops := tt.StopsWithPrefix(cfg.Timetable.StopIDPrefix)
	if len(stops) < 2 {
		fmt.Println("not enough stops in the loaded timetable to run a demo query")
		return nil
	}

	origin, dest := stops[0], stops[len(stops)-1]
	fmt.Printf("planning journey: stop %d (%s) -> stop %d (%s), departing %s\n",
		origin.ID, origin.Name, dest.ID, dest.Name, departureAt.Format(time.RFC3339))

	result := routing.PlanJourney(tt, origin.ID, dest.ID, departureAt)
	if result == nil {
		fmt.Println("no journey found")
	} else {
		fmt.Printf("departs %s, arrives %s, %d section(s):\n",
			result.DepartureAt.Format(time.RFC3339), result.ArrivalAt.Format(time.RFC3339), len(result.Sections))
		for i, sec := range result.Sections {
			if sec.IsWalkingTrip() {
				fmt.Printf("  %d. walk stop %d -> stop %d (%d min)\n", i+1, sec.DepartureStopID, sec.ArrivalStopID, *sec.DurationMinutes)
			} else {
				fmt.Printf("  %d. journey %d: stop %d -> stop %d (%s -> %s)\n",
					i+1, *sec.JourneyID, sec.DepartureStopID, sec.ArrivalStopID,
					sec.DepartureAt.Format("15:04:05"), sec.ArrivalAt.Format("15:04:05"))
			}
		}
	}

	if origin.WGS84 != nil {
		fmt.Printf("\ncomputing isochrones from stop %d (%s)...\n", origin.ID, origin.Name)
		isoMap, err := isochrone.ComputeIsochrones(ctx, tt, origin.WGS84.Latitude, origin.WGS84.Longitude,
			departureAt, 30*time.Minute, 10*time.Minute, isochrone.Circles)
		if err != nil {
			fmt.Printf("isochrone computation failed: %v\n", err)
		} else {
			for _, iso := range isoMap.Isochrones {
				fmt.Printf("  %2d min: %d polygon(s)\n", iso.TimeLimitMinutes, len(iso.Polygons))
			}
		}
	}

	return nil
}
