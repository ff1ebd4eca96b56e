package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	httpapi "github.com/i474232898/weather-lookup/internal/api/http"
	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/effects"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/session"
	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/widget"
)

var deps *Dependencies

func main() {
	rootCmd := &cobra.Command{
		Use:           "weather-lookup",
		Short:         "Weather lookup by place name or device position",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			deps = InitDependencies(cfg, newLogger(cfg))
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the session API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	lookupCmd := &cobra.Command{
		Use:   "lookup <place>",
		Short: "Search a place and print its weather",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pick, _ := cmd.Flags().GetInt("pick")
			showEffects, _ := cmd.Flags().GetBool("effects")
			return lookup(cmd.Context(), args[0], pick, showEffects)
		},
	}
	lookupCmd.Flags().IntP("pick", "p", 0, "Index of the suggestion to load")
	lookupCmd.Flags().BoolP("effects", "e", false, "Print one frame of the ambient effects")

	hereCmd := &cobra.Command{
		Use:   "here",
		Short: "Print the weather at the configured device position",
		RunE: func(cmd *cobra.Command, args []string) error {
			showEffects, _ := cmd.Flags().GetBool("effects")
			return here(cmd.Context(), showEffects)
		},
	}
	hereCmd.Flags().BoolP("effects", "e", false, "Print one frame of the ambient effects")

	rootCmd.AddCommand(serveCmd, lookupCmd, hereCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve() error {
	cfg, log := deps.Config, deps.Logger

	sessions := session.NewStore(cfg.SessionMax, cfg.SessionMaxAge)
	sessions.OnChange(deps.Metrics.SetSessions)
	defer sessions.Close()

	// Light/dark tick and idle-session sweep.
	sched := scheduler.New(sessions, cfg.ThemeInterval, cfg.SessionSweepInterval, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-lookup",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * cfg.HTTPTimeout,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-lookup",
			"sessions": sessions.Len(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	app.Use("/api", httpapi.RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)))
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Sessions:       sessions,
		NewWidget:      deps.NewWidget,
		DefaultLocator: deps.Locator,
	})

	go func() {
		log.Info("Listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	return nil
}

func lookup(ctx context.Context, place string, pick int, showEffects bool) error {
	w := deps.NewWidget(nil)
	defer w.Close()

	suggestions, err := w.FetchSuggestions(ctx, place)
	if err != nil {
		return fmt.Errorf("%s (%w)", weather.MsgSuggestionsFailed, err)
	}
	if len(suggestions) == 0 {
		return fmt.Errorf("no places match %q", place)
	}
	printSuggestions(os.Stdout, suggestions, pick)

	if err := w.SelectSuggestion(ctx, pick); err != nil {
		if errors.Is(err, widget.ErrNoSuggestion) {
			return fmt.Errorf("pick %d is out of range, %d suggestions found", pick, len(suggestions))
		}
		return fmt.Errorf("%s (%w)", weather.MsgWeatherFailed, err)
	}
	printView(os.Stdout, w.Snapshot().View(effects.NewRenderer(uint64(time.Now().UnixNano()))), showEffects)
	return nil
}

func here(ctx context.Context, showEffects bool) error {
	w := deps.NewWidget(deps.Locator)
	defer w.Close()

	if err := w.Bootstrap(ctx); err != nil {
		return fmt.Errorf("%s (%w)", w.Snapshot().Error, err)
	}
	printView(os.Stdout, w.Snapshot().View(effects.NewRenderer(uint64(time.Now().UnixNano()))), showEffects)
	return nil
}
