package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"partyplan/internal/api"
	"partyplan/internal/app"
	"partyplan/internal/config"
	"partyplan/internal/database"
	"partyplan/internal/logger"
	"partyplan/internal/models"
	"partyplan/internal/reminders"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Fatal(err, "Command failed")
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "reminders",
		Short:         "Payment reminder milestones for booked events",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			logger.Init(cfg.LogLevel, cfg.LogFormat)
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the HTTP-triggered reminder function",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "run",
			Short: "Run all milestones once and print the results",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runOnce(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "schedule",
			Short: "Run the job on REMINDER_SCHEDULE until interrupted",
			RunE: func(cmd *cobra.Command, args []string) error {
				return schedule(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the reminder tables",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context(), cfg)
			},
		},
	)

	return root
}

func serve(ctx context.Context, cfg *config.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal(err, "Failed to start")
	}
	defer a.Close()

	server := api.NewServer(a)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.GetRouter(),
	}

	go func() {
		logger.Get().Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err, "Failed to start server")
		}
	}()

	waitForSignal()
	logger.Get().Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Get().Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Get().Info().Msg("Server stopped")
	return nil
}

func runOnce(ctx context.Context, cfg *config.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	resp := models.RunResponse{Success: true}
	report, err := a.Job.Run(ctx, "cli")
	if err != nil {
		resp = models.RunResponse{Success: false, Error: err.Error()}
	} else {
		resp.Results = report.Results
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(resp); encErr != nil {
		return encErr
	}
	return err
}

func schedule(ctx context.Context, cfg *config.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := reminders.NewScheduler(a.Job)
	if err != nil {
		return err
	}
	if err := s.Start(ctx, cfg.Schedule); err != nil {
		return err
	}

	waitForSignal()
	return s.Stop()
}

func migrate(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.RunMigrations(ctx)
}

func waitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
