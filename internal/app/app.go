package app

import (
	"context"
	"fmt"

	"partyplan/internal/cache"
	"partyplan/internal/config"
	"partyplan/internal/database"
	"partyplan/internal/external"
	"partyplan/internal/logger"
	"partyplan/internal/messaging"
	"partyplan/internal/metrics"
	"partyplan/internal/reminders"
	"partyplan/internal/repository"
	"partyplan/internal/search"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App owns the connections behind a reminder job
type App struct {
	Config   *config.Config
	DB       *database.DB
	NATS     *messaging.NATSClient
	Cache    cache.Cache
	Search   *search.ElasticsearchClient
	Registry *prometheus.Registry
	Job      *reminders.Job
}

// New wires the reminder job. Invalid configuration does not fail here: the
// returned job fails every run with the configuration error instead. Errors
// are only returned when a configured backend cannot be reached.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	a := &App{Config: cfg, Registry: reg}

	opts := reminders.Options{
		Concurrency:     cfg.Concurrency,
		EmailRatePerSec: cfg.Email.RatePerSec,
		AppURL:          cfg.Email.AppURL,
		Metrics:         m,
	}

	if err := cfg.Validate(); err != nil {
		logger.Get().Error().Err(err).Msg("Invalid configuration, payment reminder runs will fail")
		opts.ConfigErr = err
		a.Job = reminders.NewJob(reminders.Deps{}, opts)
		return a, nil
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.DB = db

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	a.NATS = natsClient

	es, err := search.NewElasticsearchClient(ctx, cfg.Elasticsearch)
	if err != nil {
		// run reports are optional
		logger.Get().Warn().Err(err).Msg("Elasticsearch unavailable, run reports will not be indexed")
		es = nil
	}
	a.Search = es

	a.Cache = cache.New(cfg.Cache)

	repos := repository.NewRepositories(db)
	deps := reminders.Deps{
		Bookings:      repos.Bookings,
		Events:        repos.Events,
		Reminders:     repos.Reminders,
		Notifications: repos.Notifications,
		Profiles:      cache.NewProfiles(repos.Profiles, a.Cache),
		Push:          external.NewPushClient(cfg.Push),
		Email:         external.NewEmailClient(cfg.Email),
		Publisher:     natsClient,
	}
	if es != nil {
		deps.Indexer = es
	}

	a.Job = reminders.NewJob(deps, opts)
	return a, nil
}

// Close закрывает соединения
func (a *App) Close() error {
	if a.NATS != nil {
		if err := a.NATS.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("Error closing NATS connection")
		}
	}

	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("Error closing profile cache")
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("Error closing database connection")
			return err
		}
	}

	return nil
}
