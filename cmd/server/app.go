package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/cadence/internal/config"
	"github.com/phrazzld/cadence/internal/domain/srs"
	"github.com/phrazzld/cadence/internal/events"
)

// application holds the dependencies shared by the HTTP layer.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	scheduler srs.Service
	emitter   *events.AsyncEmitter
	clock     func() time.Time
}

// newApplication wires the scheduler from configuration and subscribes the
// review log to scheduling events.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	params, err := cfg.Scheduler.Params()
	if err != nil {
		return nil, fmt.Errorf("failed to build scheduler parameters: %w", err)
	}

	subscribers := events.NewInMemoryEventEmitter(logger)
	subscribers.RegisterHandler(events.NewLogHandler(logger))

	emitter := events.NewAsyncEmitter(subscribers, events.AsyncConfig{
		WorkerCount: cfg.Server.EventWorkers,
		QueueSize:   cfg.Server.EventQueueSize,
	}, logger)

	return &application{
		config:    cfg,
		logger:    logger,
		scheduler: srs.NewServiceWithParams(params),
		emitter:   emitter,
		clock:     time.Now,
	}, nil
}

// Run serves HTTP until ctx is canceled or the server fails.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup delivers queued review events and stops the event workers.
func (app *application) cleanup() {
	if app.emitter != nil {
		app.emitter.Stop()
	}
}
