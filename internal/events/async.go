package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by AsyncEmitter
var (
	ErrQueueClosed = errors.New("event queue is closed")
	ErrQueueFull   = errors.New("event queue is full")
)

// AsyncConfig holds configuration options for AsyncEmitter
type AsyncConfig struct {
	// WorkerCount determines how many goroutines deliver events.
	// If zero or negative, defaults to 1
	WorkerCount int

	// QueueSize bounds the number of undelivered events.
	// If zero or negative, defaults to 1
	QueueSize int
}

// DefaultAsyncConfig returns an AsyncConfig with reasonable defaults
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		WorkerCount: 2,
		QueueSize:   256,
	}
}

type queuedEvent struct {
	ctx   context.Context
	event *ReviewEvent
}

// AsyncEmitter queues events and delivers them to another emitter from a
// pool of worker goroutines, so subscribers never add latency to a request.
// Emitting never blocks: a full queue drops the event with ErrQueueFull.
type AsyncEmitter struct {
	next   EventEmitter
	queue  chan queuedEvent
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewAsyncEmitter starts the workers and returns the emitter. Call Stop to
// drain the queue and release the workers.
func NewAsyncEmitter(next EventEmitter, config AsyncConfig, logger *slog.Logger) *AsyncEmitter {
	logger = logger.With("component", "async_event_emitter")

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}
	queueSize := max(config.QueueSize, 1)

	a := &AsyncEmitter{
		next:   next,
		queue:  make(chan queuedEvent, queueSize),
		logger: logger,
	}

	a.wg.Add(workerCount)
	for i := range workerCount {
		go a.worker(i)
	}
	return a
}

// EmitEvent enqueues event for delivery. The context's values travel with
// the event but its cancellation does not, since delivery usually outlives
// the request that caused it.
func (a *AsyncEmitter) EmitEvent(ctx context.Context, event *ReviewEvent) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return ErrQueueClosed
	}

	select {
	case a.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(a.queue))
	}
}

// Stop closes the queue, waits for the workers to deliver what is left and
// returns. Calling Stop more than once is safe.
func (a *AsyncEmitter) Stop() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	a.wg.Wait()
	a.logger.Debug("event workers stopped")
}

func (a *AsyncEmitter) worker(id int) {
	defer a.wg.Done()

	for qe := range a.queue {
		if err := a.next.EmitEvent(qe.ctx, qe.event); err != nil {
			a.logger.Debug("event delivery reported an error",
				"worker_id", id,
				"event_id", qe.event.ID,
				"error", err)
		}
	}
}
