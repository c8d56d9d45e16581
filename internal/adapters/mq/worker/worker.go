// Package worker runs the dispatchers that drain the event queue and
// publish interaction events to the broker.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"bannerd/internal/domain/events"
	"bannerd/pkg/logger"
	"bannerd/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Event abstracts what workers read off the queue.
// Using the events.BannerEvent type for consistency.
type Event = events.BannerEvent

// Publisher delivers an event to the broker.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker drains events off the queue and hands them to the publisher.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining events before stopping.
	Shutdown(ctx context.Context) error
}

// PublishWorker implements Worker for broker publication.
type PublishWorker struct {
	queue     Queue
	publisher Publisher
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewPublishWorker creates a new worker with configuration options.
func NewPublishWorker(queue Queue, publisher Publisher, opts ...Option) *PublishWorker {
	w := &PublishWorker{
		queue:     queue,
		publisher: publisher,
		name:      "dispatcher", // default name
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("dispatcher"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "dispatcher" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *PublishWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	eventChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-eventChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			// Publish the event
			if err := w.processEvent(ctx, event); err != nil {
				w.logger.Error(ctx, "error processing event", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *PublishWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	close(w.shutdown)

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("%w: %v", ErrShutdownTimeout, ctx.Err())
	}
}

// processEvent publishes a single event to the broker.
func (w *PublishWorker) processEvent(ctx context.Context, event Event) error {
	start := time.Now()
	err := w.publisher.Publish(ctx, event)
	latency := time.Since(start).Milliseconds()
	metrics.RecordPublishLatency(float64(latency))

	if err != nil {
		metrics.RecordEventPublishError()
		metrics.RecordErrorByComponent("dispatcher", "publish_error")
		w.logger.Error(ctx, "publish failed for event",
			logger.String("banner_id", event.BannerID),
			logger.String("event_type", string(event.Type)),
			logger.Error(err),
		)
		return fmt.Errorf("failed to publish %s event for banner %s: %w", event.Type, event.BannerID, err)
	}

	metrics.RecordEventPublished()

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*PublishWorker
	queue     Queue
	publisher Publisher

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, publisher Publisher) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:   make([]*PublishWorker, workerCount),
		queue:     queue,
		publisher: publisher,
		logger:    logger.Get().Named("dispatcher-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewPublishWorker(
			queue,
			publisher,
			WithName("dispatcher-"+strconv.Itoa(i)),
		)
	}

	// Initialize dispatcher metrics
	metrics.UpdateDispatcherCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Shutdown gracefully shuts down the entire worker pool.
// The queue is closed first so workers drain the remaining events.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new events
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "dispatcher shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateDispatcherCount(0)

	return nil
}
