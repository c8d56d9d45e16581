// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	eventqueue "bannerd/internal/adapters/mq/queue"
	workerpool "bannerd/internal/adapters/mq/worker"
	"bannerd/internal/adapters/repository"
	"bannerd/internal/domain/analytics"
	"bannerd/internal/domain/events"
	"bannerd/internal/domain/model"
	"bannerd/internal/domain/selection"
	"bannerd/internal/domain/types"
	"bannerd/pkg/logger"
	"bannerd/pkg/metrics"
)

// gaugeRefreshInterval is how often the background gauges are recomputed.
const gaugeRefreshInterval = 10 * time.Second

// Service implements the API dependencies for the banner system.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog    repository.Store
	selector   *selection.Selector
	publisher  workerpool.Publisher
	eventQueue eventqueue.Queue
	pool       *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int

	// State
	started   bool
	startedAt time.Time
	stopCh    chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the banner catalog store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.catalog = store
		}
	}
}

// WithSelector sets the selector used to pick banners for serving.
func WithSelector(sel *selection.Selector) Option {
	return func(s *Service) {
		if sel != nil {
			s.selector = sel
		}
	}
}

// WithPublisher sets the broker publisher for interaction events.
// Without one the publication pipeline stays disabled.
func WithPublisher(p workerpool.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithWorkerCount sets the number of dispatcher goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2, // Default to 2x CPU cores
		queueSize:   10000,                // Default queue size
		logger:      nil,                  // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting banner service...")

	// Initialize components not supplied through options
	if s.catalog == nil {
		s.catalog = repository.NewMemStore()
	}
	if s.selector == nil {
		s.selector = selection.New()
	}

	// The publication pipeline runs only when a broker publisher is
	// configured.
	if s.publisher != nil {
		s.eventQueue = eventqueue.NewInMemoryQueue(
			eventqueue.WithCapacity(s.queueSize),
			eventqueue.WithBufferSize(s.queueSize),
		)
		s.pool = workerpool.NewPool(s.workerCount, s.eventQueue, s.publisher)
		s.pool.Start(ctx)
	}

	s.stopCh = make(chan struct{})
	s.started = true
	s.startedAt = time.Now()

	go s.refreshGauges(ctx, s.stopCh)

	s.logger.Info(ctx, "banner service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("publishEnabled", s.publisher != nil),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping banner service...")

	// The pool closes the queue first so buffered events reach the
	// broker before the dispatchers exit.
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "dispatcher pool shutdown", logger.Error(err))
		}
	}

	// Signal the gauge refresher to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "banner service stopped")
}

// ListActive returns the active banners available for serving.
func (s *Service) ListActive(ctx context.Context) ([]model.Banner, error) {
	return s.catalog.ListActive(ctx)
}

// Create validates and adds a new banner to the catalog.
func (s *Service) Create(ctx context.Context, fields repository.CreateFields) (model.Banner, error) {
	b, err := s.catalog.Create(ctx, fields)
	if err != nil {
		return model.Banner{}, err
	}

	s.logger.Info(ctx, "banner created",
		logger.String("id", b.ID),
		logger.String("title", b.Title),
		logger.Int("weight", b.Weight),
	)
	s.refreshCatalogGauges(ctx)

	return b, nil
}

// Update merges the provided fields into an existing banner.
func (s *Service) Update(ctx context.Context, id string, fields repository.UpdateFields) (model.Banner, error) {
	b, err := s.catalog.Update(ctx, id, fields)
	if err != nil {
		return model.Banner{}, err
	}

	s.logger.Debug(ctx, "banner updated", logger.String("id", b.ID))
	s.refreshCatalogGauges(ctx)

	return b, nil
}

// Deactivate retires a banner from serving while keeping its counters.
func (s *Service) Deactivate(ctx context.Context, id string) (model.Banner, error) {
	b, err := s.catalog.Deactivate(ctx, id)
	if err != nil {
		return model.Banner{}, err
	}

	s.logger.Info(ctx, "banner deactivated", logger.String("id", b.ID))
	s.refreshCatalogGauges(ctx)

	return b, nil
}

// RecordImpression counts one impression for the banner id and hands
// the event to the publication pipeline. It returns the new counter
// value.
func (s *Service) RecordImpression(ctx context.Context, id string) (int64, error) {
	count, err := s.catalog.RecordImpression(ctx, id)
	if err != nil {
		return 0, err
	}

	metrics.RecordImpression()
	s.publish(ctx, events.BannerEvent{
		Type:      events.EventImpression,
		BannerID:  id,
		Count:     count,
		Timestamp: time.Now().UTC(),
	})

	return count, nil
}

// RecordClick counts one click for the banner id and hands the event
// to the publication pipeline. It returns the new counter value.
func (s *Service) RecordClick(ctx context.Context, id string) (int64, error) {
	count, err := s.catalog.RecordClick(ctx, id)
	if err != nil {
		return 0, err
	}

	metrics.RecordClick()
	s.publish(ctx, events.BannerEvent{
		Type:      events.EventClick,
		BannerID:  id,
		Count:     count,
		Timestamp: time.Now().UTC(),
	})

	return count, nil
}

// Snapshot returns one analytics row per catalog banner, inactive included.
func (s *Service) Snapshot(ctx context.Context) ([]types.AnalyticsRow, error) {
	stats, err := s.catalog.Stats(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]types.AnalyticsRow, len(stats))
	for i, st := range stats {
		rows[i] = analytics.Row(st.Banner, st.Counters)
	}

	return rows, nil
}

// PickActive draws one active banner with probability proportional to
// its weight. The boolean is false when no banner is active.
func (s *Service) PickActive(ctx context.Context) (model.Banner, bool, error) {
	candidates, err := s.catalog.ListActive(ctx)
	if err != nil {
		return model.Banner{}, false, err
	}

	b, ok := s.selector.Pick(candidates)
	if !ok {
		return model.Banner{}, false, nil
	}

	metrics.RecordSelection()
	return b, true, nil
}

// Len returns the total and active banner counts.
func (s *Service) Len(ctx context.Context) (total, active int) {
	return s.catalog.Len(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"publishEnabled": s.publisher != nil,
	}

	if s.started {
		total, active := s.catalog.Len(ctx)
		stats["bannersTotal"] = total
		stats["bannersActive"] = active
		stats["uptime"] = time.Since(s.startedAt).String()

		// Update metrics
		metrics.UpdateCatalogSize(total, active)

		if s.eventQueue != nil {
			stats["queueLength"] = s.eventQueue.Len(ctx)
		}
		if s.pool != nil {
			stats["dispatcherCount"] = s.pool.Size()
		}
	}

	return stats
}

// publish enqueues an event for broker delivery. Events are dropped,
// not blocked on, when the pipeline is saturated.
func (s *Service) publish(ctx context.Context, e events.BannerEvent) {
	if s.eventQueue == nil {
		return
	}

	if !s.eventQueue.Enqueue(ctx, e) {
		metrics.RecordEventDropped()
		s.logger.Warn(ctx, "event dropped, queue full",
			logger.String("banner_id", e.BannerID),
			logger.String("event_type", string(e.Type)),
		)
	}
}

// refreshCatalogGauges publishes the catalog size gauges.
func (s *Service) refreshCatalogGauges(ctx context.Context) {
	total, active := s.catalog.Len(ctx)
	metrics.UpdateCatalogSize(total, active)
}

// refreshGauges keeps the catalog and queue gauges current while the
// service runs.
func (s *Service) refreshGauges(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(gaugeRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.updateGauges(ctx)
		}
	}
}

// updateGauges recomputes the catalog and queue gauges.
func (s *Service) updateGauges(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return
	}

	s.refreshCatalogGauges(ctx)
	if s.eventQueue != nil {
		metrics.UpdateQueueSize(s.eventQueue.Len(ctx))
	}
}
