// Package ingest holds the business rules that combine the repositories:
// clipboard capture, trash and restore, favorites, locks, moves and ordering.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/iudanet/ideacapsule/internal/clipboard"
	"github.com/iudanet/ideacapsule/internal/events"
	"github.com/iudanet/ideacapsule/internal/metrics"
	"github.com/iudanet/ideacapsule/internal/models"
	"github.com/iudanet/ideacapsule/internal/storage"
)

// Service is the only component that mutates more than one repository at once.
// Every successful mutation that changed rows publishes one DataChanged event.
type Service struct {
	store      storage.Store
	settings   storage.SettingsStorage
	bus        events.Publisher
	metrics    *metrics.Metrics
	log        *slog.Logger
	classifier *clipboard.Classifier
	watcher    *clipboard.Watcher
	palette    models.Palette
}

// Option configures the service
type Option func(*Service)

// WithBus sets the event publisher
func WithBus(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.bus = p
		}
	}
}

// WithSettings enables the user_default_color and recent_categories hints
func WithSettings(st storage.SettingsStorage) Option {
	return func(s *Service) { s.settings = st }
}

// WithMetrics sets the collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPalette overrides the reserved colours
func WithPalette(p models.Palette) Option {
	return func(s *Service) { s.palette = p }
}

// WithClassifier replaces the clipboard classifier
func WithClassifier(c *clipboard.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithWatcher enables clipboard storm debouncing
func WithWatcher(w *clipboard.Watcher) Option {
	return func(s *Service) { s.watcher = w }
}

// NewService creates the ingestion service over store
func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		bus:        events.Nop{},
		log:        slog.Default(),
		classifier: clipboard.NewClassifier(),
		palette:    models.DefaultPalette(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Palette returns the colours the service normalizes to
func (s *Service) Palette() models.Palette {
	return s.palette
}

// mutate runs fn in one transaction. fn reports whether anything changed;
// the event is published only after commit.
func (s *Service) mutate(ctx context.Context, op string, fn func(ctx context.Context) (bool, error)) error {
	changed := false
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		c, err := fn(ctx)
		changed = c
		return err
	})
	if err != nil {
		s.metrics.Error(op)
		s.log.Error("mutation failed", "operation", op, "error", err)
		return err
	}

	if changed {
		s.metrics.Mutation(op)
		s.bus.Publish(events.DataChanged)
	}
	return nil
}

// observe times a read query
func (s *Service) observe(op string) func() {
	start := time.Now()
	return func() { s.metrics.ObserveQuery(op, start) }
}
