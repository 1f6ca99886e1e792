// Package service implements the scoring-tree operations: validated CRUD
// per level, derived abbreviations, the value roll-up engine and cascade
// deletes. All multi-document updates are best-effort sequential writes;
// ancestor values are eventually-consistent aggregates, not hard totals.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"dealeraudit/internal/events"
	"dealeraudit/internal/hierarchy/store"
	"dealeraudit/internal/platform/metrics"
	"dealeraudit/pkg/domain"
	dErrors "dealeraudit/pkg/domain-errors"
	"dealeraudit/pkg/platform/sentinel"
)

// ReferenceChecker resolves existence of master-data records referenced by
// criteria. Implementations return sentinel.ErrNotFound for missing ids.
type ReferenceChecker interface {
	InstallationExists(ctx context.Context, id domain.InstallationID) error
	InstallationTypeExists(ctx context.Context, id domain.InstallationTypeID) error
	CriterionTypeExists(ctx context.Context, id domain.CriterionTypeID) error
	ResponsableExists(ctx context.Context, id domain.ResponsableID) error
}

// Service orchestrates the five-level tree.
type Service struct {
	stores  store.Stores
	refs    ReferenceChecker
	logger  *slog.Logger
	metrics *metrics.Metrics
	events  events.Publisher
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithEvents(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func WithReferenceChecker(refs ReferenceChecker) Option {
	return func(s *Service) { s.refs = refs }
}

func New(stores store.Stores, opts ...Option) *Service {
	s := &Service{
		stores: stores,
		tracer: otel.Tracer("dealeraudit/hierarchy"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.events == nil {
		s.events = events.Noop()
	}
	return s
}

// wrapStoreErr translates store sentinels into coded domain errors.
func wrapStoreErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "store operation failed")
}

// publish emits a mutation event. Publishing is best-effort: failures are
// logged and never fail the request that triggered them.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event publish failed",
			"kind", event.Kind,
			"action", event.Action,
			"error", err,
		)
	}
}

func (s *Service) countCreated(kind string) {
	if s.metrics != nil {
		s.metrics.EntitiesCreated.WithLabelValues(kind).Inc()
	}
}

func (s *Service) countDeleted(kind string) {
	if s.metrics != nil {
		s.metrics.EntitiesDeleted.WithLabelValues(kind).Inc()
	}
}

func (s *Service) countCascade(kind string) {
	if s.metrics != nil {
		s.metrics.CascadeDeletes.WithLabelValues(kind).Inc()
	}
}
