// Package service implements validated CRUD over the master-data records
// and exposes the existence checks the scoring tree and the audit workflow
// consume. Names are globally unique, case-insensitive.
package service

import (
	"context"
	"errors"
	"log/slog"

	"dealeraudit/internal/events"
	"dealeraudit/internal/masterdata/store"
	"dealeraudit/internal/platform/metrics"
	"dealeraudit/pkg/domain"
	dErrors "dealeraudit/pkg/domain-errors"
	"dealeraudit/pkg/platform/sentinel"
)

type Service struct {
	stores  store.Stores
	logger  *slog.Logger
	metrics *metrics.Metrics
	events  events.Publisher
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

func New(stores store.Stores, opts ...Option) *Service {
	s := &Service{stores: stores}
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

func wrapStoreErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "store operation failed")
}

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

// Existence checks consumed by the hierarchy service's reference batches
// and the audit workflow. Sentinel errors pass through untranslated; the
// caller decides how a missing reference is reported.

func (s *Service) InstallationExists(ctx context.Context, id domain.InstallationID) error {
	_, err := s.stores.Installations.FindByID(ctx, id)
	return err
}

func (s *Service) InstallationTypeExists(ctx context.Context, id domain.InstallationTypeID) error {
	_, err := s.stores.InstallationTypes.FindByID(ctx, id)
	return err
}

func (s *Service) CriterionTypeExists(ctx context.Context, id domain.CriterionTypeID) error {
	_, err := s.stores.CriterionTypes.FindByID(ctx, id)
	return err
}

func (s *Service) ResponsableExists(ctx context.Context, id domain.ResponsableID) error {
	_, err := s.stores.Responsables.FindByID(ctx, id)
	return err
}

func (s *Service) DealershipExists(ctx context.Context, id domain.DealershipID) error {
	_, err := s.stores.Dealerships.FindByID(ctx, id)
	return err
}
