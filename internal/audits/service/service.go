// Package service implements the audit lifecycle: validated CRUD, status
// transitions with notifications, and the applicable-criteria resolution
// used to assemble an installation's working criteria set.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"dealeraudit/internal/audits/store"
	"dealeraudit/internal/events"
	hmodels "dealeraudit/internal/hierarchy/models"
	mdmodels "dealeraudit/internal/masterdata/models"
	"dealeraudit/internal/notify"
	"dealeraudit/internal/platform/metrics"
	"dealeraudit/internal/sizing"
	"dealeraudit/pkg/domain"
	dErrors "dealeraudit/pkg/domain-errors"
	"dealeraudit/pkg/platform/sentinel"
)

// CriterionSource resolves criteria from the scoring tree. FindByIDs
// preserves request order and silently skips missing ids; the resolver
// depends on both behaviors.
type CriterionSource interface {
	FindByIDs(ctx context.Context, ids []domain.CriterionID) ([]*hmodels.Criterion, error)
}

// MasterData is the slice of the master-data service audits consume:
// existence checks for referenced records and full reads for the
// sizing inputs.
type MasterData interface {
	GetInstallation(ctx context.Context, id domain.InstallationID) (*mdmodels.Installation, error)
	GetDealership(ctx context.Context, id domain.DealershipID) (*mdmodels.Dealership, error)
	GetInstallationType(ctx context.Context, id domain.InstallationTypeID) (*mdmodels.InstallationType, error)
	InstallationExists(ctx context.Context, id domain.InstallationID) error
	ResponsableExists(ctx context.Context, id domain.ResponsableID) error
}

// Service orchestrates audits.
type Service struct {
	stores     store.Stores
	criteria   CriterionSource
	masterdata MasterData
	catalog    *sizing.Catalog
	notifier   notify.Notifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
	events     events.Publisher
	tracer     trace.Tracer
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

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithSizing installs the criterion sizing catalog used to annotate
// fillable criteria with computed values.
func WithSizing(catalog *sizing.Catalog) Option {
	return func(s *Service) { s.catalog = catalog }
}

func New(stores store.Stores, criteria CriterionSource, masterdata MasterData, opts ...Option) *Service {
	s := &Service{
		stores:     stores,
		criteria:   criteria,
		masterdata: masterdata,
		tracer:     otel.Tracer("dealeraudit/audits"),
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
	if s.notifier == nil {
		s.notifier = notify.Noop()
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

// sendNotification delivers a lifecycle notification. Fire-and-forget:
// delivery failures are logged and never fail the triggering request.
func (s *Service) sendNotification(ctx context.Context, msg notify.Message) {
	if err := s.notifier.Send(ctx, msg.Subject, msg.HTML); err != nil {
		s.logger.WarnContext(ctx, "notification delivery failed",
			"subject", msg.Subject,
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

func (s *Service) countTransition(status string) {
	if s.metrics != nil {
		s.metrics.AuditTransitions.WithLabelValues(status).Inc()
	}
}

func (s *Service) countResolution() {
	if s.metrics != nil {
		s.metrics.CriteriaResolved.Inc()
	}
}

func (s *Service) countSizing() {
	if s.metrics != nil {
		s.metrics.SizingComputed.Inc()
	}
}
