package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"dealeraudit/pkg/domain"
)

// The aggregation engine keeps ancestor value fields equal to the sum of
// the criterion values beneath them. Deltas are applied strictly bottom-up
// (Standard → Area → Block → Category) with one sequential write per
// level and no transaction: a failure mid-chain leaves earlier writes in
// place and is surfaced to the caller. The next full delta through the
// same chain does not repair the gap; values are best-effort aggregates.

// applyStandardDelta applies delta to a standard and its ancestors.
func (s *Service) applyStandardDelta(ctx context.Context, standardID domain.StandardID, delta float64) error {
	if delta == 0 {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "hierarchy.applyValueDelta")
	span.SetAttributes(
		attribute.String("standard_id", standardID.String()),
		attribute.Float64("delta", delta),
	)
	defer span.End()

	if s.metrics != nil {
		s.metrics.ValueDeltasTotal.Inc()
	}

	std, err := s.stores.Standards.FindByID(ctx, standardID)
	if err != nil {
		return s.deltaFailed(wrapStoreErr(err, "standard not found during value propagation"))
	}
	std.Value += delta
	if err := s.stores.Standards.Save(ctx, std); err != nil {
		return s.deltaFailed(wrapStoreErr(err, "standard vanished during value propagation"))
	}

	return s.applyAreaDelta(ctx, std.Area, delta)
}

// applyAreaDelta applies delta from an area upward. The freshly updated
// area supplies the block reference for the next step, the block the
// category; denormalized ids on lower levels are never trusted here.
func (s *Service) applyAreaDelta(ctx context.Context, areaID domain.AreaID, delta float64) error {
	if delta == 0 {
		return nil
	}
	area, err := s.stores.Areas.FindByID(ctx, areaID)
	if err != nil {
		return s.deltaFailed(wrapStoreErr(err, "area not found during value propagation"))
	}
	area.Value += delta
	if err := s.stores.Areas.Save(ctx, area); err != nil {
		return s.deltaFailed(wrapStoreErr(err, "area vanished during value propagation"))
	}

	return s.applyBlockDelta(ctx, area.Block, delta)
}

func (s *Service) applyBlockDelta(ctx context.Context, blockID domain.BlockID, delta float64) error {
	if delta == 0 {
		return nil
	}
	block, err := s.stores.Blocks.FindByID(ctx, blockID)
	if err != nil {
		return s.deltaFailed(wrapStoreErr(err, "block not found during value propagation"))
	}
	block.Value += delta
	if err := s.stores.Blocks.Save(ctx, block); err != nil {
		return s.deltaFailed(wrapStoreErr(err, "block vanished during value propagation"))
	}

	return s.applyCategoryDelta(ctx, block.Category, delta)
}

func (s *Service) applyCategoryDelta(ctx context.Context, categoryID domain.CategoryID, delta float64) error {
	if delta == 0 {
		return nil
	}
	category, err := s.stores.Categories.FindByID(ctx, categoryID)
	if err != nil {
		return s.deltaFailed(wrapStoreErr(err, "category not found during value propagation"))
	}
	category.Value += delta
	if err := s.stores.Categories.Save(ctx, category); err != nil {
		return s.deltaFailed(wrapStoreErr(err, "category vanished during value propagation"))
	}
	return nil
}

func (s *Service) deltaFailed(err error) error {
	if s.metrics != nil {
		s.metrics.ValueDeltaErrors.Inc()
	}
	return err
}
