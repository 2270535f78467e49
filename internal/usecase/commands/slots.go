package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/domain/pricing"
	"slotbooker/internal/domain/schedule"
	"slotbooker/internal/domain/slot"
	"slotbooker/internal/infra"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/usecase/shared"
)

var (
	ErrPriceListNotFound = errs.New("price list not found")
	ErrPriceListInactive = errs.New("price list inactive")
	ErrInvalidDateRange  = errs.New("invalid date range")
)

// GenerationReport summarizes one generation run. Conflicts counts slots
// skipped because live bookings pinned their current terms.
type GenerationReport struct {
	Planned   int
	Inserted  int
	Updated   int
	Unchanged int
	Conflicts int
}

type GenerateSlotsRequest struct {
	PriceListID uuid.UUID
	From        time.Time
	To          time.Time
}

type SlotCommands interface {
	Generate(ctx context.Context, req GenerateSlotsRequest) (*GenerationReport, error)
}

type slotCommandsImpl struct {
	uow     shared.UnitOfWork
	planner *schedule.Planner
}

func NewSlotCommands(uow shared.UnitOfWork) SlotCommands {
	return &slotCommandsImpl{
		uow:     uow,
		planner: schedule.NewPlanner(pricing.NewResolver()),
	}
}

// Generate materializes slots for a price list and date range. Re-running
// is idempotent: unchanged slots are no-ops, changed ones update only
// while unused, and slots with claimed capacity are reported as conflicts
// and left alone. Generation never deletes slots.
func (uc *slotCommandsImpl) Generate(ctx context.Context, req GenerateSlotsRequest) (*GenerationReport, error) {
	if req.To.Before(req.From) {
		return nil, errs.Mark(errs.New("range end precedes start"), ErrInvalidDateRange)
	}

	report := &GenerationReport{}
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		priceList, err := tx.PriceLists().FindByID(ctx, tx.DB(), req.PriceListID)
		if err != nil {
			return err
		}
		if !priceList.IsActive() {
			return ErrPriceListInactive
		}

		rules, err := tx.PriceLists().ActiveRules(ctx, tx.DB(), priceList.ID())
		if err != nil {
			return err
		}
		overrides, err := tx.PriceLists().ActiveOverrides(ctx, tx.DB(), priceList.ID(), req.From, req.To)
		if err != nil {
			return err
		}

		planned, err := uc.planner.PlanRange(priceList, rules, overrides, req.From, req.To)
		if err != nil {
			return err
		}
		report.Planned = len(planned)

		for _, candidate := range planned {
			if err := uc.upsertSlot(ctx, tx, priceList, candidate, report); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (uc *slotCommandsImpl) upsertSlot(
	ctx context.Context,
	tx shared.Tx,
	priceList *pricing.PriceList,
	candidate schedule.PlannedSlot,
	report *GenerationReport,
) error {
	existing, err := tx.Slots().FindByWindow(ctx, tx.DB(), priceList.PlatformID(), priceList.ID(), candidate.StartsAt, candidate.EndsAt)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return err
	}

	if existing == nil {
		fresh, err := slot.NewSlot(priceList.PlatformID(), priceList.ID(), candidate.StartsAt, candidate.EndsAt, candidate.Price, candidate.Capacity)
		if err != nil {
			return err
		}
		if _, err := tx.Slots().Create(ctx, tx.DB(), fresh); err != nil {
			return err
		}
		report.Inserted++
		return nil
	}

	if existing.Price().Equal(candidate.Price) && existing.Capacity() == candidate.Capacity {
		report.Unchanged++
		return nil
	}

	if err := existing.Reprice(candidate.Price, candidate.Capacity); err != nil {
		if errors.Is(err, slot.ErrCapacityInUse) || errors.Is(err, errs.ErrCapacityConflict) {
			slog.Warn("slot terms pinned by live bookings",
				"slot_id", existing.ID(),
				"starts_at", candidate.StartsAt,
				"used_capacity", existing.UsedCapacity())
			report.Conflicts++
			return nil
		}
		return err
	}
	if err := tx.Slots().UpdateTerms(ctx, tx.DB(), existing); err != nil {
		return err
	}
	report.Updated++
	return nil
}
