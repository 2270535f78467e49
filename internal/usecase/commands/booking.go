package commands

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"slotbooker/internal/domain/booking"
	"slotbooker/internal/domain/promo"
	"slotbooker/internal/infra"
	"slotbooker/internal/pkg/clock"
	"slotbooker/internal/pkg/config"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/money"
	"slotbooker/internal/usecase/shared"
)

type BookSlotRequest struct {
	SlotID    uuid.UUID
	ClientID  uuid.UUID
	PromoCode string
}

type BookSlotResult struct {
	BookingID   uuid.UUID
	Status      string
	BaseAmount  money.Money
	Discount    money.Money
	TotalAmount money.Money
}

type BookingCommands interface {
	Book(ctx context.Context, req BookSlotRequest) (*BookSlotResult, error)
	Cancel(ctx context.Context, bookingID, actorID uuid.UUID, actorIsStaff bool) error
}

type bookingCommandsImpl struct {
	uow    shared.UnitOfWork
	engine *promo.Engine
	clock  clock.Clock
	cfg    config.BookingConfig
}

func NewBookingCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.BookingConfig) BookingCommands {
	return &bookingCommandsImpl{
		uow:    uow,
		engine: promo.NewEngine(),
		clock:  clk,
		cfg:    cfg,
	}
}

// Book claims one unit of slot capacity and records the booking, with an
// optional promo redemption, in a single transaction. The slot row is
// locked first so two concurrent calls against the last unit serialize;
// the promo row is locked before cap counting so a capped code cannot be
// oversubscribed by concurrent redemptions.
func (uc *bookingCommandsImpl) Book(ctx context.Context, req BookSlotRequest) (*BookSlotResult, error) {
	var result *BookSlotResult

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		lockedSlot, err := tx.Slots().FindByIDForUpdate(ctx, tx.DB(), req.SlotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrSlotNotFound)
			}
			return err
		}
		if !lockedSlot.IsBookable() {
			return errs.Mark(errs.New("slot not open or at capacity"), errs.ErrSlotNotAvailable)
		}

		priceList, err := tx.PriceLists().FindByID(ctx, tx.DB(), lockedSlot.PriceListID())
		if err != nil {
			return err
		}

		baseAmount := lockedSlot.Price()
		discount := money.Zero()
		var appliedPromo *promo.PromoCode

		if code := strings.TrimSpace(req.PromoCode); code != "" {
			appliedPromo, discount, err = uc.applyPromo(ctx, tx, code, promo.Context{
				Now:         uc.clock.Now(),
				PlatformID:  lockedSlot.PlatformID(),
				PriceListID: lockedSlot.PriceListID(),
				ClientID:    req.ClientID,
				OrderAmount: baseAmount,
				Currency:    priceList.Currency(),
			})
			if err != nil {
				return err
			}
		}

		if err := lockedSlot.Claim(); err != nil {
			return errs.Mark(err, errs.ErrSlotNotAvailable)
		}
		if err := tx.Slots().UpdateUsage(ctx, tx.DB(), lockedSlot); err != nil {
			return err
		}

		newBooking := booking.NewBooking(
			lockedSlot.PlatformID(),
			req.ClientID,
			lockedSlot.ID(),
			lockedSlot.StartsAt(),
			lockedSlot.EndsAt(),
			baseAmount,
			discount,
			strings.TrimSpace(req.PromoCode),
			uc.cfg.AutoConfirm,
		)
		if _, err := tx.Bookings().Create(ctx, tx.DB(), newBooking); err != nil {
			return err
		}

		if appliedPromo != nil {
			redemption := promo.NewRedemption(appliedPromo.ID(), req.ClientID, newBooking.ID(), discount, uc.clock.Now())
			if _, err := tx.Redemptions().Create(ctx, tx.DB(), redemption); err != nil {
				return err
			}
		}

		result = &BookSlotResult{
			BookingID:   newBooking.ID(),
			Status:      string(newBooking.Status()),
			BaseAmount:  newBooking.BaseAmount(),
			Discount:    newBooking.Discount(),
			TotalAmount: newBooking.TotalAmount(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *bookingCommandsImpl) applyPromo(
	ctx context.Context,
	tx shared.Tx,
	code string,
	promoCtx promo.Context,
) (*promo.PromoCode, money.Money, error) {
	locked, err := tx.Promos().FindByCodeForUpdate(ctx, tx.DB(), code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, money.Zero(), errs.Mark(err, errs.ErrPromoNotFound)
		}
		return nil, money.Zero(), err
	}

	promoCtx.GlobalUses, err = tx.Promos().CountActiveRedemptions(ctx, tx.DB(), locked.ID())
	if err != nil {
		return nil, money.Zero(), err
	}
	promoCtx.ClientUses, err = tx.Promos().CountActiveRedemptionsByClient(ctx, tx.DB(), locked.ID(), promoCtx.ClientID)
	if err != nil {
		return nil, money.Zero(), err
	}

	discount, err := uc.engine.Evaluate(locked, promoCtx)
	if err != nil {
		return nil, money.Zero(), err
	}
	return locked, discount, nil
}

// Cancel releases the booking's capacity claim and marks any redemption
// cancelled so it stops counting against usage caps. Staff can cancel any
// booking; clients only their own.
func (uc *bookingCommandsImpl) Cancel(ctx context.Context, bookingID, actorID uuid.UUID, actorIsStaff bool) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cancelled, err := tx.Bookings().FindByIDForUpdate(ctx, tx.DB(), bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return err
		}
		if !actorIsStaff && !cancelled.IsOwnedBy(actorID) {
			return errs.Mark(errs.New("actor does not own booking"), errs.ErrBookingForbidden)
		}

		if err := cancelled.Cancel(); err != nil {
			return err
		}
		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), cancelled); err != nil {
			return err
		}

		if slotID := cancelled.SlotID(); slotID != nil {
			lockedSlot, err := tx.Slots().FindByIDForUpdate(ctx, tx.DB(), *slotID)
			if err != nil {
				if !infra.IsKind(err, infra.KindNotFound) {
					return err
				}
				// Slot deleted since booking; nothing to release.
			} else {
				lockedSlot.Release()
				if err := tx.Slots().UpdateUsage(ctx, tx.DB(), lockedSlot); err != nil {
					return err
				}
			}
		}

		return tx.Redemptions().CancelByBookingID(ctx, tx.DB(), cancelled.ID())
	})
}
