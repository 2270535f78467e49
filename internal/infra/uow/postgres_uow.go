package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"slotbooker/internal/infra"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/infra/repository"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/money"
	"slotbooker/internal/pkg/pgconv"
	"slotbooker/internal/usecase/shared"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{
		pool: pool,
	}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{
			dbtx: pgxTx,
		}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}

	return pgxTx.Commit(ctx)
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	priceListRepo  shared.PriceListRepository
	slotRepo       shared.SlotRepository
	bookingRepo    shared.BookingRepository
	promoRepo      shared.PromoRepository
	redemptionRepo shared.RedemptionRepository
	clientRepo     shared.ClientRepository
	commandReads   shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) PriceLists() shared.PriceListRepository {
	if t.priceListRepo == nil {
		t.priceListRepo = repository.NewPriceListRepository()
	}
	return t.priceListRepo
}

func (t *pgTx) Slots() shared.SlotRepository {
	if t.slotRepo == nil {
		t.slotRepo = repository.NewSlotRepository()
	}
	return t.slotRepo
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository()
	}
	return t.bookingRepo
}

func (t *pgTx) Promos() shared.PromoRepository {
	if t.promoRepo == nil {
		t.promoRepo = repository.NewPromoRepository()
	}
	return t.promoRepo
}

func (t *pgTx) Redemptions() shared.RedemptionRepository {
	if t.redemptionRepo == nil {
		t.redemptionRepo = repository.NewRedemptionRepository()
	}
	return t.redemptionRepo
}

func (t *pgTx) Clients() shared.ClientRepository {
	if t.clientRepo == nil {
		t.clientRepo = repository.NewClientRepository()
	}
	return t.clientRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX
}

const priceListSnapshotSQL = `
SELECT id, platform_id, name, currency, timezone, valid_from, valid_to, default_slot_duration, is_active
FROM price_lists
WHERE id = $1`

func (r *commandReads) PriceListByID(ctx context.Context, id uuid.UUID) (*shared.PriceListSnapshot, error) {
	var (
		snap      shared.PriceListSnapshot
		validFrom pgtype.Timestamptz
		validTo   pgtype.Timestamptz
	)
	err := r.dbtx.QueryRow(ctx, priceListSnapshotSQL, id).Scan(
		&snap.ID, &snap.PlatformID, &snap.Name, &snap.Currency, &snap.Timezone,
		&validFrom, &validTo, &snap.DefaultSlotDuration, &snap.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("price list not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read price list snapshot", err)
	}
	snap.ValidFrom = pgconv.TimePtrFromPgtype(validFrom)
	snap.ValidTo = pgconv.TimePtrFromPgtype(validTo)
	return &snap, nil
}

const slotSnapshotSQL = `
SELECT id, platform_id, price_list_id, starts_at, ends_at, price, capacity, used_capacity, status
FROM slots
WHERE id = $1`

func (r *commandReads) SlotByID(ctx context.Context, id uuid.UUID) (*shared.SlotSnapshot, error) {
	var (
		snap  shared.SlotSnapshot
		price pgtype.Numeric
	)
	err := r.dbtx.QueryRow(ctx, slotSnapshotSQL, id).Scan(
		&snap.ID, &snap.PlatformID, &snap.PriceListID, &snap.StartsAt, &snap.EndsAt,
		&price, &snap.Capacity, &snap.UsedCapacity, &snap.Status,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read slot snapshot", err)
	}
	priceDec, err := pgconv.DecimalFromNumeric(price)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid slot price", err)
	}
	snap.Price = money.FromDecimal(priceDec)
	return &snap, nil
}

const bookingSnapshotSQL = `
SELECT id, platform_id, client_id, slot_id, starts_at, ends_at, status
FROM bookings
WHERE id = $1`

func (r *commandReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var (
		snap   shared.BookingSnapshot
		slotID pgtype.UUID
	)
	err := r.dbtx.QueryRow(ctx, bookingSnapshotSQL, id).Scan(
		&snap.ID, &snap.PlatformID, &snap.ClientID, &slotID, &snap.StartsAt, &snap.EndsAt, &snap.Status,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read booking snapshot", err)
	}
	snap.SlotID = pgconv.UUIDPtrFromPgtype(slotID)
	return &snap, nil
}

const promoSnapshotSQL = `
SELECT id, code, is_active, applies_to, platform_id, price_list_id
FROM promo_codes
WHERE code = $1`

func (r *commandReads) PromoByCode(ctx context.Context, code string) (*shared.PromoSnapshot, error) {
	var (
		snap        shared.PromoSnapshot
		platformID  pgtype.UUID
		priceListID pgtype.UUID
	)
	err := r.dbtx.QueryRow(ctx, promoSnapshotSQL, code).Scan(
		&snap.ID, &snap.Code, &snap.IsActive, &snap.AppliesTo, &platformID, &priceListID,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("promo code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read promo snapshot", err)
	}
	snap.PlatformID = pgconv.UUIDPtrFromPgtype(platformID)
	snap.PriceListID = pgconv.UUIDPtrFromPgtype(priceListID)
	return &snap, nil
}

const clientSnapshotSQL = `
SELECT id, email, password_hash, role, is_active
FROM clients
WHERE email = $1`

func (r *commandReads) ClientByEmail(ctx context.Context, email string) (*shared.ClientSnapshot, error) {
	var snap shared.ClientSnapshot
	err := r.dbtx.QueryRow(ctx, clientSnapshotSQL, email).Scan(
		&snap.ID, &snap.Email, &snap.PasswordHash, &snap.Role, &snap.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("client not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read client snapshot", err)
	}
	return &snap, nil
}
