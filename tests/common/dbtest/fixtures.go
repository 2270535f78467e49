//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Fixed IDs so fixtures can be reseeded idempotently. The platform and
// price list pair is the reference data every suite builds on.
var (
	DefaultPlatformID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	DefaultPriceListID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

// bcrypt hash of "password123"
const TestPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestClient(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	clientID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO clients (id, name, email, password_hash, role, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		clientID, "Test Client", email, TestPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM clients WHERE email = $1", email).Scan(&clientID)
	}

	return clientID
}

func CreateTestRule(t *testing.T, db DBLike, priceListID uuid.UUID, weekday *int, startsMin, endsMin int, price string, capacity int) uuid.UUID {
	t.Helper()

	ruleID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO price_list_rules (id, price_list_id, weekday, starts_at_min, ends_at_min, slot_price, capacity, is_active) VALUES ($1, $2, $3, $4, $5, $6, $7, true)",
		ruleID, priceListID, weekday, startsMin, endsMin, price, capacity)
	require.NoError(t, err)

	return ruleID
}

func CreateTestPromo(t *testing.T, db DBLike, code, discountType, discountValue string, stackable bool) uuid.UUID {
	t.Helper()

	promoID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO promo_codes (id, code, discount_type, discount_value, applies_to, is_stackable, is_active) VALUES ($1, $2, $3, $4, 'global', $5, true) ON CONFLICT (code) DO NOTHING",
		promoID, code, discountType, discountValue, stackable)
	require.NoError(t, err)

	return promoID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO platforms (id, name, type, currency, timezone) VALUES
		    ($1, 'Default Platform', 'sports_facility', 'EUR', 'UTC')
		ON CONFLICT (id) DO NOTHING;
	`, DefaultPlatformID)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO price_lists (id, platform_id, name, currency, timezone, default_slot_duration) VALUES
		    ($1, $2, 'Standard Rates', 'EUR', 'UTC', 60)
		ON CONFLICT (id) DO NOTHING;
	`, DefaultPriceListID, DefaultPlatformID)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
