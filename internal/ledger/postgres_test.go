package ledger

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stigz/eigernordvan/internal/trip"
)

// openTestPostgres skips unless TEST_DATABASE_URL is set. Every test runs in a
// transaction that is rolled back.
func openTestPostgres(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()
	opened, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { opened.Close() })

	tx, err := opened.pool.Begin(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback(ctx) })

	return NewPostgresStore(tx)
}

func TestPostgresStore_AppendAndList(t *testing.T) {
	store := openTestPostgres(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	for i, user := range []string{"alex", "sam", "alex"} {
		require.NoError(t, store.Append(ctx, trip.Entry{
			ID:          uuid.NewString(),
			LoggedAt:    base.Add(time.Duration(i) * time.Minute),
			UserName:    user,
			StartKM:     100,
			EndKM:       154,
			DeltaKM:     54,
			TripCostCHF: 27,
			EventType:   trip.EventTypeManual,
		}))
	}

	all, err := store.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, base.Add(2*time.Minute), all[0].LoggedAt)
	assert.Equal(t, 27.0, all[0].TripCostCHF)

	sam, err := store.List(ctx, Query{UserName: "sam"})
	require.NoError(t, err)
	require.Len(t, sam, 1)
	assert.Equal(t, "sam", sam[0].UserName)

	limited, err := store.List(ctx, Query{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestPostgresStore_RejectsDuplicateID(t *testing.T) {
	store := openTestPostgres(t)
	ctx := context.Background()
	entry := trip.Entry{ID: uuid.NewString(), LoggedAt: time.Now().UTC(), UserName: "alex", EventType: trip.EventTypeManual}

	require.NoError(t, store.Append(ctx, entry))
	assert.Error(t, store.Append(ctx, entry))
}
