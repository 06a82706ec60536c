package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stigz/eigernordvan/internal/trip"
)

func seed(t *testing.T, s Store, users ...string) {
	t.Helper()
	for i, u := range users {
		require.NoError(t, s.Append(context.Background(), trip.Entry{ID: fmt.Sprintf("e%d", i), UserName: u}))
	}
}

func ids(entries []trip.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	seed(t, store, "alex", "sam", "alex", "sam", "alex")

	all, err := store.List(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e3", "e2", "e1", "e0"}, ids(all))

	alex, err := store.List(context.Background(), Query{UserName: "alex", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e2"}, ids(alex))

	nobody, err := store.List(context.Background(), Query{UserName: "kim"})
	require.NoError(t, err)
	assert.Empty(t, nobody)
}

func TestMemoryStore_AppendOnly(t *testing.T) {
	store := NewMemoryStore()
	seed(t, store, "alex")

	listed, err := store.List(context.Background(), Query{})
	require.NoError(t, err)
	listed[0].UserName = "mallory"

	again, err := store.List(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, "alex", again[0].UserName, "listed entries must be copies")
}

func TestMemoryStore_ConcurrentAppend(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Append(context.Background(), trip.Entry{ID: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Append(ctx, trip.Entry{}), context.Canceled)
	assert.Zero(t, store.Len())
}
