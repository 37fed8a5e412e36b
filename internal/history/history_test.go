package history

import (
	"context"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	store, err := Open(filepath.Join(t.TempDir(), "data", "history.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	id, err := store.Add(ctx, &Record{
		JobID:        "job-1",
		ClassHash:    "0x01",
		ContractName: "Counter",
		Network:      "sepolia",
		License:      "MIT",
		Status:       "Submitted",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := store.GetByJobID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Counter", got.ContractName)
	assert.Equal(t, "sepolia", got.Network)
	assert.Equal(t, "MIT", got.License)
	assert.Equal(t, "Submitted", got.Status)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetByJobIDNotFound(t *testing.T) {
	store := openStore(t)

	_, err := store.GetByJobID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, &Record{JobID: "job-1", ClassHash: "0x01", ContractName: "Counter", Network: "sepolia"})
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, "job-1", "Success"))

	got, err := store.GetByJobID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Success", got.Status)
}

func TestUpdateStatusNotFound(t *testing.T) {
	store := openStore(t)
	err := store.UpdateStatus(context.Background(), "missing", "Success")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, jobID := range []string{"job-1", "job-2", "job-3"} {
		_, err := store.Add(ctx, &Record{JobID: jobID, ClassHash: "0x01", ContractName: "Counter", Network: "sepolia"})
		require.NoError(t, err)
	}

	records, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	all, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDuplicateJobIDRejected(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, &Record{JobID: "job-1", ClassHash: "0x01", ContractName: "Counter", Network: "sepolia"})
	require.NoError(t, err)

	_, err = store.Add(ctx, &Record{JobID: "job-1", ClassHash: "0x02", ContractName: "Other", Network: "mainnet"})
	assert.Error(t, err)
}
