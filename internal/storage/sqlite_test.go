package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/ecocycle/internal/common"
	"github.com/verdantlabs/ecocycle/internal/model"
	"github.com/verdantlabs/ecocycle/internal/rewards"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(":memory:", rewards.New(rewards.DefaultConfig()))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestLogWaste(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	t.Run("assigns monotonic IDs and credits balance", func(t *testing.T) {
		first, points, err := store.LogWaste(ctx, "alice", model.CategoryRecyclables, model.MethodRecycling, 1.0)
		require.NoError(t, err)
		// 10 base * 1.5 recycling * 1.0 kg
		assert.Equal(t, int64(15), points)

		second, _, err := store.LogWaste(ctx, "alice", model.CategoryCompostables, model.MethodComposting, 2.0)
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)

		balance, err := store.GetBalance(ctx, "alice")
		require.NoError(t, err)
		// 15 + floor(8 * 1.3 * 2.0) = 15 + 20
		assert.Equal(t, int64(35), balance)
	})

	t.Run("rejects invalid input before writing", func(t *testing.T) {
		_, _, err := store.LogWaste(ctx, "", model.CategoryRecyclables, model.MethodRecycling, 1.0)
		assert.ErrorIs(t, err, ErrEmptyString)

		_, _, err = store.LogWaste(ctx, "bob", model.WasteCategory("junk"), model.MethodRecycling, 1.0)
		assert.ErrorIs(t, err, ErrInvalidCategory)

		_, _, err = store.LogWaste(ctx, "bob", model.CategoryRecyclables, model.DisposalMethod("burn"), 1.0)
		assert.ErrorIs(t, err, ErrInvalidMethod)

		_, _, err = store.LogWaste(ctx, "bob", model.CategoryRecyclables, model.MethodRecycling, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		balance, err := store.GetBalance(ctx, "bob")
		require.NoError(t, err)
		assert.Zero(t, balance, "rejected entries must not credit points")
	})
}

func TestGetLogs(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, _, err := store.LogWaste(ctx, "alice", model.CategoryRecyclables, model.MethodRecycling, 1.0)
	require.NoError(t, err)
	_, _, err = store.LogWaste(ctx, "alice", model.CategoryElectronics, model.MethodRecycling, 0.5)
	require.NoError(t, err)
	_, _, err = store.LogWaste(ctx, "bob", model.CategoryGeneralWaste, model.MethodLandfill, 3.0)
	require.NoError(t, err)

	logs, err := store.GetLogs(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	// Most recent first; same-timestamp entries fall back to ID order.
	assert.Equal(t, model.CategoryElectronics, logs[0].Category)
	for _, log := range logs {
		assert.Equal(t, "alice", log.Owner)
		assert.False(t, log.Timestamp.IsZero())
	}

	logs, err = store.GetLogs(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestGetBalanceUnknownUser(t *testing.T) {
	store := setupStore(t)

	balance, err := store.GetBalance(context.Background(), "stranger")
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestGetLeaderboardRows(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, _, err := store.LogWaste(ctx, "alice", model.CategoryRecyclables, model.MethodRecycling, 1.0)
	require.NoError(t, err)
	_, _, err = store.LogWaste(ctx, "alice", model.CategoryRecyclables, model.MethodRecycling, 1.0)
	require.NoError(t, err)
	_, _, err = store.LogWaste(ctx, "bob", model.CategoryGeneralWaste, model.MethodLandfill, 2.0)
	require.NoError(t, err)

	entries, err := store.GetLeaderboardRows(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byUser := make(map[string]model.LeaderboardEntry, len(entries))
	for _, entry := range entries {
		byUser[entry.User] = entry
	}
	assert.Equal(t, int64(30), byUser["alice"].Points)
	assert.Equal(t, int64(2), byUser["alice"].WasteLogged)
	assert.Equal(t, int64(10), byUser["bob"].Points)
	assert.Equal(t, int64(1), byUser["bob"].WasteLogged)
}

func TestProfiles(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.GetProfile(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.SaveProfile(ctx, &model.UserProfile{Principal: "alice", Name: "Alice"}))

	profile, err := store.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)
	assert.False(t, profile.CreatedAt.IsZero())

	// Upsert replaces the name, keeps the principal.
	require.NoError(t, store.SaveProfile(ctx, &model.UserProfile{Principal: "alice", Name: "Alicia"}))

	profile, err = store.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", profile.Name)
}

func TestCredentials(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.GetCredential(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.SetCredential(ctx, "alice", "key-1"))

	key, err := store.GetCredential(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "key-1", key)

	require.NoError(t, store.SetCredential(ctx, "alice", "key-2"))
	key, err = store.GetCredential(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "key-2", key)

	require.NoError(t, store.RemoveCredential(ctx, "alice"))
	_, err = store.GetCredential(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Removing again is a no-op.
	require.NoError(t, store.RemoveCredential(ctx, "alice"))
}

func TestCreateRedemption(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, _, err := store.LogWaste(ctx, "alice", model.CategoryElectronics, model.MethodRecycling, 1.0)
	require.NoError(t, err) // 20 * 1.5 = 30 points

	t.Run("debits balance and records request", func(t *testing.T) {
		req := &model.RedemptionRequest{
			Owner:        "alice",
			Amount:       20,
			CryptoType:   "ICP",
			ExchangeRate: 0.001,
		}
		require.NoError(t, store.CreateRedemption(ctx, req))
		assert.NotZero(t, req.ID)
		assert.Equal(t, model.RedemptionPending, req.Status)
		assert.False(t, req.CreatedAt.IsZero())

		balance, err := store.GetBalance(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(10), balance)
	})

	t.Run("insufficient balance leaves no trace", func(t *testing.T) {
		req := &model.RedemptionRequest{
			Owner:        "alice",
			Amount:       1000,
			CryptoType:   "ICP",
			ExchangeRate: 0.001,
		}
		err := store.CreateRedemption(ctx, req)
		assert.ErrorIs(t, err, common.ErrInsufficientBalance)

		balance, err := store.GetBalance(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(10), balance)

		requests, err := store.GetRedemptions(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, requests, 1)
	})

	t.Run("unknown user has zero balance", func(t *testing.T) {
		req := &model.RedemptionRequest{
			Owner:        "stranger",
			Amount:       1,
			CryptoType:   "ICP",
			ExchangeRate: 0.001,
		}
		assert.ErrorIs(t, store.CreateRedemption(ctx, req), common.ErrInsufficientBalance)
	})

	t.Run("rejects malformed requests", func(t *testing.T) {
		err := store.CreateRedemption(ctx, &model.RedemptionRequest{Owner: "alice", Amount: 0, CryptoType: "ICP", ExchangeRate: 1})
		assert.ErrorIs(t, err, ErrInvalidRedemption)

		err = store.CreateRedemption(ctx, nil)
		assert.ErrorIs(t, err, ErrNilParameter)
	})
}
