package statistic

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

func Test_leaderboard_coldLoadFromLedger(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	coinTxRepo := repository.NewCoinTransactionRepository()
	board := New(coinTxRepo, testutil.NewMockRedisClient())

	for _, tx := range []struct {
		userID string
		amount int64
	}{
		{testutil.User1.ID, 30},
		{testutil.User2.ID, 50},
	} {
		inserted, err := coinTxRepo.CreateIfNotExist(ctx, &entity.CoinTransaction{
			Base:       entity.Base{ID: uuid.NewString()},
			UserID:     tx.userID,
			SourceType: entity.SourceTask,
			SourceID:   uuid.NewString(),
			CoinAmount: tx.amount,
			Status:     entity.TransactionApproved,
		})
		require.NoError(t, err)
		require.True(t, inserted)
	}

	// A pending transaction never reaches the board.
	_, err := coinTxRepo.CreateIfNotExist(ctx, &entity.CoinTransaction{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     testutil.User1.ID,
		SourceType: entity.SourceTask,
		SourceID:   uuid.NewString(),
		CoinAmount: 1000,
		Status:     entity.TransactionPending,
	})
	require.NoError(t, err)

	period, err := ToPeriodWithTime("week", time.Now())
	require.NoError(t, err)

	records, err := board.GetLeaderboard(ctx, period, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, testutil.User2.ID, records[0].User.ID)
	require.EqualValues(t, 50, records[0].Coins)
	require.Equal(t, 1, records[0].Rank)
	require.Equal(t, testutil.User1.ID, records[1].User.ID)
	require.Equal(t, 2, records[1].Rank)

	rank, err := board.GetRank(ctx, testutil.User1.ID, period)
	require.NoError(t, err)
	require.EqualValues(t, 2, rank)

	// An unknown member has no rank.
	rank, err = board.GetRank(ctx, "stranger", period)
	require.NoError(t, err)
	require.EqualValues(t, 0, rank)
}

func Test_leaderboard_changeShiftsWarmBoards(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	coinTxRepo := repository.NewCoinTransactionRepository()
	board := New(coinTxRepo, testutil.NewMockRedisClient())

	period, err := ToPeriodWithTime("week", time.Now())
	require.NoError(t, err)

	// A change before any read is dropped, the cold board is rebuilt from the
	// ledger on first load instead.
	require.NoError(t, board.ChangeCoinLeaderboard(ctx, 999, time.Now(), testutil.User1.ID))

	inserted, err := coinTxRepo.CreateIfNotExist(ctx, &entity.CoinTransaction{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     testutil.User1.ID,
		SourceType: entity.SourceTask,
		SourceID:   uuid.NewString(),
		CoinAmount: 10,
		Status:     entity.TransactionApproved,
	})
	require.NoError(t, err)
	require.True(t, inserted)

	records, err := board.GetLeaderboard(ctx, period, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.EqualValues(t, 10, records[0].Coins)

	// The board is warm now, changes land on it.
	require.NoError(t, board.ChangeCoinLeaderboard(ctx, 10, time.Now(), testutil.User1.ID))
	require.NoError(t, board.ChangeCoinLeaderboard(ctx, 25, time.Now(), testutil.User2.ID))

	records, err = board.GetLeaderboard(ctx, period, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, testutil.User2.ID, records[0].User.ID)
	require.EqualValues(t, 25, records[0].Coins)
	require.Equal(t, testutil.User1.ID, records[1].User.ID)
	require.EqualValues(t, 20, records[1].Coins)
}
