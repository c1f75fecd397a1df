package reward

import (
	"testing"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/internal/testutil"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_Engine_Issue_paysAtMostOnce(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	coinTxRepo := repository.NewCoinTransactionRepository()
	engine := NewEngine(coinTxRepo, repository.NewNotificationRepository())

	input := IssueInput{
		UserID:     testutil.User1.ID,
		SourceType: entity.SourceTask,
		SourceID:   "assignment1",
		Amount:     10,
		Reason:     "Completed a task",
	}

	issued, err := engine.Issue(ctx, input)
	require.NoError(t, err)
	require.EqualValues(t, 10, issued)

	// The same source again must not create a second ledger entry.
	issued, err = engine.Issue(ctx, input)
	require.NoError(t, err)
	require.EqualValues(t, 0, issued)

	txs, err := coinTxRepo.GetListByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, entity.TransactionPending, txs[0].Status)
	require.EqualValues(t, 10, txs[0].CoinAmount)

	// The same source for another user is a distinct reward.
	input.UserID = testutil.User2.ID
	issued, err = engine.Issue(ctx, input)
	require.NoError(t, err)
	require.EqualValues(t, 10, issued)
}

func Test_Engine_Issue_ignoresEmptyRewards(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	coinTxRepo := repository.NewCoinTransactionRepository()
	engine := NewEngine(coinTxRepo, repository.NewNotificationRepository())

	for _, input := range []IssueInput{
		{UserID: testutil.User1.ID, SourceType: entity.SourceTask, SourceID: "a1", Amount: 0},
		{UserID: testutil.User1.ID, SourceType: entity.SourceTask, SourceID: "a2", Amount: -5},
		{UserID: "", SourceType: entity.SourceTask, SourceID: "a3", Amount: 10},
		{UserID: testutil.User1.ID, SourceType: entity.SourceTask, SourceID: "", Amount: 10},
	} {
		issued, err := engine.Issue(ctx, input)
		require.NoError(t, err)
		require.EqualValues(t, 0, issued)
	}

	txs, err := coinTxRepo.GetListByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Empty(t, txs)
}

func Test_Engine_Issue_notification(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	notificationRepo := repository.NewNotificationRepository()
	engine := NewEngine(repository.NewCoinTransactionRepository(), notificationRepo)

	_, err := engine.Issue(ctx, IssueInput{
		UserID:     testutil.User1.ID,
		SourceType: entity.SourceTask,
		SourceID:   "assignment1",
		Amount:     10,
		Reason:     "Completed a task",
	})
	require.NoError(t, err)

	_, err = engine.Issue(ctx, IssueInput{
		UserID:               testutil.User1.ID,
		SourceType:           entity.SourceQuiz,
		SourceID:             "quiz1",
		Amount:               20,
		SuppressNotification: true,
	})
	require.NoError(t, err)

	notifications, err := notificationRepo.GetListByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, entity.NotificationReward, notifications[0].Type)
	require.Equal(t, "Completed a task", notifications[0].Message)
}

func Test_Engine_Issue_criticality(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	engine := NewEngine(repository.NewCoinTransactionRepository(), repository.NewNotificationRepository())

	// Break the ledger so both paths hit a real database error.
	require.NoError(t, xcontext.DB(ctx).Migrator().DropTable(&entity.CoinTransaction{}))

	input := IssueInput{
		UserID:     testutil.User1.ID,
		SourceType: entity.SourceTask,
		SourceID:   "assignment1",
		Amount:     10,
	}

	input.Criticality = Critical
	_, err := engine.Issue(ctx, input)
	require.Error(t, err)

	input.Criticality = BestEffort
	issued, err := engine.Issue(ctx, input)
	require.NoError(t, err)
	require.EqualValues(t, 0, issued)
}
