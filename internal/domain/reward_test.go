package domain

import (
	"testing"

	"github.com/koinonia-app/backend/internal/domain/reward"
	"github.com/koinonia-app/backend/internal/domain/statistic"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/internal/testutil"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/stretchr/testify/require"
)

func newTestRewardDomain() *rewardDomain {
	coinTxRepo := repository.NewCoinTransactionRepository()
	return NewRewardDomain(
		coinTxRepo,
		repository.NewUserRepository(),
		statistic.New(coinTxRepo, testutil.NewMockRedisClient()),
	)
}

func Test_rewardDomain_Review_approve(t *testing.T) {
	domain := newTestRewardDomain()

	ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx, t)

	coinTxRepo := repository.NewCoinTransactionRepository()
	engine := reward.NewEngine(coinTxRepo, repository.NewNotificationRepository())

	issued, err := engine.Issue(ctx, reward.IssueInput{
		UserID:     testutil.User1.ID,
		SourceType: entity.SourceTask,
		SourceID:   "assignment1",
		Amount:     10,
	})
	require.NoError(t, err)
	require.EqualValues(t, 10, issued)

	pending, err := coinTxRepo.GetListByStatus(ctx, entity.TransactionPending, 0, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	resp, err := domain.Review(ctx, &model.ReviewTransactionsRequest{
		IDs:    []string{pending[0].ID},
		Action: "approve",
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Reviewed)

	// Approval settles the balance.
	userRepo := repository.NewUserRepository()
	user, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 10, user.Coins)

	settled, err := coinTxRepo.GetByID(ctx, pending[0].ID)
	require.NoError(t, err)
	require.Equal(t, entity.TransactionApproved, settled.Status)
	require.Equal(t, testutil.Admin.ID, settled.ReviewerID)

	// Reviewing the same transaction again is a no-op, the coins are not
	// credited twice.
	resp, err = domain.Review(ctx, &model.ReviewTransactionsRequest{
		IDs:    []string{pending[0].ID},
		Action: "approve",
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, resp.Reviewed)

	user, err = userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 10, user.Coins)
}

func Test_rewardDomain_Review_reject(t *testing.T) {
	domain := newTestRewardDomain()

	ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx, t)

	coinTxRepo := repository.NewCoinTransactionRepository()
	engine := reward.NewEngine(coinTxRepo, repository.NewNotificationRepository())

	_, err := engine.Issue(ctx, reward.IssueInput{
		UserID:     testutil.User1.ID,
		SourceType: entity.SourceTask,
		SourceID:   "assignment1",
		Amount:     10,
	})
	require.NoError(t, err)

	pending, err := coinTxRepo.GetListByStatus(ctx, entity.TransactionPending, 0, 10)
	require.NoError(t, err)

	resp, err := domain.Review(ctx, &model.ReviewTransactionsRequest{
		IDs:    []string{pending[0].ID},
		Action: "reject",
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Reviewed)

	// Rejection never touches the balance.
	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, user.Coins)
}

func Test_rewardDomain_Review_permissions(t *testing.T) {
	domain := newTestRewardDomain()

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	_, err := domain.Review(ctx, &model.ReviewTransactionsRequest{
		IDs:    []string{"any"},
		Action: "approve",
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)

	adminCtx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
	testutil.CreateFixtureDb(adminCtx, t)

	_, err = domain.Review(adminCtx, &model.ReviewTransactionsRequest{
		IDs:    []string{"any"},
		Action: "invalid",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid action invalid"), err)
}

func Test_rewardDomain_Adjust(t *testing.T) {
	domain := newTestRewardDomain()

	ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx, t)

	_, err := domain.Adjust(ctx, &model.AdjustCoinsRequest{
		UserID:     testutil.User1.ID,
		CoinAmount: 25,
		Reason:     "Helped set up chairs",
	})
	require.NoError(t, err)

	// A deduction is a negative adjustment.
	_, err = domain.Adjust(ctx, &model.AdjustCoinsRequest{
		UserID:     testutil.User1.ID,
		CoinAmount: -10,
		Reason:     "Correction of a double credit",
	})
	require.NoError(t, err)

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 15, user.Coins)

	_, err = domain.Adjust(ctx, &model.AdjustCoinsRequest{
		UserID: testutil.User1.ID,
		Reason: "No coins at all",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow a zero adjustment"), err)

	_, err = domain.Adjust(ctx, &model.AdjustCoinsRequest{
		UserID:     testutil.User1.ID,
		CoinAmount: 5,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Require a reason"), err)
}
