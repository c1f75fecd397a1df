package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/koinonia-app/backend/internal/common"
	"github.com/koinonia-app/backend/internal/domain/statistic"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RewardDomain interface {
	GetMyTransactions(context.Context, *model.GetMyTransactionsRequest) (*model.GetMyTransactionsResponse, error)
	GetMyBalance(context.Context, *model.GetMyBalanceRequest) (*model.GetMyBalanceResponse, error)
	GetPendingTransactions(context.Context, *model.GetPendingTransactionsRequest) (*model.GetPendingTransactionsResponse, error)
	Review(context.Context, *model.ReviewTransactionsRequest) (*model.ReviewTransactionsResponse, error)
	Adjust(context.Context, *model.AdjustCoinsRequest) (*model.AdjustCoinsResponse, error)
}

type rewardDomain struct {
	coinTxRepo   repository.CoinTransactionRepository
	userRepo     repository.UserRepository
	leaderboard  statistic.Leaderboard
	roleVerifier *common.GlobalRoleVerifier
}

func NewRewardDomain(
	coinTxRepo repository.CoinTransactionRepository,
	userRepo repository.UserRepository,
	leaderboard statistic.Leaderboard,
) *rewardDomain {
	return &rewardDomain{
		coinTxRepo:   coinTxRepo,
		userRepo:     userRepo,
		leaderboard:  leaderboard,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *rewardDomain) GetMyTransactions(
	ctx context.Context, req *model.GetMyTransactionsRequest,
) (*model.GetMyTransactionsResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	txs, err := d.coinTxRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx), req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get coin transactions: %v", err)
		return nil, errorx.Unknown
	}

	clientTxs := []model.CoinTransaction{}
	for _, tx := range txs {
		clientTxs = append(clientTxs, model.ConvertCoinTransaction(&tx))
	}

	return &model.GetMyTransactionsResponse{Transactions: clientTxs}, nil
}

func (d *rewardDomain) GetMyBalance(
	ctx context.Context, req *model.GetMyBalanceRequest,
) (*model.GetMyBalanceResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMyBalanceResponse{Coins: user.Coins}, nil
}

func (d *rewardDomain) GetPendingTransactions(
	ctx context.Context, req *model.GetPendingTransactionsRequest,
) (*model.GetPendingTransactionsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when listing pending rewards: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	txs, err := d.coinTxRepo.GetListByStatus(ctx, entity.TransactionPending, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending transactions: %v", err)
		return nil, errorx.Unknown
	}

	clientTxs := []model.CoinTransaction{}
	for _, tx := range txs {
		clientTxs = append(clientTxs, model.ConvertCoinTransaction(&tx))
	}

	return &model.GetPendingTransactionsResponse{Transactions: clientTxs}, nil
}

// Review settles pending transactions. Approval credits the settled balance
// and shifts the leaderboard, rejection only flips the status. A transaction
// that is no longer pending is skipped, the review is not applied twice.
func (d *rewardDomain) Review(
	ctx context.Context, req *model.ReviewTransactionsRequest,
) (*model.ReviewTransactionsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when reviewing rewards: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if len(req.IDs) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty id list")
	}

	var status entity.CoinTransactionStatus
	switch req.Action {
	case "approve":
		status = entity.TransactionApproved
	case "reject":
		status = entity.TransactionRejected
	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid action %s", req.Action)
	}

	reviewerID := xcontext.RequestUserID(ctx)
	reviewedAt := time.Now()

	var reviewed int64
	for _, id := range req.IDs {
		tx, err := d.coinTxRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found transaction %s", id)
			}

			xcontext.Logger(ctx).Errorf("Cannot get transaction: %v", err)
			return nil, errorx.Unknown
		}

		ctx := xcontext.WithDBTransaction(ctx)

		n, err := d.coinTxRepo.UpdateReviewByIDs(ctx, []string{id}, reviewerID, status)
		if err != nil {
			xcontext.WithRollbackDBTransaction(ctx)
			xcontext.Logger(ctx).Errorf("Cannot update transaction status: %v", err)
			return nil, errorx.Unknown
		}

		if n == 0 {
			xcontext.WithRollbackDBTransaction(ctx)
			continue
		}

		if status == entity.TransactionApproved {
			if err := d.userRepo.IncreaseCoins(ctx, tx.UserID, tx.CoinAmount); err != nil {
				xcontext.WithRollbackDBTransaction(ctx)
				xcontext.Logger(ctx).Errorf("Cannot credit coins: %v", err)
				return nil, errorx.Unknown
			}
		}

		xcontext.WithCommitDBTransaction(ctx)
		reviewed++

		if status == entity.TransactionApproved {
			err := d.leaderboard.ChangeCoinLeaderboard(ctx, tx.CoinAmount, reviewedAt, tx.UserID)
			if err != nil {
				// The board is a cache over the ledger, it heals on the next
				// cold load.
				xcontext.Logger(ctx).Errorf("Cannot update leaderboard: %v", err)
			}
		}
	}

	return &model.ReviewTransactionsResponse{Reviewed: reviewed}, nil
}

// Adjust records a manual correction. It enters the ledger already approved
// and settles immediately.
func (d *rewardDomain) Adjust(
	ctx context.Context, req *model.AdjustCoinsRequest,
) (*model.AdjustCoinsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when adjusting coins: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.CoinAmount == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a zero adjustment")
	}

	if req.Reason == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a reason")
	}

	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	reviewerID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	inserted, err := d.coinTxRepo.CreateIfNotExist(ctx, &entity.CoinTransaction{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     req.UserID,
		SourceType: entity.SourceAdminAdjustment,
		SourceID:   uuid.NewString(),
		CoinAmount: req.CoinAmount,
		Status:     entity.TransactionApproved,
		Reason:     req.Reason,
		ReviewerID: reviewerID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create adjustment: %v", err)
		return nil, errorx.Unknown
	}

	if !inserted {
		return nil, errorx.New(errorx.AlreadyExists, "Duplicated adjustment")
	}

	if err := d.userRepo.IncreaseCoins(ctx, req.UserID, req.CoinAmount); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply adjustment: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	err = d.leaderboard.ChangeCoinLeaderboard(ctx, req.CoinAmount, time.Now(), req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update leaderboard: %v", err)
	}

	return &model.AdjustCoinsResponse{}, nil
}
