package statistic

import (
	"context"
	"time"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/koinonia-app/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

type Leaderboard interface {
	GetLeaderboard(
		ctx context.Context, period entity.LeaderboardPeriodType, offset, limit int,
	) ([]model.LeaderboardRecord, error)

	GetRank(
		ctx context.Context, userID string, period entity.LeaderboardPeriodType,
	) (uint64, error)

	// ChangeCoinLeaderboard shifts a user's score on the week and month
	// boards covering reviewedAt. Only boards already cached in redis are
	// touched, cold ones are rebuilt from the ledger on first read.
	ChangeCoinLeaderboard(
		ctx context.Context, value int64, reviewedAt time.Time, userID string,
	) error
}

type leaderboard struct {
	coinTxRepo  repository.CoinTransactionRepository
	redisClient xredis.Client
}

func New(
	coinTxRepo repository.CoinTransactionRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{coinTxRepo: coinTxRepo, redisClient: redisClient}
}

func (l *leaderboard) GetLeaderboard(
	ctx context.Context, period entity.LeaderboardPeriodType, offset, limit int,
) ([]model.LeaderboardRecord, error) {
	key := redisKeyCoinLeaderboard(period)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return nil, errorx.Unknown
	}

	if !ok {
		if err := l.loadLeaderboardFromDB(ctx, period); err != nil {
			return nil, err
		}
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	records := []model.LeaderboardRecord{}
	for i, z := range results {
		records = append(records, model.LeaderboardRecord{
			User:  model.User{ID: z.Member.(string)},
			Coins: int64(z.Score),
			Rank:  offset + i + 1,
		})
	}

	return records, nil
}

func (l *leaderboard) GetRank(
	ctx context.Context, userID string, period entity.LeaderboardPeriodType,
) (uint64, error) {
	key := redisKeyCoinLeaderboard(period)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return 0, errorx.Unknown
	}

	if !ok {
		if err := l.loadLeaderboardFromDB(ctx, period); err != nil {
			return 0, err
		}
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		return 0, nil
	}

	return rank + 1, nil
}

func (l *leaderboard) ChangeCoinLeaderboard(
	ctx context.Context, value int64, reviewedAt time.Time, userID string,
) error {
	for _, periodString := range []string{"week", "month"} {
		period, err := ToPeriodWithTime(periodString, reviewedAt)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Invalid period: %v", err)
			return errorx.Unknown
		}

		if err := l.changeLeaderboard(ctx, value, userID, period); err != nil {
			return err
		}
	}

	return nil
}

func (l *leaderboard) changeLeaderboard(
	ctx context.Context, value int64, userID string, period entity.LeaderboardPeriodType,
) error {
	key := redisKeyCoinLeaderboard(period)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	// A cold board will be rebuilt from the ledger anyway.
	if !ok {
		return nil
	}

	if err := l.redisClient.ZIncrBy(ctx, key, value, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
	}

	return nil
}

func (l *leaderboard) loadLeaderboardFromDB(
	ctx context.Context, period entity.LeaderboardPeriodType,
) error {
	balances, err := l.coinTxRepo.SumApprovedByUser(ctx, period.Start(), leaderboardCapacity)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load leaderboard from database: %v", err)
		return errorx.Unknown
	}

	key := redisKeyCoinLeaderboard(period)
	for _, b := range balances {
		err := l.redisClient.ZAdd(ctx, key, redis.Z{Member: b.UserID, Score: float64(b.Coins)})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}

const leaderboardCapacity = 1000
