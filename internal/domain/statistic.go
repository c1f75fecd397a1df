package domain

import (
	"context"

	"github.com/koinonia-app/backend/internal/domain/statistic"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
)

type StatisticDomain interface {
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
}

type statisticDomain struct {
	leaderboard statistic.Leaderboard
	userRepo    repository.UserRepository
}

func NewStatisticDomain(
	leaderboard statistic.Leaderboard,
	userRepo repository.UserRepository,
) *statisticDomain {
	return &statisticDomain{leaderboard: leaderboard, userRepo: userRepo}
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	period, err := statistic.ToPeriod(req.Period)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period, expected week or month")
	}

	records, err := d.leaderboard.GetLeaderboard(ctx, period, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(records))
	for _, r := range records {
		userIDs = append(userIDs, r.User.ID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard users: %v", err)
		return nil, errorx.Unknown
	}

	usersByID := map[string]model.User{}
	for _, u := range users {
		usersByID[u.ID] = model.ConvertUser(&u, false)
	}

	for i := range records {
		if u, ok := usersByID[records[i].User.ID]; ok {
			records[i].User = u
		}
	}

	resp := &model.GetLeaderboardResponse{Records: records}

	userID := xcontext.RequestUserID(ctx)
	if userID != "" {
		rank, err := d.leaderboard.GetRank(ctx, userID, period)
		if err != nil {
			return nil, err
		}

		resp.MyRank = int(rank)
	}

	return resp, nil
}
