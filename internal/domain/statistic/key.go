package statistic

import (
	"fmt"

	"github.com/koinonia-app/backend/internal/entity"
)

func redisKeyCoinLeaderboard(period entity.LeaderboardPeriodType) string {
	return fmt.Sprintf("leaderboard:coins:%s", period.Period())
}
