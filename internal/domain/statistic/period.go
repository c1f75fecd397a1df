package statistic

import (
	"fmt"
	"time"

	"github.com/koinonia-app/backend/internal/entity"
)

func ToPeriodWithTime(periodString string, current time.Time) (entity.LeaderboardPeriodType, error) {
	switch periodString {
	case "week":
		return entity.NewLeaderboardPeriodWeek(current), nil
	case "month":
		return entity.NewLeaderboardPeriodMonth(current), nil
	}

	return nil, fmt.Errorf("invalid period, expected week or month, but got %s", periodString)
}

func ToPeriod(periodString string) (entity.LeaderboardPeriodType, error) {
	return ToPeriodWithTime(periodString, time.Now())
}
