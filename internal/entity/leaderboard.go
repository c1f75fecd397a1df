package entity

import (
	"fmt"
	"time"

	"github.com/koinonia-app/backend/pkg/dateutil"
)

type LeaderboardPeriodType interface {
	Period() string
	Start() time.Time
	End() time.Time
}

type LeaderboardPeriodWeek struct {
	current time.Time
}

func NewLeaderboardPeriodWeek(current time.Time) LeaderboardPeriodWeek {
	return LeaderboardPeriodWeek{current: current}
}

func (p LeaderboardPeriodWeek) Period() string {
	year, week := p.current.ISOWeek()
	return fmt.Sprintf("%d:%d", week, year)
}

func (p LeaderboardPeriodWeek) Start() time.Time {
	return dateutil.CurrentWeek(p.current)
}

func (p LeaderboardPeriodWeek) End() time.Time {
	return p.Start().AddDate(0, 0, 7)
}

type LeaderboardPeriodMonth struct {
	current time.Time
}

func NewLeaderboardPeriodMonth(current time.Time) LeaderboardPeriodMonth {
	return LeaderboardPeriodMonth{current: current}
}

func (p LeaderboardPeriodMonth) Period() string {
	return fmt.Sprintf("%s:%d", p.current.Month(), p.current.Year())
}

func (p LeaderboardPeriodMonth) Start() time.Time {
	return time.Date(p.current.Year(), p.current.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (p LeaderboardPeriodMonth) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}
