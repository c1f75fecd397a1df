package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDaysUntil(t *testing.T) {
	now := time.Date(2023, 5, 10, 23, 59, 0, 0, time.UTC)

	// Due today, even if the due timestamp is earlier in the day.
	due := time.Date(2023, 5, 10, 0, 1, 0, 0, time.UTC)
	require.Equal(t, 0, DaysUntil(now, due))

	// Due tomorrow.
	due = time.Date(2023, 5, 11, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 1, DaysUntil(now, due))

	// Ended yesterday.
	due = time.Date(2023, 5, 9, 23, 0, 0, 0, time.UTC)
	require.Equal(t, -1, DaysUntil(now, due))
}

func TestDaysUntilAcrossTimezones(t *testing.T) {
	// 2023-05-10 22:00 UTC-7 is 2023-05-11 05:00 UTC. The comparison must
	// happen in UTC, not in the local zone of either side.
	loc := time.FixedZone("UTC-7", -7*3600)
	now := time.Date(2023, 5, 10, 22, 0, 0, 0, loc)
	due := time.Date(2023, 5, 11, 12, 0, 0, 0, time.UTC)
	require.Equal(t, 0, DaysUntil(now, due))
}

func TestDay(t *testing.T) {
	tm := time.Date(2023, 5, 10, 23, 59, 0, 0, time.FixedZone("UTC+9", 9*3600))
	require.Equal(t, "2023-05-10", Day(tm))
}
