package dateutil

import "time"

const DayLayout = "2006-01-02"

// BeginningOfDay truncates t to its UTC midnight.
func BeginningOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Day formats t as a UTC calendar day. Assignment uniqueness is keyed on this
// value.
func Day(t time.Time) string {
	return BeginningOfDay(t).Format(DayLayout)
}

// DaysUntil returns the number of whole UTC days from now until due. Both
// sides are truncated to UTC midnight first, so a due date of today gives 0
// regardless of the wall-clock time, and a past due date gives a negative
// number.
func DaysUntil(now, due time.Time) int {
	diff := BeginningOfDay(due).Sub(BeginningOfDay(now))
	return int(diff / (24 * time.Hour))
}

// NextDay returns the UTC midnight following t.
func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}

// CurrentWeek returns the UTC midnight of the Monday of t's ISO week.
func CurrentWeek(t time.Time) time.Time {
	t = BeginningOfDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return t.AddDate(0, 0, 1-weekday)
}

func LastWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -7)
}

func LastMonth(t time.Time) time.Time {
	return t.AddDate(0, -1, 0)
}
