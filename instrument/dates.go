package instrument

import "time"

// DaysBetween counts whole calendar days from one date to another, ignoring
// time of day and location offsets. The result is negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	f := civilDate(from).Unix()
	t := civilDate(to).Unix()
	return int((t - f) / 86400)
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
