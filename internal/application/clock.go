package application

import "time"

// Clock supplies the current date in the market's timezone. Dates everywhere
// in this package are midnight-UTC instants; only the year/month/day matter.
type Clock interface {
	Today() time.Time
}

type marketClock struct{ loc *time.Location }

func NewMarketClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return marketClock{loc: loc}
}

func (c marketClock) Today() time.Time {
	now := time.Now().In(c.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string { return t.Format("2006-01-02") }

func sameDate(a, b time.Time) bool { return dateKey(a) == dateKey(b) }
