package transform

import "time"

// Timestamp layouts of the derived columns.
const (
	StartTimeLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

// Parts are the calendar components of an event time.
type Parts struct {
	Hour  int32
	Day   int32
	Week  int32
	Month int32
	Year  int32
}

// Clock converts epoch milliseconds to calendar values in a fixed zone.
type Clock struct {
	loc *time.Location
}

// NewClock returns a Clock for loc. A nil location means UTC.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc}
}

// Location returns the zone the clock renders times in.
func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Time returns ms as a time in the clock's zone.
func (c Clock) Time(ms int64) time.Time {
	return time.UnixMilli(ms).In(c.Location())
}

// StartTime formats ms as "YYYY-MM-DD HH:MM:SS"; sub-second precision is dropped.
func (c Clock) StartTime(ms int64) string {
	return c.Time(ms).Format(StartTimeLayout)
}

// Date formats ms as "YYYY-MM-DD".
func (c Clock) Date(ms int64) string {
	return c.Time(ms).Format(DateLayout)
}

// Parts returns hour, day of month, ISO week, month and year of ms.
// Hour is taken from the full timestamp, not from the date alone, so it is
// the real hour of the event rather than always 0.
func (c Clock) Parts(ms int64) Parts {
	t := c.Time(ms)
	_, week := t.ISOWeek()
	return Parts{
		Hour:  int32(t.Hour()),
		Day:   int32(t.Day()),
		Week:  int32(week),
		Month: int32(t.Month()),
		Year:  int32(t.Year()),
	}
}
