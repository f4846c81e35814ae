// Package dates implements calendar-day arithmetic on UTC-normalized days.
//
// A Day never carries a time-of-day or a local zone, so stepping across month,
// year or daylight-saving boundaries always moves by exactly one calendar day.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Layout is the canonical YYYY-MM-DD day format.
const Layout = "2006-01-02"

// DisplayLayout renders days the way the dashboard shows them (en-AU).
const DisplayLayout = "02/01/2006"

// ErrInvalidDateFormat is returned when a day string is malformed or names an impossible date.
var ErrInvalidDateFormat = errors.New("invalid date format")

var dayRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Day is a calendar day at UTC midnight.
type Day struct {
	t time.Time
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start Day `json:"start"`
	End   Day `json:"end"`
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (Day, error) {
	if !dayRe.MatchString(s) {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q: %v", ErrInvalidDateFormat, s, err)
	}
	return Day{t: t}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Day {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// New returns the day for year, month and day-of-month, normalizing overflow
// the same way time.Date does.
func New(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime returns the UTC calendar day containing t.
func FromTime(t time.Time) Day {
	u := t.UTC()
	return New(u.Year(), u.Month(), u.Day())
}

// Today returns the current UTC calendar day.
func Today() Day {
	return FromTime(time.Now())
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return d.t.Format(Layout)
}

// Display formats the day as DD/MM/YYYY.
func (d Day) Display() string {
	return d.t.Format(DisplayLayout)
}

// Time returns the day as a UTC midnight timestamp.
func (d Day) Time() time.Time {
	return d.t
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is earlier than o.
func (d Day) Before(o Day) bool { return d.t.Before(o.t) }

// After reports whether d is later than o.
func (d Day) After(o Day) bool { return d.t.After(o.t) }

// Equal reports whether d and o are the same calendar day.
func (d Day) Equal(o Day) bool { return d.t.Equal(o.t) }

// AddDays shifts the day by n calendar days; n may be negative.
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of days from d to o (negative if o is earlier).
func (d Day) DaysUntil(o Day) int {
	// Unix seconds, not time.Duration, which overflows past ~292 years.
	return int((o.t.Unix() - d.t.Unix()) / 86400)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysInRange returns every day from start to end inclusive, in order.
// A reversed range yields an empty slice.
func DaysInRange(start, end Day) []Day {
	if start.After(end) {
		return []Day{}
	}
	days := make([]Day, 0, start.DaysUntil(end)+1)
	for cur := start; !cur.After(end); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

// MonthRange returns the range covering a whole month. monthIndex0 is zero-based
// and may overflow into neighbouring years.
func MonthRange(year, monthIndex0 int) DateRange {
	start := New(year, time.Month(monthIndex0+1), 1)
	// Day 0 of the following month is the last day of this one.
	end := New(year, time.Month(monthIndex0+2), 0)
	return DateRange{Start: start, End: end}
}

// LastDays returns the n-day window ending on (and including) today.
func LastDays(today Day, n int) DateRange {
	if n < 1 {
		n = 1
	}
	return DateRange{Start: today.AddDays(-(n - 1)), End: today}
}

// Days enumerates the range.
func (r DateRange) Days() []Day {
	return DaysInRange(r.Start, r.End)
}

// Len is the number of days in the range, zero when reversed.
func (r DateRange) Len() int {
	if r.Start.After(r.End) {
		return 0
	}
	return r.Start.DaysUntil(r.End) + 1
}

// Contains reports whether d lies inside the range.
func (r DateRange) Contains(d Day) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}
