package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"status-pulse-backend/internal/dates"
)

var monthRe = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

var (
	ErrInvalidMonth  = errors.New("invalid month")
	ErrReversedRange = errors.New("start date is after end date")
	ErrRangeTooLong  = errors.New("date range is too long")
)

// Filter is the date range a view should cover. Applied is false when the
// requested filter was absent or rejected and the default window is used.
type Filter struct {
	Range   dates.DateRange `json:"range"`
	Applied bool            `json:"filterApplied"`
}

// MonthOption is one entry of the month picker.
type MonthOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Month parses a YYYY-MM value into the range covering that month.
func Month(raw string) (dates.DateRange, error) {
	m := monthRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return dates.DateRange{}, fmt.Errorf("%w: %q", ErrInvalidMonth, raw)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return dates.DateRange{}, fmt.Errorf("%w: %q", ErrInvalidMonth, raw)
	}
	return dates.MonthRange(year, month-1), nil
}

// CustomRange parses an explicit start and end. Both must be valid days, start
// may not come after end, and the range may span at most maxDays days
// (no limit when maxDays <= 0).
func CustomRange(start, end string, maxDays int) (dates.DateRange, error) {
	s, err := dates.Parse(strings.TrimSpace(start))
	if err != nil {
		return dates.DateRange{}, err
	}
	e, err := dates.Parse(strings.TrimSpace(end))
	if err != nil {
		return dates.DateRange{}, err
	}
	if s.After(e) {
		return dates.DateRange{}, fmt.Errorf("%w: %s > %s", ErrReversedRange, s, e)
	}
	rng := dates.DateRange{Start: s, End: e}
	if maxDays > 0 && rng.Len() > maxDays {
		return dates.DateRange{}, fmt.Errorf("%w: %d days, limit %d", ErrRangeTooLong, rng.Len(), maxDays)
	}
	return rng, nil
}

// DateFilter resolves the range for a view. A month takes precedence over a
// custom range; anything missing or invalid yields the windowDays days ending today.
// Custom ranges longer than maxDays are rejected.
func DateFilter(month, start, end string, today dates.Day, windowDays, maxDays int) Filter {
	if month != "" {
		if rng, err := Month(month); err == nil {
			return Filter{Range: rng, Applied: true}
		}
	} else if start != "" || end != "" {
		if rng, err := CustomRange(start, end, maxDays); err == nil {
			return Filter{Range: rng, Applied: true}
		}
	}
	return Filter{Range: dates.LastDays(today, windowDays), Applied: false}
}

// MonthOptions lists the n months ending with the month containing today,
// most recent first.
func MonthOptions(today dates.Day, n int) []MonthOption {
	options := make([]MonthOption, 0, max(n, 0))
	first := time.Date(today.Time().Year(), today.Time().Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, -i, 0)
		options = append(options, MonthOption{
			Value: m.Format("2006-01"),
			Label: m.Format("January 2006"),
		})
	}
	return options
}
