// Package timeline derives day-by-day system status from sparse status entries.
//
// Status behaves as a step function: the most recent entry on or before a day
// carries forward until a newer one supersedes it. Days before the first entry
// are Unknown. Entry dates are compared as YYYY-MM-DD strings, which orders them
// chronologically because the format is fixed width.
//
// When several entries of one system share a date, the one stored last wins.
package timeline

import (
	"fmt"
	"sort"

	"status-pulse-backend/internal/dates"
	"status-pulse-backend/internal/model"
)

// NoStatusDescription describes days with no entry on or before them.
const NoStatusDescription = "No status reported for this period."

// DayStatus is the resolved status of one system on one day.
type DayStatus struct {
	Day         dates.Day                `json:"date"`
	Status      model.AvailabilityStatus `json:"status"`
	Description string                   `json:"description"`
}

// StatusRange is a maximal run of consecutive days sharing a status.
type StatusRange struct {
	Start       dates.Day                `json:"start"`
	End         dates.Day                `json:"end"`
	Status      model.AvailabilityStatus `json:"status"`
	Description string                   `json:"description"`
}

// Days is the number of days the range spans.
func (r StatusRange) Days() int {
	return r.Start.DaysUntil(r.End) + 1
}

// Covers reports whether ds falls inside the range and carries the same status.
func (r StatusRange) Covers(ds DayStatus) bool {
	key := ds.Day.String()
	return ds.Status == r.Status && key >= r.Start.String() && key <= r.End.String()
}

// Tooltip is the hover text shared by every day of the run.
func (r StatusRange) Tooltip() string {
	if r.Start.Equal(r.End) {
		return fmt.Sprintf("%s: %s – %s", r.Start.Display(), r.Status, r.Description)
	}
	return fmt.Sprintf("%s–%s: %s – %s", r.Start.Display(), r.End.Display(), r.Status, r.Description)
}

// StatusOn resolves the status of systemID on day.
func StatusOn(systemID string, entries []model.StatusEntry, day dates.Day) DayStatus {
	key := day.String()
	var latest *model.StatusEntry
	for i := range entries {
		e := &entries[i]
		if e.SystemID != systemID || e.Date > key {
			continue
		}
		// >= lets a later entry with the same date replace an earlier one.
		if latest == nil || e.Date >= latest.Date {
			latest = e
		}
	}
	if latest == nil {
		return unknownOn(day)
	}
	return DayStatus{Day: day, Status: latest.Status, Description: latest.Description}
}

func unknownOn(day dates.Day) DayStatus {
	return DayStatus{Day: day, Status: model.StatusUnknown, Description: NoStatusDescription}
}

// Build resolves every day of rng, in chronological order. It gives the same
// answer as calling StatusOn per day but walks the entries only once.
func Build(systemID string, entries []model.StatusEntry, rng dates.DateRange) []DayStatus {
	days := rng.Days()
	out := make([]DayStatus, 0, len(days))
	if len(days) == 0 {
		return out
	}

	history := historyOf(systemID, entries)
	next := 0
	current := unknownOn(days[0])
	for _, day := range days {
		key := day.String()
		for next < len(history) && history[next].Date <= key {
			current.Status = history[next].Status
			current.Description = history[next].Description
			next++
		}
		current.Day = day
		out = append(out, current)
	}
	return out
}

// historyOf returns the entries of one system ordered by date, keeping stored
// order among equal dates.
func historyOf(systemID string, entries []model.StatusEntry) []model.StatusEntry {
	var history []model.StatusEntry
	for _, e := range entries {
		if e.SystemID == systemID {
			history = append(history, e)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date < history[j].Date
	})
	return history
}

// CompressRuns merges consecutive days with equal status into ranges. A new run
// starts only when the status changes; each run keeps the description of its
// first day.
func CompressRuns(days []DayStatus) []StatusRange {
	ranges := make([]StatusRange, 0)
	for _, ds := range days {
		if n := len(ranges); n > 0 && ranges[n-1].Status == ds.Status {
			ranges[n-1].End = ds.Day
			continue
		}
		ranges = append(ranges, StatusRange{
			Start:       ds.Day,
			End:         ds.Day,
			Status:      ds.Status,
			Description: ds.Description,
		})
	}
	return ranges
}
