package timeline

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"status-pulse-backend/internal/dates"
	"status-pulse-backend/internal/model"
)

// Segment is one day-wide slice of a system's status bar.
type Segment struct {
	Day          dates.Day                `json:"date"`
	Status       model.AvailabilityStatus `json:"status"`
	Range        int                      `json:"range"` // index into Timeline.Ranges, -1 if unmatched
	WidthPercent float64                  `json:"widthPercent"`
	Tooltip      string                   `json:"tooltip"`
}

// Timeline bundles everything needed to draw one system's bar.
type Timeline struct {
	SystemID string          `json:"systemId"`
	Range    dates.DateRange `json:"range"`
	Days     []DayStatus     `json:"days"`
	Ranges   []StatusRange   `json:"ranges"`
	Segments []Segment       `json:"segments"`
}

// Segments maps every day to the run that contains it. Days are given equal
// widths across the bar and share the tooltip of their run.
func Segments(days []DayStatus, ranges []StatusRange) []Segment {
	segments := make([]Segment, 0, len(days))
	if len(days) == 0 {
		return segments
	}
	width := 100 / float64(len(days))

	j := 0
	for _, ds := range days {
		idx := -1
		for k := j; k < len(ranges); k++ {
			if ranges[k].Covers(ds) {
				idx = k
				j = k
				break
			}
		}

		var tooltip string
		if idx >= 0 {
			tooltip = ranges[idx].Tooltip()
		} else {
			tooltip = StatusRange{Start: ds.Day, End: ds.Day, Status: ds.Status, Description: ds.Description}.Tooltip()
		}
		segments = append(segments, Segment{
			Day:          ds.Day,
			Status:       ds.Status,
			Range:        idx,
			WidthPercent: width,
			Tooltip:      tooltip,
		})
	}
	return segments
}

// For computes the full timeline of one system over rng.
func For(systemID string, entries []model.StatusEntry, rng dates.DateRange) Timeline {
	days := Build(systemID, entries, rng)
	ranges := CompressRuns(days)
	return Timeline{
		SystemID: systemID,
		Range:    rng,
		Days:     days,
		Ranges:   ranges,
		Segments: Segments(days, ranges),
	}
}

// Engine memoizes timelines by system, range and store revision. Results are
// shared between callers and must be treated as read-only.
type Engine struct {
	memo *cache.Cache
}

// NewEngine creates an engine whose memoized timelines expire after ttl.
func NewEngine(ttl time.Duration) *Engine {
	return &Engine{memo: cache.New(ttl, 2*ttl)}
}

// Timeline returns the timeline of systemID over rng for the entries as of revision.
func (e *Engine) Timeline(systemID string, entries []model.StatusEntry, rng dates.DateRange, revision uint64) Timeline {
	if e == nil || e.memo == nil {
		return For(systemID, entries, rng)
	}

	key := fmt.Sprintf("%s|%s|%d", systemID, rng, revision)
	if cached, found := e.memo.Get(key); found {
		return cached.(Timeline)
	}
	tl := For(systemID, entries, rng)
	e.memo.SetDefault(key, tl)
	return tl
}

// Forget drops every memoized timeline.
func (e *Engine) Forget() {
	if e != nil && e.memo != nil {
		e.memo.Flush()
	}
}
