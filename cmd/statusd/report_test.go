package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"status-pulse-backend/internal/dates"
	"status-pulse-backend/internal/model"
	"status-pulse-backend/internal/store"
)

func TestRenderReport(t *testing.T) {
	snap := store.Snapshot{
		Categories: []model.Category{{ID: "cat1", Name: "Core Services"}},
		Systems: []model.System{
			{ID: "sysX", Name: "Search", CategoryID: "cat1"},
			{ID: "sysO", Name: "Orphan", CategoryID: "gone"},
		},
		StatusEntries: []model.StatusEntry{
			{ID: "e1", SystemID: "sysX", Date: "2024-03-01", Status: model.StatusOperational, Description: "launch"},
			{ID: "e2", SystemID: "sysX", Date: "2024-03-03", Status: model.StatusDegraded, Description: "slow"},
		},
	}
	rng := dates.DateRange{Start: dates.MustParse("2024-03-01"), End: dates.MustParse("2024-03-04")}

	var buf bytes.Buffer
	renderReport(&buf, snap, rng)
	out := buf.String()

	assert.Contains(t, out, "Core Services (2024-03-01..2024-03-04)")
	assert.Contains(t, out, "Uncategorised (2024-03-01..2024-03-04)")
	assert.Contains(t, out, "launch")
	assert.Contains(t, out, "Degraded Performance")
	assert.Contains(t, out, "No status reported for this period.")
	assert.Less(t, strings.Index(out, "Core Services"), strings.Index(out, "Uncategorised"))
}
