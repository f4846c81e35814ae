package store

import (
	"status-pulse-backend/internal/dates"
	"status-pulse-backend/internal/model"
)

// DefaultCategories is the first-run category set.
func DefaultCategories() []model.Category {
	return []model.Category{
		{ID: "cat1", Name: "Core Services"},
		{ID: "cat2", Name: "Customer Facing APIs"},
		{ID: "cat3", Name: "Internal Tools"},
	}
}

// DefaultSystems is the first-run system set.
func DefaultSystems() []model.System {
	return []model.System{
		{ID: "sys1", Name: "Authentication Service", CategoryID: "cat1"},
		{ID: "sys2", Name: "Payment Gateway", CategoryID: "cat1"},
		{ID: "sys3", Name: "Product API", CategoryID: "cat2"},
		{ID: "sys4", Name: "User Profile API", CategoryID: "cat2"},
		{ID: "sys5", Name: "Admin Portal", CategoryID: "cat3"},
	}
}

// DefaultStatusEntries is the first-run sample history, dated relative to today.
func DefaultStatusEntries(today dates.Day) []model.StatusEntry {
	ago := func(n int) string { return today.AddDays(-n).String() }
	return []model.StatusEntry{
		{ID: "entry1", SystemID: "sys1", Date: ago(2), Status: model.StatusOperational, Description: "System fully operational."},
		{ID: "entry2", SystemID: "sys1", Date: ago(0), Status: model.StatusOperational, Description: "Continued operational status."},
		{ID: "entry3", SystemID: "sys2", Date: ago(1), Status: model.StatusDegraded, Description: "Experiencing slight delays."},
		{ID: "entry4", SystemID: "sys2", Date: ago(0), Status: model.StatusOperational, Description: "Degradation resolved."},
		{ID: "entry5", SystemID: "sys3", Date: ago(0), Status: model.StatusMaintenance, Description: "Scheduled maintenance window."},
		{ID: "entry6", SystemID: "sys4", Date: ago(3), Status: model.StatusOperational, Description: "Initial status."},
	}
}
