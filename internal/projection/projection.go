// Package projection groups and orders records for display. Inputs are never
// modified; every function returns fresh slices.
package projection

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"status-pulse-backend/internal/model"
)

// UncategorisedName labels systems whose category does not exist.
const UncategorisedName = "Uncategorised"

// CategoryGroup is a category and its systems, ordered by name.
type CategoryGroup struct {
	Category model.Category `json:"category"`
	Systems  []model.System `json:"systems"`
}

// Collators keep internal buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// SortCategories returns the categories ordered by name.
func SortCategories(categories []model.Category) []model.Category {
	out := append([]model.Category(nil), categories...)
	c := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// SortSystems returns the systems ordered by name.
func SortSystems(systems []model.System) []model.System {
	out := append([]model.System(nil), systems...)
	c := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// GroupSystemsByCategory buckets systems under their categories. Categories
// without systems are dropped; groups and their systems are sorted by name.
func GroupSystemsByCategory(categories []model.Category, systems []model.System) []CategoryGroup {
	byCategory := make(map[string][]model.System, len(categories))
	for _, s := range systems {
		byCategory[s.CategoryID] = append(byCategory[s.CategoryID], s)
	}

	groups := make([]CategoryGroup, 0, len(categories))
	for _, cat := range SortCategories(categories) {
		members := byCategory[cat.ID]
		if len(members) == 0 {
			continue
		}
		groups = append(groups, CategoryGroup{Category: cat, Systems: SortSystems(members)})
	}
	return groups
}

// Uncategorised returns, sorted by name, the systems whose category is missing.
func Uncategorised(categories []model.Category, systems []model.System) []model.System {
	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c.ID] = struct{}{}
	}
	var orphans []model.System
	for _, s := range systems {
		if _, ok := known[s.CategoryID]; !ok {
			orphans = append(orphans, s)
		}
	}
	return SortSystems(orphans)
}

// GroupsWithUncategorised is GroupSystemsByCategory followed by a trailing
// Uncategorised group holding systems whose category is missing, if any.
func GroupsWithUncategorised(categories []model.Category, systems []model.System) []CategoryGroup {
	groups := GroupSystemsByCategory(categories, systems)
	if orphans := Uncategorised(categories, systems); len(orphans) > 0 {
		groups = append(groups, CategoryGroup{
			Category: model.Category{Name: UncategorisedName},
			Systems:  orphans,
		})
	}
	return groups
}

// CategoryName resolves a category id to its name, or UncategorisedName.
func CategoryName(categories []model.Category, id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return UncategorisedName
}

// byDateDesc orders entries newest first, keeping stored order within a date.
func byDateDesc(entries []model.StatusEntry) []model.StatusEntry {
	out := append([]model.StatusEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// RecentEntries returns at most limit entries, newest date first.
func RecentEntries(entries []model.StatusEntry, limit int) []model.StatusEntry {
	if limit <= 0 {
		return []model.StatusEntry{}
	}
	sorted := byDateDesc(entries)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// EntriesBySystem buckets entries by system id, keeping stored order.
func EntriesBySystem(entries []model.StatusEntry) map[string][]model.StatusEntry {
	out := make(map[string][]model.StatusEntry)
	for _, e := range entries {
		out[e.SystemID] = append(out[e.SystemID], e)
	}
	return out
}

// EntriesForSystem returns one system's entries, newest date first.
func EntriesForSystem(entries []model.StatusEntry, systemID string) []model.StatusEntry {
	var own []model.StatusEntry
	for _, e := range entries {
		if e.SystemID == systemID {
			own = append(own, e)
		}
	}
	if own == nil {
		return []model.StatusEntry{}
	}
	return byDateDesc(own)
}
