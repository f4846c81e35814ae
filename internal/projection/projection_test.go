package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"status-pulse-backend/internal/model"
)

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = name(it)
	}
	return out
}

func systemName(s model.System) string     { return s.Name }
func entryID(e model.StatusEntry) string   { return e.ID }
func categoryName(c model.Category) string { return c.Name }
func groupName(g CategoryGroup) string     { return g.Category.Name }

func TestGroupSystemsByCategory(t *testing.T) {
	categories := []model.Category{
		{ID: "c1", Name: "internal Tools"},
		{ID: "c2", Name: "Core Services"},
		{ID: "c3", Name: "Empty"},
		{ID: "c4", Name: "customer APIs"},
	}
	systems := []model.System{
		{ID: "s1", Name: "Payment Gateway", CategoryID: "c2"},
		{ID: "s2", Name: "admin Portal", CategoryID: "c1"},
		{ID: "s3", Name: "Authentication Service", CategoryID: "c2"},
		{ID: "s4", Name: "Product API", CategoryID: "c4"},
		{ID: "s5", Name: "Orphan", CategoryID: "gone"},
	}
	categoriesBefore := append([]model.Category(nil), categories...)
	systemsBefore := append([]model.System(nil), systems...)

	groups := GroupSystemsByCategory(categories, systems)

	assert.Equal(t, []string{"Core Services", "customer APIs", "internal Tools"}, names(groups, groupName),
		"empty groups are dropped and ordering ignores case")
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"Authentication Service", "Payment Gateway"}, names(groups[0].Systems, systemName))

	assert.Equal(t, categoriesBefore, categories, "inputs must not be reordered")
	assert.Equal(t, systemsBefore, systems)
}

func TestGroupSystemsByCategory_Empty(t *testing.T) {
	assert.Empty(t, GroupSystemsByCategory(nil, nil))
	assert.Empty(t, GroupSystemsByCategory([]model.Category{{ID: "c1", Name: "A"}}, nil))
}

func TestUncategorised(t *testing.T) {
	categories := []model.Category{{ID: "c1", Name: "Core"}}
	systems := []model.System{
		{ID: "s1", Name: "zeta", CategoryID: "missing"},
		{ID: "s2", Name: "Kept", CategoryID: "c1"},
		{ID: "s3", Name: "Alpha", CategoryID: ""},
	}

	assert.Equal(t, []string{"Alpha", "zeta"}, names(Uncategorised(categories, systems), systemName))
	assert.Equal(t, "Core", CategoryName(categories, "c1"))
	assert.Equal(t, UncategorisedName, CategoryName(categories, "missing"))
}

func TestGroupsWithUncategorised(t *testing.T) {
	categories := []model.Category{{ID: "c1", Name: "Core"}, {ID: "c2", Name: "APIs"}}
	systems := []model.System{
		{ID: "s1", Name: "Gateway", CategoryID: "c1"},
		{ID: "s2", Name: "Orphan", CategoryID: "gone"},
	}

	groups := GroupsWithUncategorised(categories, systems)
	assert.Equal(t, []string{"Core", UncategorisedName}, names(groups, groupName))
	assert.Equal(t, "", groups[1].Category.ID)
	assert.Equal(t, []string{"Orphan"}, names(groups[1].Systems, systemName))

	assert.Equal(t, []string{"Core"}, names(GroupsWithUncategorised(categories, systems[:1]), groupName))
}

func TestSortCategories(t *testing.T) {
	sorted := SortCategories([]model.Category{{Name: "beta"}, {Name: "Alpha"}, {Name: "alpha"}})
	assert.Equal(t, []string{"alpha", "Alpha", "beta"}, names(sorted, categoryName))
}

func TestRecentEntries(t *testing.T) {
	entries := []model.StatusEntry{
		{ID: "a", Date: "2024-03-01"},
		{ID: "b", Date: "2024-03-05"},
		{ID: "c", Date: "2024-02-28"},
		{ID: "d", Date: "2024-03-05"},
		{ID: "e", Date: "2024-03-02"},
	}

	testCases := []struct {
		name     string
		limit    int
		expected []string
	}{
		{name: "Truncates", limit: 3, expected: []string{"b", "d", "e"}},
		{name: "Limit above length", limit: 10, expected: []string{"b", "d", "e", "a", "c"}},
		{name: "Zero limit", limit: 0, expected: []string{}},
		{name: "Negative limit", limit: -1, expected: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, names(RecentEntries(entries, tc.limit), entryID))
		})
	}
	assert.Equal(t, "a", entries[0].ID, "input order is preserved")
}

func TestEntriesBySystem(t *testing.T) {
	entries := []model.StatusEntry{
		{ID: "1", SystemID: "x", Date: "2024-01-01"},
		{ID: "2", SystemID: "y", Date: "2024-01-02"},
		{ID: "3", SystemID: "x", Date: "2024-01-03"},
	}

	grouped := EntriesBySystem(entries)
	assert.Equal(t, []string{"1", "3"}, names(grouped["x"], entryID))
	assert.Equal(t, []string{"2"}, names(grouped["y"], entryID))

	assert.Equal(t, []string{"3", "1"}, names(EntriesForSystem(entries, "x"), entryID))
	assert.Empty(t, EntriesForSystem(entries, "nope"))
}
