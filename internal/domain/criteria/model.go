package criteria

import "strings"

// Sort key constants
const (
	SortNameAsc    = "name-asc"
	SortNameDesc   = "name-desc"
	SortDateNewest = "date-newest"
	SortDateOldest = "date-oldest"
)

// CategoryAll matches every category.
const CategoryAll = "all"

// Criteria holds the user-selected filter and sort parameters. It is owned
// by the toolbar controls and has no persistence beyond the session.
type Criteria struct {
	Category   string
	SearchTerm string
	SortKey    string
}

// Default returns the criteria applied before any user input.
func Default() Criteria {
	return Criteria{Category: CategoryAll, SortKey: SortNameAsc}
}

// Normalize replaces missing or unknown fields with defaults.
// PRE: none
// POST: Category is non-empty, SortKey is one of the four known keys
func (c Criteria) Normalize() Criteria {
	if c.Category == "" {
		c.Category = CategoryAll
	}
	switch c.SortKey {
	case SortNameAsc, SortNameDesc, SortDateNewest, SortDateOldest:
	default:
		c.SortKey = SortNameAsc
	}
	return c
}

// MatchesCategory returns true if an entry with the given category passes
// the category filter.
// INVARIANT: Criteria fields are not mutated
func (c Criteria) MatchesCategory(category string) bool {
	return c.Category == CategoryAll || category == c.Category
}

// MatchesSearch returns true if the searchable text passes the search
// filter. The text is expected to be lowercased already.
// INVARIANT: Criteria fields are not mutated
func (c Criteria) MatchesSearch(searchText string) bool {
	term := strings.ToLower(strings.TrimSpace(c.SearchTerm))
	return term == "" || strings.Contains(searchText, term)
}
