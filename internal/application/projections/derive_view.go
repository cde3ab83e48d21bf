package projections

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"mergington/internal/domain/activity"
	"mergington/internal/domain/criteria"
)

// DeriveViewQuery carries the inputs for view derivation.
type DeriveViewQuery struct {
	Catalog       activity.Catalog
	Criteria      criteria.Criteria
	Authenticated bool
}

// DisplayRow is one entry of the derived display list.
type DisplayRow struct {
	Name          string
	Activity      activity.Activity
	SpotsLeft     int
	CanUnregister bool
}

// DeriveViewResult carries the derived, ordered display list plus the
// distinct categories of the full catalog for the filter control.
type DeriveViewResult struct {
	Rows       []DisplayRow
	Categories []string
	// NoMatches distinguishes "filters excluded everything" from an
	// empty or failed fetch: true only when the catalog has entries but
	// none passed the filter.
	NoMatches bool
}

// farFuture is the sort position for entries without a parseable
// created_date: they rank last under both date orders.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// collator provides locale-aware name comparison.
var collator = collate.New(language.English, collate.IgnoreCase)

// QueryDeriveView turns (catalog, criteria, auth state) into a display
// list. Pure: no side effects, deterministic and idempotent for the same
// inputs.
// PRE: none
// POST: Every returned row passes the category and search predicates;
// rows are ordered by the criteria's sort key
func QueryDeriveView(q DeriveViewQuery) DeriveViewResult {
	crit := q.Criteria.Normalize()

	// Filter
	var rows []DisplayRow
	for name, a := range q.Catalog {
		if !crit.MatchesCategory(a.Category) {
			continue
		}
		if !crit.MatchesSearch(a.SearchText(name)) {
			continue
		}
		rows = append(rows, DisplayRow{
			Name:          name,
			Activity:      a,
			SpotsLeft:     a.SpotsLeft(),
			CanUnregister: q.Authenticated,
		})
	}

	// Base order by name so the result is deterministic regardless of
	// map iteration order; the requested sort is applied stably on top.
	sort.Slice(rows, func(i, j int) bool {
		return collator.CompareString(rows[i].Name, rows[j].Name) < 0
	})

	switch crit.SortKey {
	case criteria.SortNameDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			return collator.CompareString(rows[i].Name, rows[j].Name) > 0
		})
	case criteria.SortDateNewest:
		sort.SliceStable(rows, func(i, j int) bool {
			return createdOrFarFuture(rows[i].Activity).After(createdOrFarFuture(rows[j].Activity))
		})
		// Missing dates sort as the far future, which "newest first"
		// would float to the top; push them last instead.
		rows = missingDatesLast(rows)
	case criteria.SortDateOldest:
		sort.SliceStable(rows, func(i, j int) bool {
			return createdOrFarFuture(rows[i].Activity).Before(createdOrFarFuture(rows[j].Activity))
		})
	}

	return DeriveViewResult{
		Rows:       rows,
		Categories: distinctCategories(q.Catalog),
		NoMatches:  len(rows) == 0 && len(q.Catalog) > 0,
	}
}

// createdOrFarFuture returns the parsed created date, or the far-future
// sentinel when missing or unparseable.
func createdOrFarFuture(a activity.Activity) time.Time {
	if t, ok := a.CreatedAt(); ok {
		return t
	}
	return farFuture
}

// missingDatesLast moves rows without a parseable date to the end,
// preserving the relative order of both groups.
func missingDatesLast(rows []DisplayRow) []DisplayRow {
	dated := make([]DisplayRow, 0, len(rows))
	var undated []DisplayRow
	for _, r := range rows {
		if _, ok := r.Activity.CreatedAt(); ok {
			dated = append(dated, r)
		} else {
			undated = append(undated, r)
		}
	}
	return append(dated, undated...)
}

// distinctCategories returns the sorted distinct non-empty categories of
// the full catalog, independent of the active filter.
func distinctCategories(catalog activity.Catalog) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, a := range catalog {
		if a.Category != "" && !seen[a.Category] {
			seen[a.Category] = true
			categories = append(categories, a.Category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return collator.CompareString(categories[i], categories[j]) < 0
	})
	return categories
}
