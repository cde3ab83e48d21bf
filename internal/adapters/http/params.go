package web

import (
	"net/url"

	"mergington/internal/domain/criteria"
)

// HasCriteriaParams reports whether the query carries toolbar input. A
// plain page load without toolbar params keeps the current criteria.
func HasCriteriaParams(q url.Values) bool {
	return q.Has("category") || q.Has("q") || q.Has("sort")
}

// ParseCriteria extracts filter criteria from URL query values.
// PRE: none
// POST: Returns normalized criteria with defaults applied
func ParseCriteria(q url.Values) criteria.Criteria {
	return criteria.Criteria{
		Category:   q.Get("category"),
		SearchTerm: q.Get("q"),
		SortKey:    q.Get("sort"),
	}.Normalize()
}
