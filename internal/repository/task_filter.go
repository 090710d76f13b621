package repository

import (
	"strings"

	"taskvault/internal/model"
)

// Sort field names accepted from the API.
const (
	SortByDueDate   = "dueDate"
	SortByPriority  = "priority"
	SortByCreatedAt = "createdAt"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// TaskFilter carries the optional list filters and the sort spec. Absent
// filters impose no constraint; owner scoping is applied by the repository
// and is not part of the filter.
type TaskFilter struct {
	Completed *bool
	Priority  *model.Priority
	Search    string
	SortBy    string
	SortOrder string
}

// ValidSortBy reports whether field is an accepted sort field.
func ValidSortBy(field string) bool {
	switch field {
	case SortByDueDate, SortByPriority, SortByCreatedAt:
		return true
	}
	return false
}

// ValidSortOrder reports whether order is an accepted sort direction.
func ValidSortOrder(order string) bool {
	return order == SortAsc || order == SortDesc
}

// orderClause translates the sort spec into a SQL ORDER BY expression.
// Priority sorts in semantic enum order rather than alphabetically.
// Defaults to due date ascending. Inputs are validated at the API boundary,
// so anything unrecognized here falls back to the default.
func (f TaskFilter) orderClause() string {
	order := "ASC"
	if strings.EqualFold(f.SortOrder, SortDesc) {
		order = "DESC"
	}

	switch f.SortBy {
	case SortByPriority:
		return "FIELD(priority, 'low', 'medium', 'high') " + order
	case SortByCreatedAt:
		return "created_at " + order
	default:
		return "due_date " + order
	}
}
