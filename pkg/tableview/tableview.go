// Package tableview renders an in-memory record collection into the visible
// page of a dashboard table. It applies a free-text search, per-column
// filters, a stable sort, and pagination, and computes the pagination
// metadata every list screen needs. The engine is generic over the record
// type and is a pure function of its inputs: no I/O, no retained state, and
// out-of-range pages clamp instead of erroring.
package tableview

import (
	"sort"
	"strings"
)

// SortDirection defines the ordering applied when a sort column is set.
type SortDirection string

// Sort direction constants
const (
	// SortAsc orders records ascending by the sort column
	SortAsc SortDirection = "asc"
	// SortDesc orders records descending by the sort column
	SortDesc SortDirection = "desc"
)

// Column describes how one field of a record participates in the table:
// how its value is extracted, whether the user may sort or filter on it,
// and how it is rendered. Column order is display order only.
type Column[T any] struct {
	// Key identifies the column for sorting and filtering. It is usually a
	// field name but may be synthetic.
	Key string

	// Title is the human-readable column header.
	Title string

	// Sortable reports whether the column accepts a sort request.
	Sortable bool

	// Filterable reports whether the column accepts a per-column filter.
	Filterable bool

	// Value extracts the raw field value from a record. A nil result is
	// treated as an empty string for search, filter, and display.
	Value func(row T) any

	// Render optionally overrides the display string for a value. When nil,
	// the canonical display form of the value is used.
	Render func(value any, row T) string
}

// ViewState holds the search, filter, sort, and pagination parameters owned
// by a single screen instance. The zero value means: no search, no filters,
// no sort, first page. A zero or negative PageSize falls back to
// DefaultPageSize.
type ViewState struct {
	Search        string            `json:"search"`
	Filters       map[string]string `json:"filters"`
	SortColumn    string            `json:"sort_column"`
	SortDirection SortDirection     `json:"sort_direction"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
}

// DefaultPageSize is used when a view state carries no explicit page size.
const DefaultPageSize = 10

// Result is the visible page of a rendered table plus pagination metadata.
// Page is the effective page after clamping, which may differ from the
// requested page when filtering shrank the collection.
type Result[T any] struct {
	Rows       []T `json:"rows"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
}

// Render transforms (collection, columns, view state) into the visible page.
// The pipeline is search, then per-column filters (AND-composed with the
// search), then a stable sort, then pagination with page clamping. Repeated
// calls with identical arguments yield identical results.
func Render[T any](rows []T, cols []Column[T], state ViewState) Result[T] {
	pageSize := state.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	filtered := applySearch(rows, cols, state.Search)
	filtered = applyFilters(filtered, cols, state.Filters)
	filtered = applySort(filtered, cols, state.SortColumn, state.SortDirection)

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := state.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	visible := make([]T, end-start)
	copy(visible, filtered[start:end])

	return Result[T]{
		Rows:       visible,
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}

// applySearch retains records where any column value contains the term,
// case-insensitively. Only an empty term retains everything; whitespace is
// significant and matches literally.
func applySearch[T any](rows []T, cols []Column[T], term string) []T {
	term = strings.ToLower(term)
	if term == "" {
		return rows
	}

	matched := make([]T, 0, len(rows))
	for _, row := range rows {
		for _, col := range cols {
			if col.Value == nil {
				continue
			}
			if strings.Contains(strings.ToLower(DisplayString(col.Value(row))), term) {
				matched = append(matched, row)
				break
			}
		}
	}
	return matched
}

// applyFilters retains records matching every non-empty per-column filter.
// Filter keys that name no column compare against the empty string, so they
// match nothing rather than everything.
func applyFilters[T any](rows []T, cols []Column[T], filters map[string]string) []T {
	active := make(map[string]string, len(filters))
	for key, value := range filters {
		value = strings.ToLower(value)
		if value != "" {
			active[key] = value
		}
	}
	if len(active) == 0 {
		return rows
	}

	byKey := make(map[string]Column[T], len(cols))
	for _, col := range cols {
		byKey[col.Key] = col
	}

	matched := make([]T, 0, len(rows))
	for _, row := range rows {
		keep := true
		for key, want := range active {
			var display string
			if col, ok := byKey[key]; ok && col.Value != nil {
				display = DisplayString(col.Value(row))
			}
			if !strings.Contains(strings.ToLower(display), want) {
				keep = false
				break
			}
		}
		if keep {
			matched = append(matched, row)
		}
	}
	return matched
}

// applySort orders records by the named column's raw value. String
// comparison is case-sensitive ordinal, which intentionally diverges from
// the case-insensitive search and filter steps. An unset or unknown sort
// column preserves input order.
func applySort[T any](rows []T, cols []Column[T], sortColumn string, direction SortDirection) []T {
	if sortColumn == "" {
		return rows
	}

	var value func(T) any
	for _, col := range cols {
		if col.Key == sortColumn {
			value = col.Value
			break
		}
	}
	if value == nil {
		return rows
	}

	sorted := make([]T, len(rows))
	copy(sorted, rows)

	desc := direction == SortDesc
	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := CompareValues(value(sorted[i]), value(sorted[j]))
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
	return sorted
}

// DisplayValue returns the rendered form of a column value for a row,
// honoring the column's Render override when present.
func (c Column[T]) DisplayValue(row T) string {
	if c.Value == nil {
		return ""
	}
	value := c.Value(row)
	if c.Render != nil {
		return c.Render(value, row)
	}
	return DisplayString(value)
}
