// Package screens builds the dashboard's CRUD screens. Each screen pairs a
// record repository with a table view column set and exposes the list, get,
// create, update, and delete handlers under a common route layout.
package screens

import (
	"errors"
	"strconv"

	"github.com/google/uuid"

	"github.com/caucusdesk/caucusdesk/pkg/controller"
	"github.com/caucusdesk/caucusdesk/pkg/observability/logger"
	"github.com/caucusdesk/caucusdesk/pkg/repository"
	"github.com/caucusdesk/caucusdesk/pkg/server/router"
	"github.com/caucusdesk/caucusdesk/pkg/tableview"
)

// Screen is one CRUD screen of the dashboard, generic over the record type.
type Screen[T any] struct {
	// Name is the URL segment the screen is mounted at, e.g. "people".
	Name string

	// Title is the human-readable screen heading.
	Title string

	// Repo persists the screen's records.
	Repo repository.Repository[T, string]

	// Columns describes the list table.
	Columns []tableview.Column[T]

	// Validate checks a submitted record before create and update.
	Validate func(*T) error

	// SetID assigns the record's identifier.
	SetID func(*T, string)

	// OnCreate stamps server-owned fields on a new record.
	OnCreate func(*T)

	// Logger receives store failures.
	Logger logger.Logger
}

// ColumnMeta is the column descriptor sent to the UI alongside list results.
type ColumnMeta struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Sortable   bool   `json:"sortable"`
	Filterable bool   `json:"filterable"`
}

// ListPage is the list endpoint's payload: the rendered table page plus the
// column descriptors the UI needs to draw headers and filter inputs.
type ListPage[T any] struct {
	Title   string       `json:"title"`
	Columns []ColumnMeta `json:"columns"`
	tableview.Result[T]
}

// Register mounts the screen's routes. Middleware passed here is applied to
// the mutating routes only; read routes inherit the group's middleware.
func (s *Screen[T]) Register(rt router.Router, write ...router.MiddlewareFunc) {
	rt.GET("/"+s.Name, s.List)
	rt.GET("/"+s.Name+"/:id", s.Get)
	rt.POST("/"+s.Name, s.Create, write...)
	rt.PUT("/"+s.Name+"/:id", s.Update, write...)
	rt.DELETE("/"+s.Name+"/:id", s.Delete, write...)
}

// List loads the full collection and renders the requested table page.
func (s *Screen[T]) List(c router.Context) error {
	state, err := s.parseViewState(c)
	if err != nil {
		return controller.Error(c, err)
	}

	rows, err := s.Repo.FindAll(c.Request().Context(), repository.QueryOptions{})
	if err != nil {
		return s.storeError(c, err)
	}

	result := tableview.Render(rows, s.Columns, state)

	return controller.Success(c, ListPage[T]{
		Title:   s.Title,
		Columns: s.columnMeta(),
		Result:  result,
	})
}

// Get returns a single record by ID.
func (s *Screen[T]) Get(c router.Context) error {
	entity, err := s.Repo.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.storeError(c, err)
	}
	return controller.Success(c, entity)
}

// Create inserts a submitted record, assigning it a fresh ID.
func (s *Screen[T]) Create(c router.Context) error {
	entity := new(T)
	if err := c.Bind(entity); err != nil {
		return controller.Error(c, controller.NewValidationError("invalid request body", nil))
	}

	s.SetID(entity, uuid.NewString())
	if s.OnCreate != nil {
		s.OnCreate(entity)
	}

	if err := s.Validate(entity); err != nil {
		return controller.Error(c, err)
	}

	if err := s.Repo.Create(c.Request().Context(), entity); err != nil {
		return s.storeError(c, err)
	}

	return controller.Created(c, entity)
}

// Update rewrites the record at the path ID with the submitted body. The
// path ID wins over any ID carried in the body.
func (s *Screen[T]) Update(c router.Context) error {
	entity := new(T)
	if err := c.Bind(entity); err != nil {
		return controller.Error(c, controller.NewValidationError("invalid request body", nil))
	}

	s.SetID(entity, c.Param("id"))

	if err := s.Validate(entity); err != nil {
		return controller.Error(c, err)
	}

	if err := s.Repo.Update(c.Request().Context(), entity); err != nil {
		return s.storeError(c, err)
	}

	return controller.Success(c, entity)
}

// Delete removes a record by ID.
func (s *Screen[T]) Delete(c router.Context) error {
	if err := s.Repo.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.storeError(c, err)
	}
	return controller.NoContent(c)
}

// parseViewState reads the table view parameters from the query string.
// Filters are read from query parameters named after filterable columns.
func (s *Screen[T]) parseViewState(c router.Context) (tableview.ViewState, error) {
	state := tableview.ViewState{
		Search:     c.Query("q"),
		SortColumn: c.Query("sort"),
	}

	switch dir := c.Query("dir"); dir {
	case "", "asc":
		state.SortDirection = tableview.SortAsc
	case "desc":
		state.SortDirection = tableview.SortDesc
	default:
		return state, controller.NewValidationError("validation failed", map[string]interface{}{
			"dir": "must be asc or desc",
		})
	}

	var err error
	if state.Page, err = queryInt(c, "page"); err != nil {
		return state, err
	}
	if state.PageSize, err = queryInt(c, "page_size"); err != nil {
		return state, err
	}

	for _, col := range s.Columns {
		if !col.Filterable {
			continue
		}
		if value := c.Query(col.Key); value != "" {
			if state.Filters == nil {
				state.Filters = map[string]string{}
			}
			state.Filters[col.Key] = value
		}
	}

	return state, nil
}

func (s *Screen[T]) columnMeta() []ColumnMeta {
	meta := make([]ColumnMeta, len(s.Columns))
	for i, col := range s.Columns {
		meta[i] = ColumnMeta{
			Key:        col.Key,
			Title:      col.Title,
			Sortable:   col.Sortable,
			Filterable: col.Filterable,
		}
	}
	return meta
}

// storeError logs a store failure and converts it to the HTTP error
// contract.
func (s *Screen[T]) storeError(c router.Context, err error) error {
	mapped := mapStoreError(err)

	var appErr *controller.AppError
	if errors.As(mapped, &appErr) && appErr.HTTPStatus >= 500 && s.Logger != nil {
		s.Logger.WithContext(c.Request().Context()).Error("record store operation failed",
			"screen", s.Name,
			"error", err,
		)
	}

	return controller.Error(c, mapped)
}

// mapStoreError converts repository errors into the application error
// contract: missing records become 404, constraint conflicts become 409,
// everything else is internal.
func mapStoreError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return controller.NewNotFoundError("record not found")
	}

	var conflict *repository.ConflictError
	if errors.As(err, &conflict) {
		details := map[string]interface{}{}
		if conflict.Constraint != "" {
			details["constraint"] = conflict.Constraint
		}
		switch conflict.Kind {
		case repository.ConflictReferenced:
			return controller.NewConflictError("record is referenced by other records", details)
		default:
			return controller.NewConflictError("a record with these values already exists", details)
		}
	}

	return controller.NewInternalError("record store operation failed", err)
}

func queryInt(c router.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, controller.NewValidationError("validation failed", map[string]interface{}{
			name: "must be an integer",
		})
	}
	return value, nil
}
