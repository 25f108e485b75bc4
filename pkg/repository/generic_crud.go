package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLExecutor is the interface for executing SQL queries. It is satisfied
// by *sql.DB, *sql.Tx, and the postgres store adapter.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// EntityMapper defines how to map between entities and database rows.
type EntityMapper[T any, ID comparable] interface {
	// Columns returns the column names selected and written for the entity,
	// in scan order.
	Columns() []string

	// ToRow converts an entity to values matching Columns for INSERT/UPDATE.
	ToRow(entity *T) ([]interface{}, error)

	// FromRow scans a database row into an entity.
	FromRow(rows *sql.Rows) (*T, error)

	// GetID extracts the ID from an entity.
	GetID(entity *T) ID
}

// GenericCrudRepository implements Repository for SQL record stores. Every
// dashboard entity instantiates it with its table name and mapper.
type GenericCrudRepository[T any, ID comparable] struct {
	executor  SQLExecutor
	tableName string
	idColumn  string
	mapper    EntityMapper[T, ID]
}

// NewGenericCrudRepository creates a generic CRUD repository.
func NewGenericCrudRepository[T any, ID comparable](
	executor SQLExecutor,
	tableName string,
	idColumn string,
	mapper EntityMapper[T, ID],
) *GenericCrudRepository[T, ID] {
	return &GenericCrudRepository[T, ID]{
		executor:  executor,
		tableName: tableName,
		idColumn:  idColumn,
		mapper:    mapper,
	}
}

// Create inserts a new entity. Uniqueness violations surface as
// *ConflictError when the executor translates driver errors.
func (r *GenericCrudRepository[T, ID]) Create(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("entity cannot be nil")
	}

	values, err := r.mapper.ToRow(entity)
	if err != nil {
		return fmt.Errorf("failed to map entity to row: %w", err)
	}

	columns := r.mapper.Columns()
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		r.tableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	if _, err = r.executor.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to create entity: %w", r.translate(err))
	}

	return nil
}

// FindByID retrieves an entity by its ID. Returns ErrNotFound when the ID
// does not exist.
func (r *GenericCrudRepository[T, ID]) FindByID(ctx context.Context, id ID) (*T, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		strings.Join(r.mapper.Columns(), ", "),
		r.tableName,
		r.idColumn,
	)

	rows, err := r.executor.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity: %w", r.translate(err))
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to query entity: %w", r.translate(err))
		}
		return nil, ErrNotFound
	}

	entity, err := r.mapper.FromRow(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan entity: %w", err)
	}

	return entity, nil
}

// FindAll retrieves entities matching the query options. Filters combine
// with AND. Returns an empty slice when nothing matches.
func (r *GenericCrudRepository[T, ID]) FindAll(ctx context.Context, opts QueryOptions) ([]T, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s",
		strings.Join(r.mapper.Columns(), ", "),
		r.tableName,
	)
	args := []interface{}{}
	argIndex := 1

	if len(opts.Filter) > 0 {
		whereClauses := []string{}
		for field, value := range opts.Filter {
			whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", field, argIndex))
			args = append(args, value)
			argIndex++
		}
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	if opts.Sort.Field != "" {
		order := "ASC"
		if opts.Sort.Order == SortDesc {
			order = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", opts.Sort.Field, order)
	}

	if opts.Pagination.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, opts.Pagination.Limit(), opts.Pagination.Offset())
	}

	rows, err := r.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", r.translate(err))
	}
	defer rows.Close()

	entities := []T{}
	for rows.Next() {
		entity, err := r.mapper.FromRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, *entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entities, nil
}

// Count returns the number of entities matching the filter.
func (r *GenericCrudRepository[T, ID]) Count(ctx context.Context, filter Filter) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.tableName)
	args := []interface{}{}
	argIndex := 1

	if len(filter) > 0 {
		whereClauses := []string{}
		for field, value := range filter {
			whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", field, argIndex))
			args = append(args, value)
			argIndex++
		}
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var count int64
	if err := r.executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", r.translate(err))
	}

	return count, nil
}

// Update rewrites an existing entity. Returns ErrNotFound when the entity
// does not exist.
func (r *GenericCrudRepository[T, ID]) Update(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("entity cannot be nil")
	}

	id := r.mapper.GetID(entity)
	values, err := r.mapper.ToRow(entity)
	if err != nil {
		return fmt.Errorf("failed to map entity to row: %w", err)
	}

	columns := r.mapper.Columns()
	setClauses := make([]string, len(columns))
	for i, col := range columns {
		setClauses[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d",
		r.tableName,
		strings.Join(setClauses, ", "),
		r.idColumn,
		len(values)+1,
	)
	values = append(values, id)

	result, err := r.executor.ExecContext(ctx, query, values...)
	if err != nil {
		return fmt.Errorf("failed to update entity: %w", r.translate(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes an entity by its ID. Returns ErrNotFound when nothing was
// deleted and *ConflictError when other rows still reference the record.
func (r *GenericCrudRepository[T, ID]) Delete(ctx context.Context, id ID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", r.tableName, r.idColumn)

	result, err := r.executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", r.translate(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// translate delegates driver-specific error classification to the executor
// when it supports it.
func (r *GenericCrudRepository[T, ID]) translate(err error) error {
	if translator, ok := r.executor.(ErrorTranslator); ok {
		return translator.TranslateError(err)
	}
	return err
}
