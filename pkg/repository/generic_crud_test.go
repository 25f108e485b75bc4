package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// note is a minimal entity for exercising the generic repository.
type note struct {
	ID     string
	Title  string
	Pinned bool
}

type noteMapper struct{}

func (noteMapper) Columns() []string {
	return []string{"id", "title", "pinned"}
}

func (noteMapper) ToRow(n *note) ([]interface{}, error) {
	return []interface{}{n.ID, n.Title, n.Pinned}, nil
}

func (noteMapper) FromRow(rows *sql.Rows) (*note, error) {
	var n note
	if err := rows.Scan(&n.ID, &n.Title, &n.Pinned); err != nil {
		return nil, err
	}
	return &n, nil
}

func (noteMapper) GetID(n *note) string {
	return n.ID
}

var errDriverDuplicate = errors.New("driver: unique violation")

// translatingDB is an executor that classifies driver errors, standing in
// for the postgres adapter.
type translatingDB struct {
	*sql.DB
}

func (t translatingDB) TranslateError(err error) error {
	if errors.Is(err, errDriverDuplicate) {
		return &ConflictError{Kind: ConflictDuplicate, Constraint: "notes_title_key"}
	}
	return err
}

func newNoteRepo(t *testing.T) (*GenericCrudRepository[note, string], sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatal(err)
	}
	repo := NewGenericCrudRepository[note, string](db, "notes", "id", noteMapper{})
	return repo, mock, func() { db.Close() }
}

func TestCreateInsertsAllColumns(t *testing.T) {
	repo, mock, done := newNoteRepo(t)
	defer done()

	mock.ExpectExec(`INSERT INTO notes \(id, title, pinned\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs("n1", "agenda", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &note{ID: "n1", Title: "agenda", Pinned: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateRejectsNilEntity(t *testing.T) {
	repo, _, done := newNoteRepo(t)
	defer done()

	if err := repo.Create(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil entity")
	}
}

func TestCreateTranslatesDriverConflict(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := NewGenericCrudRepository[note, string](translatingDB{db}, "notes", "id", noteMapper{})

	mock.ExpectExec(`INSERT INTO notes`).WillReturnError(errDriverDuplicate)

	err = repo.Create(context.Background(), &note{ID: "n1", Title: "agenda"})
	if err == nil {
		t.Fatal("expected error")
	}
	conflict, ok := IsConflict(err)
	if !ok {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if conflict.Kind != ConflictDuplicate {
		t.Errorf("kind = %q, want %q", conflict.Kind, ConflictDuplicate)
	}
	if conflict.Constraint != "notes_title_key" {
		t.Errorf("constraint = %q", conflict.Constraint)
	}
}

func TestFindByIDReturnsEntity(t *testing.T) {
	repo, mock, done := newNoteRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT id, title, pinned FROM notes WHERE id = \$1`).
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "pinned"}).AddRow("n1", "agenda", false))

	got, err := repo.FindByID(context.Background(), "n1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "agenda" || got.Pinned {
		t.Errorf("entity = %+v", got)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	repo, mock, done := newNoteRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT id, title, pinned FROM notes WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "pinned"}))

	_, err := repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestFindAllAppliesOptions(t *testing.T) {
	repo, mock, done := newNoteRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT id, title, pinned FROM notes WHERE pinned = \$1 ORDER BY title DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(true, 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "pinned"}).
			AddRow("n2", "minutes", true).
			AddRow("n1", "agenda", true))

	got, err := repo.FindAll(context.Background(), QueryOptions{
		Filter:     Filter{"pinned": true},
		Sort:       Sort{Field: "title", Order: SortDesc},
		Pagination: Pagination{Page: 2, PageSize: 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "n2" {
		t.Errorf("entities = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestFindAllEmptyResult(t *testing.T) {
	repo, mock, done := newNoteRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT id, title, pinned FROM notes`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "pinned"}))

	got, err := repo.FindAll(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("entities = %v, want empty non-nil slice", got)
	}
}

func TestCountWithFilter(t *testing.T) {
	repo, mock, done := newNoteRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notes WHERE pinned = \$1`).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	count, err := repo.Count(context.Background(), Filter{"pinned": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}

func TestUpdateRewritesRow(t *testing.T) {
	repo, mock, done := newNoteRepo(t)
	defer done()

	mock.ExpectExec(`UPDATE notes SET id = \$1, title = \$2, pinned = \$3 WHERE id = \$4`).
		WithArgs("n1", "agenda v2", false, "n1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &note{ID: "n1", Title: "agenda v2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo, mock, done := newNoteRepo(t)
	defer done()

	mock.ExpectExec(`UPDATE notes SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &note{ID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	repo, mock, done := newNoteRepo(t)
	defer done()

	mock.ExpectExec(`DELETE FROM notes WHERE id = \$1`).
		WithArgs("n1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "n1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo, mock, done := newNoteRepo(t)
	defer done()

	mock.ExpectExec(`DELETE FROM notes WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestPaginationOffsets(t *testing.T) {
	tests := []struct {
		name       string
		pagination Pagination
		wantOffset int
	}{
		{"zero page", Pagination{Page: 0, PageSize: 10}, 0},
		{"first page", Pagination{Page: 1, PageSize: 10}, 0},
		{"third page", Pagination{Page: 3, PageSize: 25}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pagination.Offset(); got != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tt.wantOffset)
			}
		})
	}
}
