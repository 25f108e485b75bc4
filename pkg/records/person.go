// Package records defines the dashboard's domain entities, their database
// mappers, their input validation, and the column sets their list screens
// render.
package records

import (
	"database/sql"
	"strings"
	"time"

	"github.com/caucusdesk/caucusdesk/pkg/controller"
	"github.com/caucusdesk/caucusdesk/pkg/tableview"
)

// Person is a staff member or official tracked by the personnel screen.
type Person struct {
	ID         string    `db:"id" json:"id"`
	FullName   string    `db:"full_name" json:"full_name"`
	Email      string    `db:"email" json:"email"`
	Phone      string    `db:"phone" json:"phone"`
	RoleTitle  string    `db:"role_title" json:"role_title"`
	Department string    `db:"department" json:"department"`
	Active     bool      `db:"active" json:"active"`
	JoinedOn   time.Time `db:"joined_on" json:"joined_on"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Validate checks the submitted person form.
func (p *Person) Validate() error {
	errs := controller.FieldErrors{}
	errs.Require("full_name", p.FullName)
	errs.Require("email", p.Email)
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		errs.Add("email", "must be a valid email address")
	}
	return errs.Err()
}

// PersonMapper maps Person entities to and from database rows.
type PersonMapper struct{}

// Columns returns the person columns in scan order.
func (PersonMapper) Columns() []string {
	return []string{"id", "full_name", "email", "phone", "role_title", "department", "active", "joined_on", "created_at"}
}

// ToRow converts a person to values matching Columns.
func (PersonMapper) ToRow(p *Person) ([]interface{}, error) {
	return []interface{}{p.ID, p.FullName, p.Email, p.Phone, p.RoleTitle, p.Department, p.Active, p.JoinedOn, p.CreatedAt}, nil
}

// FromRow scans a database row into a person.
func (PersonMapper) FromRow(rows *sql.Rows) (*Person, error) {
	p := &Person{}
	if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.RoleTitle, &p.Department, &p.Active, &p.JoinedOn, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// GetID extracts the person's ID.
func (PersonMapper) GetID(p *Person) string {
	return p.ID
}

// PersonTableColumns describes the personnel list screen.
func PersonTableColumns() []tableview.Column[Person] {
	return []tableview.Column[Person]{
		{Key: "full_name", Title: "Name", Sortable: true, Filterable: true, Value: func(p Person) any { return p.FullName }},
		{Key: "email", Title: "Email", Sortable: true, Filterable: true, Value: func(p Person) any { return p.Email }},
		{Key: "role_title", Title: "Role", Sortable: true, Filterable: true, Value: func(p Person) any { return p.RoleTitle }},
		{Key: "department", Title: "Department", Sortable: true, Filterable: true, Value: func(p Person) any { return p.Department }},
		{Key: "active", Title: "Active", Sortable: true, Value: func(p Person) any { return p.Active },
			Render: func(value any, _ Person) string {
				if value == true {
					return "active"
				}
				return "inactive"
			}},
		{Key: "joined_on", Title: "Joined", Sortable: true, Value: func(p Person) any { return p.JoinedOn },
			Render: func(_ any, p Person) string { return p.JoinedOn.Format("2006-01-02") }},
	}
}
