package records

import (
	"database/sql"
	"time"

	"github.com/caucusdesk/caucusdesk/pkg/controller"
	"github.com/caucusdesk/caucusdesk/pkg/tableview"
)

// Committee is a standing or ad-hoc body of the organization.
type Committee struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Mandate   string    `db:"mandate" json:"mandate"`
	ChairID   *string   `db:"chair_id" json:"chair_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Validate checks the submitted committee form.
func (c *Committee) Validate() error {
	errs := controller.FieldErrors{}
	errs.Require("name", c.Name)
	return errs.Err()
}

// CommitteeMapper maps Committee entities to and from database rows.
type CommitteeMapper struct{}

// Columns returns the committee columns in scan order.
func (CommitteeMapper) Columns() []string {
	return []string{"id", "name", "mandate", "chair_id", "created_at"}
}

// ToRow converts a committee to values matching Columns.
func (CommitteeMapper) ToRow(c *Committee) ([]interface{}, error) {
	return []interface{}{c.ID, c.Name, c.Mandate, nullableString(c.ChairID), c.CreatedAt}, nil
}

// FromRow scans a database row into a committee.
func (CommitteeMapper) FromRow(rows *sql.Rows) (*Committee, error) {
	c := &Committee{}
	var chairID sql.NullString
	if err := rows.Scan(&c.ID, &c.Name, &c.Mandate, &chairID, &c.CreatedAt); err != nil {
		return nil, err
	}
	if chairID.Valid {
		c.ChairID = &chairID.String
	}
	return c, nil
}

// GetID extracts the committee's ID.
func (CommitteeMapper) GetID(c *Committee) string {
	return c.ID
}

// CommitteeTableColumns describes the committees list screen.
func CommitteeTableColumns() []tableview.Column[Committee] {
	return []tableview.Column[Committee]{
		{Key: "name", Title: "Name", Sortable: true, Filterable: true, Value: func(c Committee) any { return c.Name }},
		{Key: "mandate", Title: "Mandate", Filterable: true, Value: func(c Committee) any { return c.Mandate }},
		{Key: "chair_id", Title: "Chair", Filterable: true, Value: func(c Committee) any { return c.ChairID }},
		{Key: "created_at", Title: "Created", Sortable: true, Value: func(c Committee) any { return c.CreatedAt },
			Render: func(_ any, c Committee) string { return c.CreatedAt.Format("2006-01-02") }},
	}
}

// CommitteeMember links a person to a committee seat.
type CommitteeMember struct {
	ID          string    `db:"id" json:"id"`
	CommitteeID string    `db:"committee_id" json:"committee_id"`
	PersonID    string    `db:"person_id" json:"person_id"`
	Seat        string    `db:"seat" json:"seat"`
	Since       time.Time `db:"since" json:"since"`
}

// Validate checks the submitted membership form.
func (m *CommitteeMember) Validate() error {
	errs := controller.FieldErrors{}
	errs.Require("committee_id", m.CommitteeID)
	errs.Require("person_id", m.PersonID)
	return errs.Err()
}

// CommitteeMemberMapper maps CommitteeMember entities to and from rows.
type CommitteeMemberMapper struct{}

// Columns returns the membership columns in scan order.
func (CommitteeMemberMapper) Columns() []string {
	return []string{"id", "committee_id", "person_id", "seat", "since"}
}

// ToRow converts a membership to values matching Columns.
func (CommitteeMemberMapper) ToRow(m *CommitteeMember) ([]interface{}, error) {
	return []interface{}{m.ID, m.CommitteeID, m.PersonID, m.Seat, m.Since}, nil
}

// FromRow scans a database row into a membership.
func (CommitteeMemberMapper) FromRow(rows *sql.Rows) (*CommitteeMember, error) {
	m := &CommitteeMember{}
	if err := rows.Scan(&m.ID, &m.CommitteeID, &m.PersonID, &m.Seat, &m.Since); err != nil {
		return nil, err
	}
	return m, nil
}

// GetID extracts the membership's ID.
func (CommitteeMemberMapper) GetID(m *CommitteeMember) string {
	return m.ID
}

// CommitteeMemberTableColumns describes the membership list screen.
func CommitteeMemberTableColumns() []tableview.Column[CommitteeMember] {
	return []tableview.Column[CommitteeMember]{
		{Key: "committee_id", Title: "Committee", Filterable: true, Value: func(m CommitteeMember) any { return m.CommitteeID }},
		{Key: "person_id", Title: "Person", Filterable: true, Value: func(m CommitteeMember) any { return m.PersonID }},
		{Key: "seat", Title: "Seat", Sortable: true, Filterable: true, Value: func(m CommitteeMember) any { return m.Seat }},
		{Key: "since", Title: "Since", Sortable: true, Value: func(m CommitteeMember) any { return m.Since },
			Render: func(_ any, m CommitteeMember) string { return m.Since.Format("2006-01-02") }},
	}
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
