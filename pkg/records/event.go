package records

import (
	"database/sql"
	"time"

	"github.com/caucusdesk/caucusdesk/pkg/controller"
	"github.com/caucusdesk/caucusdesk/pkg/tableview"
)

// Event is a public event organized or attended by the organization.
type Event struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Location    string     `db:"location" json:"location"`
	StartsAt    time.Time  `db:"starts_at" json:"starts_at"`
	EndsAt      *time.Time `db:"ends_at" json:"ends_at"`
	Public      bool       `db:"public" json:"public"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Validate checks the submitted event form.
func (e *Event) Validate() error {
	errs := controller.FieldErrors{}
	errs.Require("title", e.Title)
	if e.StartsAt.IsZero() {
		errs.Add("starts_at", "is required")
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		errs.Add("ends_at", "must not be before starts_at")
	}
	return errs.Err()
}

// EventMapper maps Event entities to and from database rows.
type EventMapper struct{}

// Columns returns the event columns in scan order.
func (EventMapper) Columns() []string {
	return []string{"id", "title", "description", "location", "starts_at", "ends_at", "public", "created_at"}
}

// ToRow converts an event to values matching Columns.
func (EventMapper) ToRow(e *Event) ([]interface{}, error) {
	return []interface{}{e.ID, e.Title, e.Description, e.Location, e.StartsAt, nullableTime(e.EndsAt), e.Public, e.CreatedAt}, nil
}

// FromRow scans a database row into an event.
func (EventMapper) FromRow(rows *sql.Rows) (*Event, error) {
	e := &Event{}
	var endsAt sql.NullTime
	if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &endsAt, &e.Public, &e.CreatedAt); err != nil {
		return nil, err
	}
	if endsAt.Valid {
		e.EndsAt = &endsAt.Time
	}
	return e, nil
}

// GetID extracts the event's ID.
func (EventMapper) GetID(e *Event) string {
	return e.ID
}

// EventTableColumns describes the events list screen.
func EventTableColumns() []tableview.Column[Event] {
	return []tableview.Column[Event]{
		{Key: "title", Title: "Title", Sortable: true, Filterable: true, Value: func(e Event) any { return e.Title }},
		{Key: "location", Title: "Location", Sortable: true, Filterable: true, Value: func(e Event) any { return e.Location }},
		{Key: "starts_at", Title: "Starts", Sortable: true, Value: func(e Event) any { return e.StartsAt },
			Render: func(_ any, e Event) string { return e.StartsAt.Format("2006-01-02 15:04") }},
		{Key: "public", Title: "Visibility", Sortable: true, Value: func(e Event) any { return e.Public },
			Render: func(value any, _ Event) string {
				if value == true {
					return "public"
				}
				return "internal"
			}},
	}
}
