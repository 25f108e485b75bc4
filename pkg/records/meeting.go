package records

import (
	"database/sql"
	"time"

	"github.com/caucusdesk/caucusdesk/pkg/controller"
	"github.com/caucusdesk/caucusdesk/pkg/tableview"
)

// Meeting is a scheduled sitting of a committee.
type Meeting struct {
	ID          string    `db:"id" json:"id"`
	CommitteeID string    `db:"committee_id" json:"committee_id"`
	Title       string    `db:"title" json:"title"`
	Location    string    `db:"location" json:"location"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduled_at"`
	MinutesURL  string    `db:"minutes_url" json:"minutes_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Validate checks the submitted meeting form.
func (m *Meeting) Validate() error {
	errs := controller.FieldErrors{}
	errs.Require("committee_id", m.CommitteeID)
	errs.Require("title", m.Title)
	if m.ScheduledAt.IsZero() {
		errs.Add("scheduled_at", "is required")
	}
	return errs.Err()
}

// MeetingMapper maps Meeting entities to and from database rows.
type MeetingMapper struct{}

// Columns returns the meeting columns in scan order.
func (MeetingMapper) Columns() []string {
	return []string{"id", "committee_id", "title", "location", "scheduled_at", "minutes_url", "created_at"}
}

// ToRow converts a meeting to values matching Columns.
func (MeetingMapper) ToRow(m *Meeting) ([]interface{}, error) {
	return []interface{}{m.ID, m.CommitteeID, m.Title, m.Location, m.ScheduledAt, m.MinutesURL, m.CreatedAt}, nil
}

// FromRow scans a database row into a meeting.
func (MeetingMapper) FromRow(rows *sql.Rows) (*Meeting, error) {
	m := &Meeting{}
	if err := rows.Scan(&m.ID, &m.CommitteeID, &m.Title, &m.Location, &m.ScheduledAt, &m.MinutesURL, &m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

// GetID extracts the meeting's ID.
func (MeetingMapper) GetID(m *Meeting) string {
	return m.ID
}

// MeetingTableColumns describes the meetings list screen.
func MeetingTableColumns() []tableview.Column[Meeting] {
	return []tableview.Column[Meeting]{
		{Key: "title", Title: "Title", Sortable: true, Filterable: true, Value: func(m Meeting) any { return m.Title }},
		{Key: "committee_id", Title: "Committee", Filterable: true, Value: func(m Meeting) any { return m.CommitteeID }},
		{Key: "location", Title: "Location", Sortable: true, Filterable: true, Value: func(m Meeting) any { return m.Location }},
		{Key: "scheduled_at", Title: "Scheduled", Sortable: true, Value: func(m Meeting) any { return m.ScheduledAt },
			Render: func(_ any, m Meeting) string { return m.ScheduledAt.Format("2006-01-02 15:04") }},
	}
}

// Attendance status constants
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceExcused = "excused"
)

// Attendance records whether a person attended a meeting.
type Attendance struct {
	ID        string `db:"id" json:"id"`
	MeetingID string `db:"meeting_id" json:"meeting_id"`
	PersonID  string `db:"person_id" json:"person_id"`
	Status    string `db:"status" json:"status"`
	Note      string `db:"note" json:"note"`
}

// Validate checks the submitted attendance form.
func (a *Attendance) Validate() error {
	errs := controller.FieldErrors{}
	errs.Require("meeting_id", a.MeetingID)
	errs.Require("person_id", a.PersonID)
	errs.Require("status", a.Status)
	errs.OneOf("status", a.Status, AttendancePresent, AttendanceAbsent, AttendanceExcused)
	return errs.Err()
}

// AttendanceMapper maps Attendance entities to and from database rows.
type AttendanceMapper struct{}

// Columns returns the attendance columns in scan order.
func (AttendanceMapper) Columns() []string {
	return []string{"id", "meeting_id", "person_id", "status", "note"}
}

// ToRow converts an attendance record to values matching Columns.
func (AttendanceMapper) ToRow(a *Attendance) ([]interface{}, error) {
	return []interface{}{a.ID, a.MeetingID, a.PersonID, a.Status, a.Note}, nil
}

// FromRow scans a database row into an attendance record.
func (AttendanceMapper) FromRow(rows *sql.Rows) (*Attendance, error) {
	a := &Attendance{}
	if err := rows.Scan(&a.ID, &a.MeetingID, &a.PersonID, &a.Status, &a.Note); err != nil {
		return nil, err
	}
	return a, nil
}

// GetID extracts the attendance record's ID.
func (AttendanceMapper) GetID(a *Attendance) string {
	return a.ID
}

// AttendanceTableColumns describes the attendance list screen.
func AttendanceTableColumns() []tableview.Column[Attendance] {
	return []tableview.Column[Attendance]{
		{Key: "meeting_id", Title: "Meeting", Filterable: true, Value: func(a Attendance) any { return a.MeetingID }},
		{Key: "person_id", Title: "Person", Filterable: true, Value: func(a Attendance) any { return a.PersonID }},
		{Key: "status", Title: "Status", Sortable: true, Filterable: true, Value: func(a Attendance) any { return a.Status }},
		{Key: "note", Title: "Note", Value: func(a Attendance) any { return a.Note }},
	}
}
