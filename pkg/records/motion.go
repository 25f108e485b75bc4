package records

import (
	"database/sql"
	"time"

	"github.com/caucusdesk/caucusdesk/pkg/controller"
	"github.com/caucusdesk/caucusdesk/pkg/tableview"
)

// Motion status constants
const (
	MotionPending  = "pending"
	MotionPassed   = "passed"
	MotionRejected = "rejected"
	MotionTabled   = "tabled"
)

// Motion is a proposal put before a committee for a vote.
type Motion struct {
	ID           string     `db:"id" json:"id"`
	MeetingID    *string    `db:"meeting_id" json:"meeting_id"`
	Title        string     `db:"title" json:"title"`
	Text         string     `db:"text" json:"text"`
	ProposedBy   string     `db:"proposed_by" json:"proposed_by"`
	Status       string     `db:"status" json:"status"`
	VotesFor     int        `db:"votes_for" json:"votes_for"`
	VotesAgainst int        `db:"votes_against" json:"votes_against"`
	VotesAbstain int        `db:"votes_abstain" json:"votes_abstain"`
	DecidedOn    *time.Time `db:"decided_on" json:"decided_on"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Validate checks the submitted motion form.
func (m *Motion) Validate() error {
	errs := controller.FieldErrors{}
	errs.Require("title", m.Title)
	errs.Require("proposed_by", m.ProposedBy)
	errs.Require("status", m.Status)
	errs.OneOf("status", m.Status, MotionPending, MotionPassed, MotionRejected, MotionTabled)
	if m.VotesFor < 0 || m.VotesAgainst < 0 || m.VotesAbstain < 0 {
		errs.Add("votes", "vote counts must not be negative")
	}
	return errs.Err()
}

// MotionMapper maps Motion entities to and from database rows.
type MotionMapper struct{}

// Columns returns the motion columns in scan order.
func (MotionMapper) Columns() []string {
	return []string{"id", "meeting_id", "title", "text", "proposed_by", "status", "votes_for", "votes_against", "votes_abstain", "decided_on", "created_at"}
}

// ToRow converts a motion to values matching Columns.
func (MotionMapper) ToRow(m *Motion) ([]interface{}, error) {
	return []interface{}{
		m.ID, nullableString(m.MeetingID), m.Title, m.Text, m.ProposedBy, m.Status,
		m.VotesFor, m.VotesAgainst, m.VotesAbstain, nullableTime(m.DecidedOn), m.CreatedAt,
	}, nil
}

// FromRow scans a database row into a motion.
func (MotionMapper) FromRow(rows *sql.Rows) (*Motion, error) {
	m := &Motion{}
	var meetingID sql.NullString
	var decidedOn sql.NullTime
	if err := rows.Scan(&m.ID, &meetingID, &m.Title, &m.Text, &m.ProposedBy, &m.Status,
		&m.VotesFor, &m.VotesAgainst, &m.VotesAbstain, &decidedOn, &m.CreatedAt); err != nil {
		return nil, err
	}
	if meetingID.Valid {
		m.MeetingID = &meetingID.String
	}
	if decidedOn.Valid {
		m.DecidedOn = &decidedOn.Time
	}
	return m, nil
}

// GetID extracts the motion's ID.
func (MotionMapper) GetID(m *Motion) string {
	return m.ID
}

// MotionTableColumns describes the motions list screen.
func MotionTableColumns() []tableview.Column[Motion] {
	return []tableview.Column[Motion]{
		{Key: "title", Title: "Title", Sortable: true, Filterable: true, Value: func(m Motion) any { return m.Title }},
		{Key: "proposed_by", Title: "Proposed By", Filterable: true, Value: func(m Motion) any { return m.ProposedBy }},
		{Key: "status", Title: "Status", Sortable: true, Filterable: true, Value: func(m Motion) any { return m.Status }},
		{Key: "votes_for", Title: "For", Sortable: true, Value: func(m Motion) any { return m.VotesFor }},
		{Key: "votes_against", Title: "Against", Sortable: true, Value: func(m Motion) any { return m.VotesAgainst }},
		{Key: "votes_abstain", Title: "Abstain", Sortable: true, Value: func(m Motion) any { return m.VotesAbstain }},
		{Key: "decided_on", Title: "Decided", Sortable: true, Value: func(m Motion) any { return m.DecidedOn },
			Render: func(_ any, m Motion) string {
				if m.DecidedOn == nil {
					return ""
				}
				return m.DecidedOn.Format("2006-01-02")
			}},
	}
}
