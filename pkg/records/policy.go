package records

import (
	"database/sql"
	"time"

	"github.com/caucusdesk/caucusdesk/pkg/controller"
	"github.com/caucusdesk/caucusdesk/pkg/tableview"
)

// Policy status constants
const (
	PolicyDraft   = "draft"
	PolicyAdopted = "adopted"
	PolicyRetired = "retired"
)

// Policy is a position document maintained by the organization.
type Policy struct {
	ID        string     `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Summary   string     `db:"summary" json:"summary"`
	Body      string     `db:"body" json:"body"`
	Category  string     `db:"category" json:"category"`
	Status    string     `db:"status" json:"status"`
	AdoptedOn *time.Time `db:"adopted_on" json:"adopted_on"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Validate checks the submitted policy form.
func (p *Policy) Validate() error {
	errs := controller.FieldErrors{}
	errs.Require("title", p.Title)
	errs.Require("status", p.Status)
	errs.OneOf("status", p.Status, PolicyDraft, PolicyAdopted, PolicyRetired)
	return errs.Err()
}

// PolicyMapper maps Policy entities to and from database rows.
type PolicyMapper struct{}

// Columns returns the policy columns in scan order.
func (PolicyMapper) Columns() []string {
	return []string{"id", "title", "summary", "body", "category", "status", "adopted_on", "created_at"}
}

// ToRow converts a policy to values matching Columns.
func (PolicyMapper) ToRow(p *Policy) ([]interface{}, error) {
	return []interface{}{p.ID, p.Title, p.Summary, p.Body, p.Category, p.Status, nullableTime(p.AdoptedOn), p.CreatedAt}, nil
}

// FromRow scans a database row into a policy.
func (PolicyMapper) FromRow(rows *sql.Rows) (*Policy, error) {
	p := &Policy{}
	var adoptedOn sql.NullTime
	if err := rows.Scan(&p.ID, &p.Title, &p.Summary, &p.Body, &p.Category, &p.Status, &adoptedOn, &p.CreatedAt); err != nil {
		return nil, err
	}
	if adoptedOn.Valid {
		p.AdoptedOn = &adoptedOn.Time
	}
	return p, nil
}

// GetID extracts the policy's ID.
func (PolicyMapper) GetID(p *Policy) string {
	return p.ID
}

// PolicyTableColumns describes the policies list screen.
func PolicyTableColumns() []tableview.Column[Policy] {
	return []tableview.Column[Policy]{
		{Key: "title", Title: "Title", Sortable: true, Filterable: true, Value: func(p Policy) any { return p.Title }},
		{Key: "category", Title: "Category", Sortable: true, Filterable: true, Value: func(p Policy) any { return p.Category }},
		{Key: "status", Title: "Status", Sortable: true, Filterable: true, Value: func(p Policy) any { return p.Status }},
		{Key: "adopted_on", Title: "Adopted", Sortable: true, Value: func(p Policy) any { return p.AdoptedOn },
			Render: func(_ any, p Policy) string {
				if p.AdoptedOn == nil {
					return ""
				}
				return p.AdoptedOn.Format("2006-01-02")
			}},
	}
}
