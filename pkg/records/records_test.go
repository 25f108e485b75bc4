package records

import (
	"errors"
	"testing"
	"time"

	"github.com/caucusdesk/caucusdesk/pkg/controller"
)

func fieldErrors(t *testing.T, err error) map[string]interface{} {
	t.Helper()
	var appErr *controller.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *controller.AppError, got %T", err)
	}
	if appErr.Code != "validation.failed" {
		t.Fatalf("expected validation.failed, got %q", appErr.Code)
	}
	return appErr.Details
}

func TestPersonValidate(t *testing.T) {
	tests := []struct {
		name      string
		person    Person
		wantField string
	}{
		{
			name:   "valid",
			person: Person{FullName: "Ada Okafor", Email: "ada@example.org"},
		},
		{
			name:      "missing name",
			person:    Person{Email: "ada@example.org"},
			wantField: "full_name",
		},
		{
			name:      "missing email",
			person:    Person{FullName: "Ada Okafor"},
			wantField: "email",
		},
		{
			name:      "malformed email",
			person:    Person{FullName: "Ada Okafor", Email: "not-an-email"},
			wantField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.person.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			details := fieldErrors(t, err)
			if _, ok := details[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, details)
			}
		})
	}
}

func TestAttendanceValidateStatus(t *testing.T) {
	a := Attendance{MeetingID: "m1", PersonID: "p1", Status: "maybe"}
	details := fieldErrors(t, a.Validate())
	if _, ok := details["status"]; !ok {
		t.Errorf("expected status error, got %v", details)
	}

	a.Status = AttendanceExcused
	if err := a.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMotionValidate(t *testing.T) {
	tests := []struct {
		name      string
		motion    Motion
		wantField string
	}{
		{
			name:   "valid pending",
			motion: Motion{Title: "Adopt budget", ProposedBy: "p1", Status: MotionPending},
		},
		{
			name:      "bad status",
			motion:    Motion{Title: "Adopt budget", ProposedBy: "p1", Status: "approved"},
			wantField: "status",
		},
		{
			name:      "negative votes",
			motion:    Motion{Title: "Adopt budget", ProposedBy: "p1", Status: MotionPassed, VotesFor: -1},
			wantField: "votes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.motion.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			details := fieldErrors(t, err)
			if _, ok := details[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, details)
			}
		})
	}
}

func TestPolicyValidateStatus(t *testing.T) {
	p := Policy{Title: "Housing platform", Status: "proposed"}
	details := fieldErrors(t, p.Validate())
	if _, ok := details["status"]; !ok {
		t.Errorf("expected status error, got %v", details)
	}

	p.Status = PolicyAdopted
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewsItemValidatePublished(t *testing.T) {
	n := NewsItem{Title: "Convention recap", Slug: "convention-recap", Published: true}
	details := fieldErrors(t, n.Validate())
	if _, ok := details["published_at"]; !ok {
		t.Errorf("expected published_at error, got %v", details)
	}

	now := time.Now()
	n.PublishedAt = &now
	if err := n.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEventValidateRange(t *testing.T) {
	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	e := Event{Title: "Town hall", StartsAt: start, EndsAt: &end}
	details := fieldErrors(t, e.Validate())
	if _, ok := details["ends_at"]; !ok {
		t.Errorf("expected ends_at error, got %v", details)
	}

	end = start.Add(2 * time.Hour)
	if err := e.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMeetingValidateScheduledAt(t *testing.T) {
	m := Meeting{CommitteeID: "c1", Title: "March sitting"}
	details := fieldErrors(t, m.Validate())
	if _, ok := details["scheduled_at"]; !ok {
		t.Errorf("expected scheduled_at error, got %v", details)
	}
}

func TestPersonTableColumnRenders(t *testing.T) {
	cols := PersonTableColumns()

	byKey := map[string]int{}
	for i, c := range cols {
		byKey[c.Key] = i
	}

	p := Person{Active: true, JoinedOn: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)}

	if got := cols[byKey["active"]].DisplayValue(p); got != "active" {
		t.Errorf("active render = %q, want %q", got, "active")
	}
	p.Active = false
	if got := cols[byKey["active"]].DisplayValue(p); got != "inactive" {
		t.Errorf("active render = %q, want %q", got, "inactive")
	}
	if got := cols[byKey["joined_on"]].DisplayValue(p); got != "2024-07-15" {
		t.Errorf("joined_on render = %q, want %q", got, "2024-07-15")
	}
}

func TestMotionTableNullableRenders(t *testing.T) {
	cols := MotionTableColumns()
	var decidedCol int
	for i, c := range cols {
		if c.Key == "decided_on" {
			decidedCol = i
		}
	}

	m := Motion{Status: MotionPending}
	if got := cols[decidedCol].DisplayValue(m); got != "" {
		t.Errorf("undecided motion renders %q, want empty", got)
	}

	decided := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	m.DecidedOn = &decided
	if got := cols[decidedCol].DisplayValue(m); got != "2026-02-10" {
		t.Errorf("decided motion renders %q, want %q", got, "2026-02-10")
	}
}
