package screens

import (
	"time"

	"github.com/caucusdesk/caucusdesk/pkg/observability/logger"
	"github.com/caucusdesk/caucusdesk/pkg/records"
	"github.com/caucusdesk/caucusdesk/pkg/repository"
	"github.com/caucusdesk/caucusdesk/pkg/server/router"
)

// RegisterAll mounts every dashboard screen on the given route group. The
// write middleware (typically the editor role check) guards mutating routes
// only.
func RegisterAll(rt router.Router, store repository.SQLExecutor, log logger.Logger, write ...router.MiddlewareFunc) {
	now := func() time.Time { return time.Now().UTC() }

	people := &Screen[records.Person]{
		Name:     "people",
		Title:    "Personnel",
		Repo:     repository.NewGenericCrudRepository[records.Person, string](store, "people", "id", records.PersonMapper{}),
		Columns:  records.PersonTableColumns(),
		Validate: func(p *records.Person) error { return p.Validate() },
		SetID:    func(p *records.Person, id string) { p.ID = id },
		OnCreate: func(p *records.Person) { p.CreatedAt = now() },
		Logger:   log,
	}
	people.Register(rt, write...)

	committees := &Screen[records.Committee]{
		Name:     "committees",
		Title:    "Committees",
		Repo:     repository.NewGenericCrudRepository[records.Committee, string](store, "committees", "id", records.CommitteeMapper{}),
		Columns:  records.CommitteeTableColumns(),
		Validate: func(c *records.Committee) error { return c.Validate() },
		SetID:    func(c *records.Committee, id string) { c.ID = id },
		OnCreate: func(c *records.Committee) { c.CreatedAt = now() },
		Logger:   log,
	}
	committees.Register(rt, write...)

	members := &Screen[records.CommitteeMember]{
		Name:     "members",
		Title:    "Committee Members",
		Repo:     repository.NewGenericCrudRepository[records.CommitteeMember, string](store, "committee_members", "id", records.CommitteeMemberMapper{}),
		Columns:  records.CommitteeMemberTableColumns(),
		Validate: func(m *records.CommitteeMember) error { return m.Validate() },
		SetID:    func(m *records.CommitteeMember, id string) { m.ID = id },
		OnCreate: func(m *records.CommitteeMember) {
			if m.Since.IsZero() {
				m.Since = now()
			}
		},
		Logger: log,
	}
	members.Register(rt, write...)

	meetings := &Screen[records.Meeting]{
		Name:     "meetings",
		Title:    "Meetings",
		Repo:     repository.NewGenericCrudRepository[records.Meeting, string](store, "meetings", "id", records.MeetingMapper{}),
		Columns:  records.MeetingTableColumns(),
		Validate: func(m *records.Meeting) error { return m.Validate() },
		SetID:    func(m *records.Meeting, id string) { m.ID = id },
		OnCreate: func(m *records.Meeting) { m.CreatedAt = now() },
		Logger:   log,
	}
	meetings.Register(rt, write...)

	attendance := &Screen[records.Attendance]{
		Name:     "attendance",
		Title:    "Attendance",
		Repo:     repository.NewGenericCrudRepository[records.Attendance, string](store, "attendance", "id", records.AttendanceMapper{}),
		Columns:  records.AttendanceTableColumns(),
		Validate: func(a *records.Attendance) error { return a.Validate() },
		SetID:    func(a *records.Attendance, id string) { a.ID = id },
		Logger:   log,
	}
	attendance.Register(rt, write...)

	motions := &Screen[records.Motion]{
		Name:     "motions",
		Title:    "Motions",
		Repo:     repository.NewGenericCrudRepository[records.Motion, string](store, "motions", "id", records.MotionMapper{}),
		Columns:  records.MotionTableColumns(),
		Validate: func(m *records.Motion) error { return m.Validate() },
		SetID:    func(m *records.Motion, id string) { m.ID = id },
		OnCreate: func(m *records.Motion) {
			m.CreatedAt = now()
			if m.Status == "" {
				m.Status = records.MotionPending
			}
		},
		Logger: log,
	}
	motions.Register(rt, write...)

	policies := &Screen[records.Policy]{
		Name:     "policies",
		Title:    "Policies",
		Repo:     repository.NewGenericCrudRepository[records.Policy, string](store, "policies", "id", records.PolicyMapper{}),
		Columns:  records.PolicyTableColumns(),
		Validate: func(p *records.Policy) error { return p.Validate() },
		SetID:    func(p *records.Policy, id string) { p.ID = id },
		OnCreate: func(p *records.Policy) {
			p.CreatedAt = now()
			if p.Status == "" {
				p.Status = records.PolicyDraft
			}
		},
		Logger: log,
	}
	policies.Register(rt, write...)

	news := &Screen[records.NewsItem]{
		Name:     "news",
		Title:    "News",
		Repo:     repository.NewGenericCrudRepository[records.NewsItem, string](store, "news_items", "id", records.NewsItemMapper{}),
		Columns:  records.NewsItemTableColumns(),
		Validate: func(n *records.NewsItem) error { return n.Validate() },
		SetID:    func(n *records.NewsItem, id string) { n.ID = id },
		OnCreate: func(n *records.NewsItem) { n.CreatedAt = now() },
		Logger:   log,
	}
	news.Register(rt, write...)

	events := &Screen[records.Event]{
		Name:     "events",
		Title:    "Events",
		Repo:     repository.NewGenericCrudRepository[records.Event, string](store, "events", "id", records.EventMapper{}),
		Columns:  records.EventTableColumns(),
		Validate: func(e *records.Event) error { return e.Validate() },
		SetID:    func(e *records.Event, id string) { e.ID = id },
		OnCreate: func(e *records.Event) { e.CreatedAt = now() },
		Logger:   log,
	}
	events.Register(rt, write...)
}
