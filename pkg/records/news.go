package records

import (
	"database/sql"
	"time"

	"github.com/caucusdesk/caucusdesk/pkg/controller"
	"github.com/caucusdesk/caucusdesk/pkg/tableview"
)

// NewsItem is an announcement published on the public site.
type NewsItem struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Body        string     `db:"body" json:"body"`
	AuthorID    string     `db:"author_id" json:"author_id"`
	Published   bool       `db:"published" json:"published"`
	PublishedAt *time.Time `db:"published_at" json:"published_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Validate checks the submitted news form.
func (n *NewsItem) Validate() error {
	errs := controller.FieldErrors{}
	errs.Require("title", n.Title)
	errs.Require("slug", n.Slug)
	if n.Published && n.PublishedAt == nil {
		errs.Add("published_at", "is required when published")
	}
	return errs.Err()
}

// NewsItemMapper maps NewsItem entities to and from database rows.
type NewsItemMapper struct{}

// Columns returns the news item columns in scan order.
func (NewsItemMapper) Columns() []string {
	return []string{"id", "title", "slug", "body", "author_id", "published", "published_at", "created_at"}
}

// ToRow converts a news item to values matching Columns.
func (NewsItemMapper) ToRow(n *NewsItem) ([]interface{}, error) {
	return []interface{}{n.ID, n.Title, n.Slug, n.Body, n.AuthorID, n.Published, nullableTime(n.PublishedAt), n.CreatedAt}, nil
}

// FromRow scans a database row into a news item.
func (NewsItemMapper) FromRow(rows *sql.Rows) (*NewsItem, error) {
	n := &NewsItem{}
	var publishedAt sql.NullTime
	if err := rows.Scan(&n.ID, &n.Title, &n.Slug, &n.Body, &n.AuthorID, &n.Published, &publishedAt, &n.CreatedAt); err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		n.PublishedAt = &publishedAt.Time
	}
	return n, nil
}

// GetID extracts the news item's ID.
func (NewsItemMapper) GetID(n *NewsItem) string {
	return n.ID
}

// NewsItemTableColumns describes the news list screen.
func NewsItemTableColumns() []tableview.Column[NewsItem] {
	return []tableview.Column[NewsItem]{
		{Key: "title", Title: "Title", Sortable: true, Filterable: true, Value: func(n NewsItem) any { return n.Title }},
		{Key: "slug", Title: "Slug", Sortable: true, Filterable: true, Value: func(n NewsItem) any { return n.Slug }},
		{Key: "author_id", Title: "Author", Filterable: true, Value: func(n NewsItem) any { return n.AuthorID }},
		{Key: "published", Title: "Published", Sortable: true, Value: func(n NewsItem) any { return n.Published },
			Render: func(value any, _ NewsItem) string {
				if value == true {
					return "published"
				}
				return "draft"
			}},
		{Key: "published_at", Title: "Published At", Sortable: true, Value: func(n NewsItem) any { return n.PublishedAt },
			Render: func(_ any, n NewsItem) string {
				if n.PublishedAt == nil {
					return ""
				}
				return n.PublishedAt.Format("2006-01-02 15:04")
			}},
	}
}
