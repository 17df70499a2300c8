package models

import (
	"strings"
	"time"
)

// Category represents a user-defined grouping for stock items.
// Category names are unique under case-insensitive comparison.
type Category struct {
	ID          UUID   `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
	CreatedAt   int64  `db:"created_at" json:"created_at"`
	UpdatedAt   int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Category.
func (Category) TableName() string {
	return "categories"
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (c *Category) CreatedAtTime() time.Time {
	return time.Unix(c.CreatedAt, 0)
}

// UpdatedAtTime returns the UpdatedAt as time.Time.
func (c *Category) UpdatedAtTime() time.Time {
	return time.Unix(c.UpdatedAt, 0)
}

// Touch updates the UpdatedAt timestamp.
func (c *Category) Touch() {
	c.UpdatedAt = time.Now().Unix()
}

// NameEquals reports whether the category name matches under the
// case-insensitive comparison used for uniqueness.
func (c *Category) NameEquals(name string) bool {
	return strings.EqualFold(c.Name, name)
}
