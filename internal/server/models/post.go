// Package models holds the server-side row types.
package models

import "database/sql"

// Post is one row of the posts table. Every payload column is nullable:
// documents are sparse and a missing field is simply absent.
type Post struct {
	ID        int64
	Text      sql.NullString
	ImageURL  sql.NullString
	FileURL   sql.NullString
	FileKey   sql.NullString
	Timestamp sql.NullInt64
}
