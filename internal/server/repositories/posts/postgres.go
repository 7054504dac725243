// Package posts provides the PostgreSQL-backed repository of the posts
// collection.
package posts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// orderColumns maps document field names to sortable columns.
var orderColumns = map[string]string{
	"":          "id",
	"timestamp": "timestamp",
	"text":      "text",
}

// PostgresRepository implements post storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SelectOrdered returns all posts. Rows with a NULL sort key come first,
// ties keep insertion order. An unsupported orderBy yields
// common.ErrInvalidQuery.
func (r *PostgresRepository) SelectOrdered(ctx context.Context, orderBy string) ([]*models.Post, error) {
	column, ok := orderColumns[orderBy]
	if !ok {
		return nil, fmt.Errorf("%w: cannot order by %q", common.ErrInvalidQuery, orderBy)
	}

	query := `SELECT id, text, image_url, file_url, file_key, timestamp FROM posts
		ORDER BY ` + column + ` ASC NULLS FIRST, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select posts: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Post, 0)
	for rows.Next() {
		var item models.Post
		if err := rows.Scan(
			&item.ID, &item.Text, &item.ImageURL, &item.FileURL, &item.FileKey, &item.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts post and returns its id.
func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `INSERT INTO posts (text, image_url, file_url, file_key, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		post.Text, post.ImageURL, post.FileURL, post.FileKey, post.Timestamp).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert post: %w", err)
	}
	return id, nil
}
