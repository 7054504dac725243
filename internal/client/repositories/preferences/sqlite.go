package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/dbx"
)

type SQLiteRepository struct {
	db        dbx.DBTX
	namespace string
}

// NewSQLiteRepository binds a repository to db (a *sql.DB or *sql.Tx) and
// one namespace.
func NewSQLiteRepository(db dbx.DBTX, namespace string) *SQLiteRepository {
	return &SQLiteRepository{db: db, namespace: namespace}
}

func (r *SQLiteRepository) GetString(ctx context.Context, key string) (string, bool, error) {
	var v sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT text_value FROM preferences WHERE namespace = ? AND key = ?`, r.namespace, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference[%s/%s]: %w", r.namespace, key, err)
	}
	return v.String, v.Valid, nil
}

func (r *SQLiteRepository) GetInt(ctx context.Context, key string) (int64, bool, error) {
	var v sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT int_value FROM preferences WHERE namespace = ? AND key = ?`, r.namespace, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get preference[%s/%s]: %w", r.namespace, key, err)
	}
	return v.Int64, v.Valid, nil
}

func (r *SQLiteRepository) SetString(ctx context.Context, key string, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (namespace, key, text_value, int_value) VALUES (?, ?, ?, NULL)
		ON CONFLICT(namespace, key) DO UPDATE SET text_value = excluded.text_value, int_value = NULL
	`, r.namespace, key, value)
	if err != nil {
		return fmt.Errorf("failed to set preference[%s/%s]: %w", r.namespace, key, err)
	}
	return nil
}

func (r *SQLiteRepository) SetInt(ctx context.Context, key string, value int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (namespace, key, text_value, int_value) VALUES (?, ?, NULL, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET text_value = NULL, int_value = excluded.int_value
	`, r.namespace, key, value)
	if err != nil {
		return fmt.Errorf("failed to set preference[%s/%s]: %w", r.namespace, key, err)
	}
	return nil
}
