// Package preferences stores typed key/value slots grouped by namespace.
// It is the durable layer behind the user profile and installation data.
package preferences

import "context"

// Repository reads and writes single preference slots. Getters report
// ok=false (and no error) when the slot has never been written.
type Repository interface {
	GetString(ctx context.Context, key string) (value string, ok bool, err error)
	GetInt(ctx context.Context, key string) (value int64, ok bool, err error)
	SetString(ctx context.Context, key string, value string) error
	SetInt(ctx context.Context, key string, value int64) error
}
