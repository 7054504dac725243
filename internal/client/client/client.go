package client

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/feedrpc"
)

// DocumentSource is the read side of the remote document store.
//
// Query returns every record of q.Collection, ordered ascending by
// q.OrderBy when it is set. Failures are reported as
// common.ErrNetworkFailure or common.ErrRemoteServiceFailure.
type DocumentSource interface {
	Query(ctx context.Context, q feedrpc.Query) ([]models.Document, error)
}

// Client is the full remote API used by the shell.
type Client interface {
	DocumentSource
	Ping(ctx context.Context) error
	Close() error
}
