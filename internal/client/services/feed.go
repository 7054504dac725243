package services

import (
	"cmp"
	"context"
	"slices"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/feedrpc"
	"github.com/dmitrijs2005/gophblog/internal/logging"
)

// FeedService reads the remote posts collection.
type FeedService interface {
	// FetchAll issues one query for every post and returns them ordered by
	// ascending timestamp. Nothing is cached, filtered or deduplicated, and
	// failures are not retried.
	FetchAll(ctx context.Context) ([]models.Post, error)
}

type feedService struct {
	source client.DocumentSource
	logger logging.Logger
}

func NewFeedService(source client.DocumentSource, logger logging.Logger) FeedService {
	return &feedService{source: source, logger: logging.OrNop(logger).With("module", "feed")}
}

func (f *feedService) FetchAll(ctx context.Context) ([]models.Post, error) {
	docs, err := f.source.Query(ctx, feedrpc.Query{
		Collection: common.PostsCollection,
		OrderBy:    common.TimestampField,
	})
	if err != nil {
		f.logger.Warn(ctx, "feed fetch failed", "error", err)
		return nil, err
	}

	posts := models.PostsFromDocuments(docs)
	// The source already orders by timestamp; a stable sort keeps that
	// order for equal timestamps and guards against unordered sources.
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})

	f.logger.Debug(ctx, "feed fetched", "count", len(posts))
	return posts, nil
}
