// Package services implements the document service behind the gRPC API:
// reading the posts collection as sparse documents and publishing posts.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/feedrpc"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
)

// Document field names as seen by clients.
const (
	FieldText      = "text"
	FieldImageURL  = "imageUrl"
	FieldFileURL   = "fileUrl"
	FieldTimestamp = common.TimestampField
)

// now is a seam for tests.
var now = time.Now

type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	presigner   Presigner
	logger      logging.Logger
}

func NewDocumentService(db *sql.DB, repomanager repomanager.RepositoryManager, presigner Presigner, logger logging.Logger) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: repomanager,
		presigner:   presigner,
		logger:      logging.OrNop(logger).With("module", "documents"),
	}
}

// Query returns every document of q.Collection ordered by q.OrderBy.
// Only the posts collection exists; other names yield common.ErrorNotFound.
func (s *DocumentService) Query(ctx context.Context, q feedrpc.Query) ([]map[string]any, error) {
	if q.Collection != common.PostsCollection {
		return nil, fmt.Errorf("collection %q: %w", q.Collection, common.ErrorNotFound)
	}

	posts, err := s.repomanager.Posts(s.db).SelectOrdered(ctx, q.OrderBy)
	if err != nil {
		return nil, err
	}

	docs := make([]map[string]any, 0, len(posts))
	for _, p := range posts {
		docs = append(docs, s.document(ctx, p))
	}
	return docs, nil
}

// document renders a row sparsely: NULL columns are left out. A stored
// attachment key is served as a presigned fileUrl unless the row already
// carries an explicit link; a presign failure drops the link, not the post.
func (s *DocumentService) document(ctx context.Context, p *models.Post) map[string]any {
	doc := make(map[string]any, 4)
	if p.Text.Valid {
		doc[FieldText] = p.Text.String
	}
	if p.ImageURL.Valid {
		doc[FieldImageURL] = p.ImageURL.String
	}
	if p.Timestamp.Valid {
		doc[FieldTimestamp] = p.Timestamp.Int64
	}

	switch {
	case p.FileURL.Valid:
		doc[FieldFileURL] = p.FileURL.String
	case p.FileKey.Valid && p.FileKey.String != "" && s.presigner != nil:
		url, err := s.presigner.PresignGet(ctx, p.FileKey.String)
		if err != nil {
			s.logger.Warn(ctx, "attachment link unavailable", "post_id", p.ID, "error", err)
			break
		}
		doc[FieldFileURL] = url
	}
	return doc
}

// PublishRequest describes a new post. Empty strings are stored as NULL.
type PublishRequest struct {
	Text     string
	ImageURL string
	FileURL  string

	// WithAttachment reserves an object key for a file upload.
	WithAttachment bool
}

type PublishResult struct {
	ID        int64
	Timestamp int64

	// UploadURL is a presigned PUT link for the attachment, if requested.
	UploadURL string
}

// Publish stores a post stamped with the current time.
func (s *DocumentService) Publish(ctx context.Context, req PublishRequest) (PublishResult, error) {
	t := now()
	post := &models.Post{
		Text:      nullString(req.Text),
		ImageURL:  nullString(req.ImageURL),
		FileURL:   nullString(req.FileURL),
		Timestamp: sql.NullInt64{Int64: t.UnixMilli(), Valid: true},
	}

	var result PublishResult
	if req.WithAttachment {
		if s.presigner == nil {
			return PublishResult{}, fmt.Errorf("attachment storage is not configured")
		}
		key := NewStorageKey(t)
		url, err := s.presigner.PresignPut(ctx, key)
		if err != nil {
			return PublishResult{}, err
		}
		post.FileKey = nullString(key)
		result.UploadURL = url
	}

	id, err := s.repomanager.Posts(s.db).Create(ctx, post)
	if err != nil {
		return PublishResult{}, err
	}

	result.ID = id
	result.Timestamp = post.Timestamp.Int64
	s.logger.Info(ctx, "post published", "post_id", id, "attachment", req.WithAttachment)
	return result, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
