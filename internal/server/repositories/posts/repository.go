package posts

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

type Repository interface {
	// SelectOrdered returns every post ordered ascending by the document
	// field orderBy, or by insertion order when orderBy is empty.
	SelectOrdered(ctx context.Context, orderBy string) ([]*models.Post, error)
	Create(ctx context.Context, post *models.Post) (int64, error)
}
