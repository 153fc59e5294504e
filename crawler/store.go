package crawler

import (
	"context"

	"medipoint/database"
)

// ArticleStore is the write side the crawlers need from the document store.
// Implemented by database/articles.Repository.
type ArticleStore interface {
	UpsertArticle(ctx context.Context, a *database.RawArticle) error
	UpsertAlert(ctx context.Context, a *database.Alert) error
}
