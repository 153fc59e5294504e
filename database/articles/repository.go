package articles

import (
	"context"
	"fmt"

	"medipoint/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles document store operations for crawled articles and alerts
type Repository struct {
	articles *mongo.Collection
	alerts   *mongo.Collection
}

// NewRepository creates a new articles repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{
		articles: db.Collection(database.CollectionRawArticles),
		alerts:   db.Collection(database.CollectionAlerts),
	}
}

// articleFilter picks the upsert identity for a crawled article: URL when the
// source provides a stable one, title otherwise (mock sources).
func articleFilter(a *database.RawArticle) bson.M {
	if a.URL != "" && a.Status != database.ArticleStatusMock {
		return bson.M{"url": a.URL}
	}
	return bson.M{"title": a.Title}
}

// UpsertArticle inserts or updates a crawled article. Upserting the same key
// twice converges to the last write, never duplicates.
func (r *Repository) UpsertArticle(ctx context.Context, a *database.RawArticle) error {
	_, err := r.articles.UpdateOne(ctx,
		articleFilter(a),
		bson.M{"$set": a},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("UpsertArticle: %w", err)
	}
	return nil
}

// UpsertAlert inserts or updates a bulletin alert, keyed by title.
func (r *Repository) UpsertAlert(ctx context.Context, a *database.Alert) error {
	_, err := r.alerts.UpdateOne(ctx,
		bson.M{"title": a.Title},
		bson.M{"$set": a},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("UpsertAlert: %w", err)
	}
	return nil
}

// LatestArticles returns the most recently crawled articles, newest first.
func (r *Repository) LatestArticles(ctx context.Context, limit int) ([]database.RawArticle, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "crawled_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.articles.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("LatestArticles: %w", err)
	}
	defer cur.Close(ctx)

	var out []database.RawArticle
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("LatestArticles: %w", err)
	}
	return out, nil
}

// LatestAlerts returns the most recently crawled alerts, newest first.
func (r *Repository) LatestAlerts(ctx context.Context, limit int) ([]database.Alert, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "crawled_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.alerts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("LatestAlerts: %w", err)
	}
	defer cur.Close(ctx)

	var out []database.Alert
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("LatestAlerts: %w", err)
	}
	return out, nil
}
