package summary

import (
	"context"
	"fmt"

	"medipoint/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository reads the pre-aggregated summary collections and serves the raw
// collection dump endpoints.
type Repository struct {
	daily     *mongo.Collection
	summary   *mongo.Collection
	category  *mongo.Collection
	sales     *mongo.Collection
	inventory *mongo.Collection
}

// NewRepository creates a new summary repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{
		daily:     db.Collection(database.CollectionDailyCategorySummary),
		summary:   db.Collection(database.CollectionSummary),
		category:  db.Collection(database.CollectionCategory),
		sales:     db.Collection(database.CollectionSales),
		inventory: db.Collection(database.CollectionInventory),
	}
}

// DailyKPITotals sums revenue and gross profit for one store-day from the
// pre-aggregated daily_category_summary collection. found is false when the
// store-day has no rows.
func (r *Repository) DailyKPITotals(ctx context.Context, date, storeID string) (revenue, grossProfit float64, found bool, err error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"date": date, "store_id": storeID}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_revenue", Value: bson.D{{Key: "$sum", Value: "$revenue"}}},
			{Key: "total_gp", Value: bson.D{{Key: "$sum", Value: "$gross_profit"}}},
		}}},
	}

	cur, err := r.daily.Aggregate(ctx, pipe)
	if err != nil {
		return 0, 0, false, fmt.Errorf("DailyKPITotals: %w", err)
	}
	var totals []struct {
		TotalRevenue float64 `bson:"total_revenue"`
		TotalGP      float64 `bson:"total_gp"`
	}
	if err := cur.All(ctx, &totals); err != nil {
		return 0, 0, false, fmt.Errorf("DailyKPITotals: %w", err)
	}
	if len(totals) == 0 {
		return 0, 0, false, nil
	}
	return totals[0].TotalRevenue, totals[0].TotalGP, true, nil
}

// SalesDump returns raw sales documents, capped at limit.
func (r *Repository) SalesDump(ctx context.Context, limit int) ([]bson.M, error) {
	return r.dump(ctx, r.sales, bson.M{}, options.Find().SetLimit(int64(limit)), "SalesDump")
}

// InventoryDump returns all raw inventory documents.
func (r *Repository) InventoryDump(ctx context.Context) ([]bson.M, error) {
	return r.dump(ctx, r.inventory, bson.M{}, options.Find(), "InventoryDump")
}

// InventoryLow returns raw inventory documents with stock below the threshold.
func (r *Repository) InventoryLow(ctx context.Context, threshold int) ([]bson.M, error) {
	filter := bson.M{"stock_on_hand": bson.M{"$lt": threshold}}
	return r.dump(ctx, r.inventory, filter, options.Find(), "InventoryLow")
}

// CategoryTrend returns category trend rows, newest first. An empty category
// returns every category capped at limit.
func (r *Repository) CategoryTrend(ctx context.Context, category string, limit int) ([]bson.M, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(int64(limit))
	return r.dump(ctx, r.category, filter, opts, "CategoryTrend")
}

// CategoryByDate returns all category rows for one day.
func (r *Repository) CategoryByDate(ctx context.Context, date string) ([]bson.M, error) {
	return r.dump(ctx, r.category, bson.M{"date": date}, options.Find(), "CategoryByDate")
}

// Summaries returns the latest daily summary rows, newest first.
func (r *Repository) Summaries(ctx context.Context, limit int) ([]bson.M, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(int64(limit))
	return r.dump(ctx, r.summary, bson.M{}, opts, "Summaries")
}

// SummaryByDate returns the daily summary rows for one day.
func (r *Repository) SummaryByDate(ctx context.Context, date string) ([]bson.M, error) {
	return r.dump(ctx, r.summary, bson.M{"date": date}, options.Find(), "SummaryByDate")
}

func (r *Repository) dump(ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions, op string) ([]bson.M, error) {
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stringifyIDs(docs), nil
}

// stringifyIDs renders ObjectID identifiers as hex strings so documents
// serialize cleanly to JSON.
func stringifyIDs(docs []bson.M) []bson.M {
	for _, doc := range docs {
		if id, ok := doc["_id"].(primitive.ObjectID); ok {
			doc["_id"] = id.Hex()
		}
	}
	return docs
}
