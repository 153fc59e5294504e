package analytics

import (
	"context"
	"fmt"
	"time"

	"medipoint/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository runs day-scoped aggregations over the sales and inventory collections
type Repository struct {
	sales     *mongo.Collection
	inventory *mongo.Collection
}

// NewRepository creates a new analytics repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{
		sales:     db.Collection(database.CollectionSales),
		inventory: db.Collection(database.CollectionInventory),
	}
}

// KPI holds one day's headline numbers. Top fields are nil on empty days.
type KPI struct {
	Date             string  `json:"date"`
	StoreID          string  `json:"store_id,omitempty"`
	TotalSalesAmount float64 `json:"total_sales_amount"`
	TotalOrders      int     `json:"total_orders"`
	TotalItems       int     `json:"total_items"`
	TopCategory      *string `json:"top_category"`
	TopSKU           *TopSKU `json:"top_sku"`
}

// TopSKU is the best-selling product of a day by amount.
type TopSKU struct {
	SKUID  string  `json:"sku_id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Qty    int     `json:"qty"`
}

// ProductRank is one row of the daily product ranking.
type ProductRank struct {
	Rank     int     `json:"rank"`
	SKUID    string  `json:"sku_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Qty      int     `json:"qty"`
}

// CategoryRank is one row of the daily category ranking.
type CategoryRank struct {
	Rank     int     `json:"rank"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Qty      int     `json:"qty"`
}

// LowStockItem is an inventory row below the stock threshold. DaysLeft is nil
// when the trailing week had no sales.
type LowStockItem struct {
	StoreID     string   `json:"store_id"`
	SKUID       string   `json:"sku_id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	StockOnHand int      `json:"stock_on_hand"`
	Sales7d     int      `json:"sales_7d"`
	DaysLeft    *float64 `json:"days_left"`
}

// SpikeItem is a SKU whose target-day quantity exceeded its trailing 7-day
// daily average by at least the requested ratio.
type SpikeItem struct {
	SKUID      string  `json:"sku_id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	QtyToday   int     `json:"qty_today"`
	Avg7dDaily float64 `json:"avg_7d_daily"`
	Ratio      float64 `json:"ratio"`
}

// dayRange converts a YYYY-MM-DD string to the [start, start+24h) window.
func dayRange(date string) (time.Time, time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", database.ErrInvalidDate, date)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour), nil
}

// dayMatch builds the $match filter for one day with an optional store filter.
func dayMatch(start, end time.Time, storeID string) bson.M {
	match := bson.M{"date": bson.M{"$gte": start, "$lt": end}}
	if storeID != "" {
		match["store_id"] = storeID
	}
	return match
}

// skuGroup is the decode target for per-SKU $group stages.
type skuGroup struct {
	ID struct {
		SKUID    string `bson:"sku_id"`
		Name     string `bson:"name"`
		Category string `bson:"category"`
	} `bson:"_id"`
	Amount float64 `bson:"amount"`
	Qty    int     `bson:"qty"`
}

// kpiTotals is the decode target for the day-totals $group stage. Orders is
// the $addToSet of distinct order ids.
type kpiTotals struct {
	TotalSalesAmount float64  `bson:"total_sales_amount"`
	Orders           []string `bson:"orders"`
	TotalItems       int      `bson:"total_items"`
}

// categoryAmount is the decode target for the top-category stage.
type categoryAmount struct {
	Category string `bson:"_id"`
}

// groupBySKU is the shared per-SKU grouping stage summing amount and qty.
func groupBySKU() bson.D {
	return bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: bson.D{
			{Key: "sku_id", Value: "$sku_id"},
			{Key: "name", Value: "$name"},
			{Key: "category", Value: "$category"},
		}},
		{Key: "amount", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		{Key: "qty", Value: bson.D{{Key: "$sum", Value: "$qty"}}},
	}}}
}

// Ties on amount break on ascending SKU id (category name for category
// rankings) so repeated queries return the same order.
func sortByAmountThenSKU() bson.D {
	return bson.D{{Key: "$sort", Value: bson.D{
		{Key: "amount", Value: -1},
		{Key: "_id.sku_id", Value: 1},
	}}}
}

// KPIDaily sums the day's amount/quantity, counts distinct orders, and finds
// the top category and SKU by amount. Empty days return a zeroed KPI.
func (r *Repository) KPIDaily(ctx context.Context, date, storeID string) (*KPI, error) {
	start, end, err := dayRange(date)
	if err != nil {
		return nil, err
	}
	match := dayMatch(start, end, storeID)

	totalsPipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_sales_amount", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
			{Key: "orders", Value: bson.D{{Key: "$addToSet", Value: "$order_id"}}},
			{Key: "total_items", Value: bson.D{{Key: "$sum", Value: "$qty"}}},
		}}},
	}

	cur, err := r.sales.Aggregate(ctx, totalsPipe)
	if err != nil {
		return nil, fmt.Errorf("KPIDaily: %w", err)
	}
	var totals []kpiTotals
	if err := cur.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("KPIDaily: %w", err)
	}

	catPipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "amount", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "amount", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: 1}},
	}
	cur, err = r.sales.Aggregate(ctx, catPipe)
	if err != nil {
		return nil, fmt.Errorf("KPIDaily: %w", err)
	}
	var cats []categoryAmount
	if err := cur.All(ctx, &cats); err != nil {
		return nil, fmt.Errorf("KPIDaily: %w", err)
	}

	skuPipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		groupBySKU(),
		sortByAmountThenSKU(),
		bson.D{{Key: "$limit", Value: 1}},
	}
	cur, err = r.sales.Aggregate(ctx, skuPipe)
	if err != nil {
		return nil, fmt.Errorf("KPIDaily: %w", err)
	}
	var skus []skuGroup
	if err := cur.All(ctx, &skus); err != nil {
		return nil, fmt.Errorf("KPIDaily: %w", err)
	}

	return foldKPI(date, storeID, totals, cats, skus), nil
}

// TopProducts returns the day's best-selling SKUs by amount with 1-based ranks.
func (r *Repository) TopProducts(ctx context.Context, date, storeID string, limit int) ([]ProductRank, error) {
	start, end, err := dayRange(date)
	if err != nil {
		return nil, err
	}

	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: dayMatch(start, end, storeID)}},
		groupBySKU(),
		sortByAmountThenSKU(),
		bson.D{{Key: "$limit", Value: limit}},
	}

	cur, err := r.sales.Aggregate(ctx, pipe)
	if err != nil {
		return nil, fmt.Errorf("TopProducts: %w", err)
	}
	var groups []skuGroup
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("TopProducts: %w", err)
	}

	results := make([]ProductRank, 0, len(groups))
	for i, g := range groups {
		results = append(results, ProductRank{
			Rank:     i + 1,
			SKUID:    g.ID.SKUID,
			Name:     g.ID.Name,
			Category: g.ID.Category,
			Amount:   g.Amount,
			Qty:      g.Qty,
		})
	}
	return results, nil
}

// TopCategories returns the day's category ranking by amount. The store filter
// is intentionally not applied here.
func (r *Repository) TopCategories(ctx context.Context, date string, limit int) ([]CategoryRank, error) {
	start, end, err := dayRange(date)
	if err != nil {
		return nil, err
	}

	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: dayMatch(start, end, "")}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "amount", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
			{Key: "qty", Value: bson.D{{Key: "$sum", Value: "$qty"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "amount", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cur, err := r.sales.Aggregate(ctx, pipe)
	if err != nil {
		return nil, fmt.Errorf("TopCategories: %w", err)
	}
	var groups []struct {
		Category string  `bson:"_id"`
		Amount   float64 `bson:"amount"`
		Qty      int     `bson:"qty"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("TopCategories: %w", err)
	}

	results := make([]CategoryRank, 0, len(groups))
	for i, g := range groups {
		results = append(results, CategoryRank{
			Rank:     i + 1,
			Category: g.Category,
			Amount:   g.Amount,
			Qty:      g.Qty,
		})
	}
	return results, nil
}

// LowStock lists inventory rows with stock_on_hand below the threshold and
// estimates how many days the remaining stock covers.
func (r *Repository) LowStock(ctx context.Context, storeID string, threshold, limit int) ([]LowStockItem, error) {
	filter := bson.M{"stock_on_hand": bson.M{"$lt": threshold}}
	if storeID != "" {
		filter["store_id"] = storeID
	}

	cur, err := r.inventory.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("LowStock: %w", err)
	}
	var rows []database.InventoryRecord
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("LowStock: %w", err)
	}

	results := make([]LowStockItem, 0, len(rows))
	for _, row := range rows {
		results = append(results, LowStockItem{
			StoreID:     row.StoreID,
			SKUID:       row.SKUID,
			Name:        row.Name,
			Category:    row.Category,
			StockOnHand: row.StockOnHand,
			Sales7d:     row.Sales7d,
			DaysLeft:    daysLeft(row.StockOnHand, row.Sales7d),
		})
	}
	return results, nil
}

// SpikeProducts flags SKUs whose target-day quantity is at least ratio times
// their average daily quantity over the 7 preceding days.
func (r *Repository) SpikeProducts(ctx context.Context, date, storeID string, ratio float64, limit int) ([]SpikeItem, error) {
	start, end, err := dayRange(date)
	if err != nil {
		return nil, err
	}
	trailingStart := start.AddDate(0, 0, -7)

	trailing, err := r.groupQuantities(ctx, dayMatch(trailingStart, start, storeID))
	if err != nil {
		return nil, fmt.Errorf("SpikeProducts: %w", err)
	}
	today, err := r.groupQuantities(ctx, dayMatch(start, end, storeID))
	if err != nil {
		return nil, fmt.Errorf("SpikeProducts: %w", err)
	}

	return computeSpikes(trailing, today, ratio, limit), nil
}

// groupQuantities sums qty per SKU for the matched window.
func (r *Repository) groupQuantities(ctx context.Context, match bson.M) ([]skuQty, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "sku_id", Value: "$sku_id"},
				{Key: "name", Value: "$name"},
				{Key: "category", Value: "$category"},
			}},
			{Key: "qty", Value: bson.D{{Key: "$sum", Value: "$qty"}}},
		}}},
	}

	cur, err := r.sales.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	var groups []struct {
		ID struct {
			SKUID    string `bson:"sku_id"`
			Name     string `bson:"name"`
			Category string `bson:"category"`
		} `bson:"_id"`
		Qty int `bson:"qty"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}

	out := make([]skuQty, 0, len(groups))
	for _, g := range groups {
		out = append(out, skuQty{
			SKUID:    g.ID.SKUID,
			Name:     g.ID.Name,
			Category: g.ID.Category,
			Qty:      g.Qty,
		})
	}
	return out, nil
}

// RestockCandidates returns up to limit inventory rows for the store-day with
// closing stock below the given level.
func (r *Repository) RestockCandidates(ctx context.Context, date, storeID string, below, limit int) ([]database.InventoryRecord, error) {
	return r.findByClosing(ctx, date, storeID, bson.M{"$lt": below}, limit, "RestockCandidates")
}

// PromotionCandidates returns up to limit inventory rows for the store-day with
// closing stock above the given level.
func (r *Repository) PromotionCandidates(ctx context.Context, date, storeID string, above, limit int) ([]database.InventoryRecord, error) {
	return r.findByClosing(ctx, date, storeID, bson.M{"$gt": above}, limit, "PromotionCandidates")
}

func (r *Repository) findByClosing(ctx context.Context, date, storeID string, closing bson.M, limit int, op string) ([]database.InventoryRecord, error) {
	filter := bson.M{
		"date":            date,
		"store_id":        storeID,
		"closing_on_hand": closing,
	}

	cur, err := r.inventory.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var rows []database.InventoryRecord
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}
