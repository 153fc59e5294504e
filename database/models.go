package database

import "time"

// RawArticle is a crawled forum/news posting, keyed by URL (or title when the
// source has no stable URL, e.g. mock postings).
type RawArticle struct {
	Source    string    `bson:"source" json:"source"`
	Board     string    `bson:"board" json:"board"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	URL       string    `bson:"url" json:"url"`
	Date      string    `bson:"date" json:"date"`
	CrawledAt time.Time `bson:"crawled_at" json:"crawled_at"`
	Status    string    `bson:"status" json:"status"`
}

// Alert is a government-bulletin item, keyed by title.
type Alert struct {
	Agency    string    `bson:"agency" json:"agency"`
	Type      string    `bson:"type" json:"type"`
	Title     string    `bson:"title" json:"title"`
	URL       string    `bson:"url" json:"url"`
	RiskLevel string    `bson:"risk_level" json:"risk_level"`
	CrawledAt time.Time `bson:"crawled_at" json:"crawled_at"`
	Date      string    `bson:"date" json:"date"`
}

// SalesRecord is one sales line, external and read-only to this system.
// Date is stored at day granularity; aggregations window on [day, day+1).
type SalesRecord struct {
	Date     time.Time `bson:"date" json:"date"`
	StoreID  string    `bson:"store_id" json:"store_id"`
	SKUID    string    `bson:"sku_id" json:"sku_id"`
	Name     string    `bson:"name" json:"name"`
	Category string    `bson:"category" json:"category"`
	Qty      int       `bson:"qty" json:"qty"`
	Amount   float64   `bson:"amount" json:"amount"`
	OrderID  string    `bson:"order_id" json:"order_id"`
}

// InventoryRecord is an inventory snapshot row, external and read-only.
// Unlike sales, its date field is a plain YYYY-MM-DD string.
type InventoryRecord struct {
	Date          string `bson:"date,omitempty" json:"date,omitempty"`
	StoreID       string `bson:"store_id" json:"store_id"`
	SKUID         string `bson:"sku_id" json:"sku_id"`
	Name          string `bson:"name" json:"name"`
	Category      string `bson:"category" json:"category"`
	StockOnHand   int    `bson:"stock_on_hand" json:"stock_on_hand"`
	Sales7d       int    `bson:"sales_7d" json:"sales_7d"`
	ClosingOnHand int    `bson:"closing_on_hand" json:"closing_on_hand"`
}

// DailyCategorySummary is a pre-aggregated per store-day revenue row used for
// the dashboard KPI margin calculation.
type DailyCategorySummary struct {
	Date        string  `bson:"date" json:"date"`
	StoreID     string  `bson:"store_id" json:"store_id"`
	Revenue     float64 `bson:"revenue" json:"revenue"`
	GrossProfit float64 `bson:"gross_profit" json:"gross_profit"`
}
