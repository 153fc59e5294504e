package database

// Collection names in the medipoint database.
const (
	CollectionSales                = "sales"
	CollectionInventory            = "inventory"
	CollectionCategory             = "category"
	CollectionSummary              = "summary"
	CollectionRawArticles          = "raw_articles"
	CollectionAlerts               = "alerts"
	CollectionDailyCategorySummary = "daily_category_summary"
)

// Alert risk levels derived from bulletin titles at crawl time.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Article statuses
const (
	ArticleStatusNew  = "new"
	ArticleStatusMock = "mock"
)
