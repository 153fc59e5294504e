package report

import (
	"context"
	"fmt"
	"time"

	"medipoint/cache"
	"medipoint/database/analytics"

	"github.com/sirupsen/logrus"
)

// Report composition defaults. The full report carries more rows than the
// slimmed payload handed to the model.
const (
	reportTopLimit          = 10
	reportLowStockThreshold = 10
	reportLowStockLimit     = 50
	reportSpikeRatio        = 2.0
	reportSpikeLimit        = 20

	slimRankLimit = 10
	slimListLimit = 20
)

// AnalyticsSource provides the day-scoped aggregates the report is built from.
type AnalyticsSource interface {
	KPIDaily(ctx context.Context, date, storeID string) (*analytics.KPI, error)
	TopProducts(ctx context.Context, date, storeID string, limit int) ([]analytics.ProductRank, error)
	TopCategories(ctx context.Context, date string, limit int) ([]analytics.CategoryRank, error)
	LowStock(ctx context.Context, storeID string, threshold, limit int) ([]analytics.LowStockItem, error)
	SpikeProducts(ctx context.Context, date, storeID string, ratio float64, limit int) ([]analytics.SpikeItem, error)
}

// Summarizer turns a report payload into narrative text.
type Summarizer interface {
	SummarizeReport(ctx context.Context, report any) string
}

// ReportMeta records when and for which store-day a report was assembled.
type ReportMeta struct {
	Date        string    `json:"date"`
	StoreID     string    `json:"store_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// DailyReport is the full store-day report served by /api/report/daily.
type DailyReport struct {
	Meta          ReportMeta              `json:"meta"`
	KPI           *analytics.KPI          `json:"kpi"`
	TopProducts   []analytics.ProductRank `json:"top_products"`
	TopCategories []analytics.CategoryRank `json:"top_categories"`
	LowStock      []analytics.LowStockItem `json:"low_stock"`
	SpikeProducts []analytics.SpikeItem    `json:"spike_products"`
	AISummary     string                   `json:"ai_summary,omitempty"`
}

// ReportService assembles daily reports and optionally attaches an AI summary.
type ReportService struct {
	analytics AnalyticsSource
	generator Summarizer
	summaries *cache.SummaryCache
}

// NewReportService creates a new report service. generator may be nil when
// text generation is disabled.
func NewReportService(source AnalyticsSource, generator Summarizer, summaries *cache.SummaryCache) *ReportService {
	return &ReportService{
		analytics: source,
		generator: generator,
		summaries: summaries,
	}
}

// DailyReport runs the five aggregate queries for one store-day and, when
// requested, attaches a cached or freshly generated summary.
func (s *ReportService) DailyReport(ctx context.Context, date, storeID string, withAI bool) (*DailyReport, error) {
	kpi, err := s.analytics.KPIDaily(ctx, date, storeID)
	if err != nil {
		return nil, fmt.Errorf("DailyReport: %w", err)
	}
	topProducts, err := s.analytics.TopProducts(ctx, date, storeID, reportTopLimit)
	if err != nil {
		return nil, fmt.Errorf("DailyReport: %w", err)
	}
	topCategories, err := s.analytics.TopCategories(ctx, date, reportTopLimit)
	if err != nil {
		return nil, fmt.Errorf("DailyReport: %w", err)
	}
	lowStock, err := s.analytics.LowStock(ctx, storeID, reportLowStockThreshold, reportLowStockLimit)
	if err != nil {
		return nil, fmt.Errorf("DailyReport: %w", err)
	}
	spikes, err := s.analytics.SpikeProducts(ctx, date, storeID, reportSpikeRatio, reportSpikeLimit)
	if err != nil {
		return nil, fmt.Errorf("DailyReport: %w", err)
	}

	report := &DailyReport{
		Meta: ReportMeta{
			Date:        date,
			StoreID:     storeID,
			GeneratedAt: time.Now().UTC(),
		},
		KPI:           kpi,
		TopProducts:   topProducts,
		TopCategories: topCategories,
		LowStock:      lowStock,
		SpikeProducts: spikes,
	}

	if withAI && s.generator != nil {
		report.AISummary = s.summarize(ctx, report)
	}

	return report, nil
}

// summarize caches summaries on a hash of the slim payload, so unchanged
// numbers never trigger a second model call.
func (s *ReportService) summarize(ctx context.Context, report *DailyReport) string {
	slim := slimReport(report)
	hash := cache.DataHash(slim)

	if summary, ok := s.summaries.Get(ctx, report.Meta.Date, report.Meta.StoreID, hash); ok {
		logrus.Debugf("ℹ️  AI summary cache hit for %s/%s", report.Meta.Date, report.Meta.StoreID)
		return summary
	}

	summary := s.generator.SummarizeReport(ctx, slim)
	if err := s.summaries.Set(ctx, report.Meta.Date, report.Meta.StoreID, hash, summary); err != nil {
		logrus.Debugf("ℹ️  AI summary cache store skipped: %v", err)
	}
	return summary
}

// slimReport caps each list so the prompt stays small on busy days.
func slimReport(report *DailyReport) map[string]any {
	return map[string]any{
		"meta":           report.Meta,
		"kpi":            report.KPI,
		"top_products":   report.TopProducts[:min(len(report.TopProducts), slimRankLimit)],
		"top_categories": report.TopCategories[:min(len(report.TopCategories), slimRankLimit)],
		"low_stock":      report.LowStock[:min(len(report.LowStock), slimListLimit)],
		"spike_products": report.SpikeProducts[:min(len(report.SpikeProducts), slimListLimit)],
	}
}
