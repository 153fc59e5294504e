package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"medipoint/cache"
	"medipoint/database"
	"medipoint/database/analytics"
)

type fakeAnalytics struct {
	kpi        *analytics.KPI
	products   []analytics.ProductRank
	categories []analytics.CategoryRank
	lowStock   []analytics.LowStockItem
	spikes     []analytics.SpikeItem

	lowStockThreshold int
	spikeRatio        float64
}

func (f *fakeAnalytics) KPIDaily(ctx context.Context, date, storeID string) (*analytics.KPI, error) {
	if f.kpi != nil {
		return f.kpi, nil
	}
	return &analytics.KPI{Date: date, StoreID: storeID}, nil
}

func (f *fakeAnalytics) TopProducts(ctx context.Context, date, storeID string, limit int) ([]analytics.ProductRank, error) {
	return f.products, nil
}

func (f *fakeAnalytics) TopCategories(ctx context.Context, date string, limit int) ([]analytics.CategoryRank, error) {
	return f.categories, nil
}

func (f *fakeAnalytics) LowStock(ctx context.Context, storeID string, threshold, limit int) ([]analytics.LowStockItem, error) {
	f.lowStockThreshold = threshold
	return f.lowStock, nil
}

func (f *fakeAnalytics) SpikeProducts(ctx context.Context, date, storeID string, ratio float64, limit int) ([]analytics.SpikeItem, error) {
	f.spikeRatio = ratio
	return f.spikes, nil
}

type fakeSummarizer struct {
	calls   int
	summary string
	payload any
}

func (f *fakeSummarizer) SummarizeReport(ctx context.Context, report any) string {
	f.calls++
	f.payload = report
	return f.summary
}

func TestDailyReportWithoutAI(t *testing.T) {
	source := &fakeAnalytics{
		products: []analytics.ProductRank{{Rank: 1, SKUID: "SKU-001", Amount: 900}},
	}
	gen := &fakeSummarizer{summary: "摘要"}
	svc := NewReportService(source, gen, cache.NewSummaryCache(nil))

	report, err := svc.DailyReport(context.Background(), "2025-10-30", "S001", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.AISummary != "" {
		t.Errorf("expected no summary without with_ai, got %q", report.AISummary)
	}
	if gen.calls != 0 {
		t.Errorf("generator must not be called, got %d calls", gen.calls)
	}
	if report.Meta.Date != "2025-10-30" || report.Meta.StoreID != "S001" {
		t.Errorf("unexpected meta %+v", report.Meta)
	}
	if report.Meta.GeneratedAt.IsZero() {
		t.Errorf("expected generated_at to be set")
	}
	if len(report.TopProducts) != 1 {
		t.Errorf("expected ranking passed through, got %+v", report.TopProducts)
	}
	if source.lowStockThreshold != reportLowStockThreshold {
		t.Errorf("expected low stock threshold %d, got %d", reportLowStockThreshold, source.lowStockThreshold)
	}
	if source.spikeRatio != reportSpikeRatio {
		t.Errorf("expected spike ratio %v, got %v", reportSpikeRatio, source.spikeRatio)
	}
}

func TestDailyReportWithAI(t *testing.T) {
	lowStock := make([]analytics.LowStockItem, 0, 30)
	for i := 0; i < 30; i++ {
		lowStock = append(lowStock, analytics.LowStockItem{SKUID: "SKU-001", StockOnHand: i})
	}
	source := &fakeAnalytics{lowStock: lowStock}
	gen := &fakeSummarizer{summary: "今日整體平穩。"}
	svc := NewReportService(source, gen, cache.NewSummaryCache(nil))

	report, err := svc.DailyReport(context.Background(), "2025-10-30", "S001", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.AISummary != "今日整體平穩。" {
		t.Errorf("expected generated summary, got %q", report.AISummary)
	}
	if gen.calls != 1 {
		t.Errorf("expected one generator call, got %d", gen.calls)
	}
	if len(report.LowStock) != 30 {
		t.Errorf("full report keeps all rows, got %d", len(report.LowStock))
	}

	slim, ok := gen.payload.(map[string]any)
	if !ok {
		t.Fatalf("expected slim map payload, got %T", gen.payload)
	}
	slimLow, ok := slim["low_stock"].([]analytics.LowStockItem)
	if !ok {
		t.Fatalf("unexpected low_stock payload type %T", slim["low_stock"])
	}
	if len(slimLow) != slimListLimit {
		t.Errorf("expected slim payload capped at %d rows, got %d", slimListLimit, len(slimLow))
	}

	// Without Redis every lookup misses, so a second request generates again.
	if _, err := svc.DailyReport(context.Background(), "2025-10-30", "S001", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 2 {
		t.Errorf("expected second generation without cache, got %d calls", gen.calls)
	}
}

func TestDailyReportNilGenerator(t *testing.T) {
	svc := NewReportService(&fakeAnalytics{}, nil, cache.NewSummaryCache(nil))

	report, err := svc.DailyReport(context.Background(), "2025-10-30", "", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.AISummary != "" {
		t.Errorf("expected empty summary with generation disabled, got %q", report.AISummary)
	}
}

type invalidDateAnalytics struct {
	fakeAnalytics
}

func (f *invalidDateAnalytics) KPIDaily(ctx context.Context, date, storeID string) (*analytics.KPI, error) {
	return nil, fmt.Errorf("%w: %q", database.ErrInvalidDate, date)
}

func TestDailyReportInvalidDate(t *testing.T) {
	svc := NewReportService(&invalidDateAnalytics{}, nil, cache.NewSummaryCache(nil))

	_, err := svc.DailyReport(context.Background(), "2025/10/30", "S001", false)
	if !errors.Is(err, database.ErrInvalidDate) {
		t.Errorf("expected invalid date sentinel, got %v", err)
	}
}
