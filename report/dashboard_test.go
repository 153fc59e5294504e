package report

import (
	"context"
	"strings"
	"testing"

	"medipoint/database"
)

type fakeKPISource struct {
	revenue float64
	gp      float64
	found   bool
}

func (f *fakeKPISource) DailyKPITotals(ctx context.Context, date, storeID string) (float64, float64, bool, error) {
	return f.revenue, f.gp, f.found, nil
}

type fakeInventorySource struct {
	low  []database.InventoryRecord
	high []database.InventoryRecord
}

func (f *fakeInventorySource) RestockCandidates(ctx context.Context, date, storeID string, below, limit int) ([]database.InventoryRecord, error) {
	return f.low, nil
}

func (f *fakeInventorySource) PromotionCandidates(ctx context.Context, date, storeID string, above, limit int) ([]database.InventoryRecord, error) {
	return f.high, nil
}

type fakeArticleSource struct {
	articles []database.RawArticle
	alerts   []database.Alert
}

func (f *fakeArticleSource) LatestArticles(ctx context.Context, limit int) ([]database.RawArticle, error) {
	return f.articles, nil
}

func (f *fakeArticleSource) LatestAlerts(ctx context.Context, limit int) ([]database.Alert, error) {
	return f.alerts, nil
}

type fakeTalker struct {
	calls int
	text  string
}

func (f *fakeTalker) TalkingPoint(ctx context.Context, topic string, products []string, reason string) string {
	f.calls++
	return f.text
}

func newTestDashboard(kpis *fakeKPISource, inv *fakeInventorySource, arts *fakeArticleSource, demo bool) *DashboardService {
	return NewDashboardService(kpis, inv, arts, &fakeTalker{text: "話術"}, "2025-10-30", "S001", demo)
}

func TestWeeklyReportDemoFallbacks(t *testing.T) {
	svc := newTestDashboard(&fakeKPISource{}, &fakeInventorySource{}, &fakeArticleSource{}, true)

	got, err := svc.WeeklyReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ReportDate != "2025-10-30" {
		t.Errorf("unexpected report date %q", got.ReportDate)
	}
	if got.KPIData.GrossProfit != "4,148" {
		t.Errorf("expected demo gross profit 4,148, got %q", got.KPIData.GrossProfit)
	}
	if got.KPIData.MarginRate != "9.8%" {
		t.Errorf("expected demo margin 9.8%%, got %q", got.KPIData.MarginRate)
	}
	if got.KPIData.MarginStatus != "low" {
		t.Errorf("expected low margin status, got %q", got.KPIData.MarginStatus)
	}
	if len(got.Alerts) != 2 || got.Alerts[0].Agency != "CDC" {
		t.Errorf("expected 2 demo alerts, got %+v", got.Alerts)
	}
	if len(got.Insights) != 2 || got.Insights[0].Intent != "Out_of_Stock" {
		t.Errorf("expected 2 demo insights, got %+v", got.Insights)
	}
	if len(got.Suggestions) != 0 {
		t.Errorf("no stock rows means no suggestions, got %+v", got.Suggestions)
	}
}

func TestWeeklyReportNoDemoFallbacks(t *testing.T) {
	svc := newTestDashboard(&fakeKPISource{}, &fakeInventorySource{}, &fakeArticleSource{}, false)

	got, err := svc.WeeklyReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.KPIData.GrossProfit != "0" {
		t.Errorf("expected zero gross profit without demo mode, got %q", got.KPIData.GrossProfit)
	}
	if got.KPIData.MarginRate != "0%" {
		t.Errorf("expected zero margin without demo mode, got %q", got.KPIData.MarginRate)
	}
	if len(got.Alerts) != 0 {
		t.Errorf("expected no alerts without demo mode, got %+v", got.Alerts)
	}
	if len(got.Insights) != 0 {
		t.Errorf("expected no insights without demo mode, got %+v", got.Insights)
	}
}

func TestWeeklyReportMargin(t *testing.T) {
	svc := newTestDashboard(&fakeKPISource{revenue: 50000, gp: 10000, found: true}, &fakeInventorySource{}, &fakeArticleSource{}, true)

	got, err := svc.WeeklyReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.KPIData.GrossProfit != "10,000" {
		t.Errorf("expected formatted gross profit, got %q", got.KPIData.GrossProfit)
	}
	if got.KPIData.MarginRate != "20%" {
		t.Errorf("expected 20%% margin, got %q", got.KPIData.MarginRate)
	}
	if got.KPIData.MarginStatus != "high" {
		t.Errorf("expected high margin status, got %q", got.KPIData.MarginStatus)
	}
}

func TestWeeklyReportNegativeMargin(t *testing.T) {
	svc := newTestDashboard(&fakeKPISource{revenue: 10000, gp: -1234, found: true}, &fakeInventorySource{}, &fakeArticleSource{}, false)

	got, err := svc.WeeklyReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.KPIData.GrossProfit != "-1,234" {
		t.Errorf("unexpected gross profit %q", got.KPIData.GrossProfit)
	}
	// -12.34 rounds to -12.3, not the truncated -12.2.
	if got.KPIData.MarginRate != "-12.3%" {
		t.Errorf("expected -12.3%% margin, got %q", got.KPIData.MarginRate)
	}
	if got.KPIData.MarginStatus != "low" {
		t.Errorf("expected low margin status, got %q", got.KPIData.MarginStatus)
	}
}

func TestWeeklyReportSuggestions(t *testing.T) {
	inv := &fakeInventorySource{
		low: []database.InventoryRecord{
			{SKUID: "SKU-保健-001", ClosingOnHand: 12},
			{SKUID: "SKU-婦嬰-007", ClosingOnHand: 5},
		},
		high: []database.InventoryRecord{
			{SKUID: "SKU-日用-104", ClosingOnHand: 140},
		},
	}
	talker := &fakeTalker{text: "建議先推庫存還夠的替代品。"}
	svc := NewDashboardService(&fakeKPISource{}, inv, &fakeArticleSource{}, talker, "2025-10-30", "S001", true)

	got, err := svc.WeeklyReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Suggestions) != 2 {
		t.Fatalf("expected restock + promotion cards, got %d", len(got.Suggestions))
	}

	restock := got.Suggestions[0]
	if restock.Action != "Restock" {
		t.Errorf("expected restock card first, got %q", restock.Action)
	}
	if restock.Items[0].Name != "綜合感冒藥 (001)" {
		t.Errorf("unexpected mapped name %q", restock.Items[0].Name)
	}
	if restock.Items[1].Name != "兒童退燒水 (007)" {
		t.Errorf("unexpected mapped name %q", restock.Items[1].Name)
	}
	if restock.Items[0].Status != "Critical" {
		t.Errorf("expected Critical restock items, got %q", restock.Items[0].Status)
	}
	if restock.TalkingPoints != talker.text {
		t.Errorf("expected generated talking points, got %q", restock.TalkingPoints)
	}
	if talker.calls != 1 {
		t.Errorf("expected one talking point call, got %d", talker.calls)
	}

	promo := got.Suggestions[1]
	if promo.Action != "Promotion" {
		t.Errorf("expected promotion card second, got %q", promo.Action)
	}
	if promo.Items[0].Name != "維他命/噴劑 (104)" {
		t.Errorf("unexpected promotion name %q", promo.Items[0].Name)
	}
	if promo.Items[0].Status != "Safe" {
		t.Errorf("expected Safe promotion items, got %q", promo.Items[0].Status)
	}
	if !strings.Contains(promo.TalkingPoints, "換季防護組") {
		t.Errorf("expected fixed promotion talking points, got %q", promo.TalkingPoints)
	}
}

func TestWeeklyReportInsights(t *testing.T) {
	arts := &fakeArticleSource{
		articles: []database.RawArticle{
			{Source: "PTT", Board: "BabyMother", Title: "小孩發燒藥局都說缺藥怎麼辦？", Content: strings.Repeat("跑", 70)},
			{Source: "GoogleNews", Board: "news", Title: "流感疫情升溫", Content: "短文"},
		},
	}
	svc := newTestDashboard(&fakeKPISource{}, &fakeInventorySource{}, arts, true)

	got, err := svc.WeeklyReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Insights) != 2 {
		t.Fatalf("expected 2 insights, got %d", len(got.Insights))
	}

	first := got.Insights[0]
	if first.Intent != "Ask" {
		t.Errorf("full-width question mark should read as Ask, got %q", first.Intent)
	}
	wantTags := []string{"熱議", "缺貨", "用藥諮詢", "兒童"}
	if len(first.Tags) != len(wantTags) {
		t.Fatalf("expected tags %v, got %v", wantTags, first.Tags)
	}
	for i, tag := range wantTags {
		if first.Tags[i] != tag {
			t.Errorf("expected tag %q at %d, got %q", tag, i, first.Tags[i])
		}
	}
	if len([]rune(first.Content)) != 63 {
		t.Errorf("expected 60-rune snippet plus ellipsis, got %d runes", len([]rune(first.Content)))
	}

	second := got.Insights[1]
	if second.Intent != "Complain" {
		t.Errorf("statement title should read as Complain, got %q", second.Intent)
	}
	if len(second.Tags) != 2 || second.Tags[1] != "流感" {
		t.Errorf("expected 熱議+流感 tags, got %v", second.Tags)
	}
	if second.Content != "短文..." {
		t.Errorf("short content keeps ellipsis, got %q", second.Content)
	}
}

func TestTalkingPointWithoutGenerator(t *testing.T) {
	inv := &fakeInventorySource{low: []database.InventoryRecord{{SKUID: "SKU-保健-001", ClosingOnHand: 3}}}
	svc := NewDashboardService(&fakeKPISource{}, inv, &fakeArticleSource{}, nil, "2025-10-30", "S001", true)

	got, err := svc.WeeklyReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %d", len(got.Suggestions))
	}
	if !strings.Contains(got.Suggestions[0].TalkingPoints, "替代商品") {
		t.Errorf("expected static fallback talking points, got %q", got.Suggestions[0].TalkingPoints)
	}
}
