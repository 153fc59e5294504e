package report

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"medipoint/database"
	"medipoint/helpers"
)

// Dashboard composition constants. The fallback KPI numbers keep the demo
// frontend alive before any data has been seeded.
const (
	dashboardAlertLimit   = 5
	dashboardInsightLimit = 5

	restockStockBelow = 30
	restockLimit      = 2
	promoStockAbove   = 100
	promoLimit        = 1

	lowMarginThreshold = 15.0

	fallbackRevenue     = 42296
	fallbackGrossProfit = 4148
	fallbackMargin      = 9.8

	insightSnippetRunes = 60
)

// InventorySource provides the stock-level scans behind the suggestion cards.
type InventorySource interface {
	RestockCandidates(ctx context.Context, date, storeID string, below, limit int) ([]database.InventoryRecord, error)
	PromotionCandidates(ctx context.Context, date, storeID string, above, limit int) ([]database.InventoryRecord, error)
}

// ArticleSource provides the latest crawled articles and agency alerts.
type ArticleSource interface {
	LatestArticles(ctx context.Context, limit int) ([]database.RawArticle, error)
	LatestAlerts(ctx context.Context, limit int) ([]database.Alert, error)
}

// KPISource sums revenue and gross profit for one store-day.
type KPISource interface {
	DailyKPITotals(ctx context.Context, date, storeID string) (revenue, grossProfit float64, found bool, err error)
}

// TalkingPointer generates the staff-facing sentence on restock cards.
type TalkingPointer interface {
	TalkingPoint(ctx context.Context, topic string, products []string, reason string) string
}

// KPIData is the headline card block of the weekly dashboard.
type KPIData struct {
	CoverageLabel    string `json:"coverage_label"`
	CoverageValue    string `json:"coverage_value"`
	CoverageTrend    string `json:"coverage_trend"`
	CoverageProgress int    `json:"coverage_progress"`
	GrossProfit      string `json:"gross_profit"`
	MarginRate       string `json:"margin_rate"`
	MarginStatus     string `json:"margin_status"`
	TopCategory      string `json:"top_category"`
}

// AlertCard is one agency alert row on the dashboard.
type AlertCard struct {
	Agency    string `json:"agency"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	RiskLevel string `json:"risk_level"`
}

// SuggestionItem is one SKU row inside a suggestion card.
type SuggestionItem struct {
	SKUID   string  `json:"sku_id"`
	Name    string  `json:"name"`
	Stock   int     `json:"stock"`
	Margin  float64 `json:"margin"`
	Sales7d int     `json:"sales_7d"`
	Status  string  `json:"status"`
}

// Suggestion is one restock or promotion card.
type Suggestion struct {
	Topic           string           `json:"topic"`
	Action          string           `json:"action"`
	RelatedCategory string           `json:"related_category"`
	Reason          string           `json:"reason"`
	Items           []SuggestionItem `json:"items"`
	TalkingPoints   string           `json:"talking_points"`
}

// Insight is one community-chatter row.
type Insight struct {
	Source  string   `json:"source"`
	Board   string   `json:"board"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Intent  string   `json:"intent"`
	Tags    []string `json:"tags"`
}

// WeeklyDashboard is the full payload behind /api/dashboard/weekly-report.
type WeeklyDashboard struct {
	ReportDate  string       `json:"report_date"`
	KPIData     KPIData      `json:"kpiData"`
	Alerts      []AlertCard  `json:"alerts"`
	Suggestions []Suggestion `json:"suggestions"`
	Insights    []Insight    `json:"insights"`
}

// insightTagRules maps title substrings to chatter tags; every insight also
// carries the base 熱議 tag.
var insightTagRules = []struct {
	substrings []string
	tag        string
}{
	{substrings: []string{"感冒", "流感"}, tag: "流感"},
	{substrings: []string{"缺"}, tag: "缺貨"},
	{substrings: []string{"藥"}, tag: "用藥諮詢"},
	{substrings: []string{"寶寶", "小孩"}, tag: "兒童"},
}

// DashboardService composes the weekly store dashboard from summaries,
// inventory, crawled chatter, and the text generator.
type DashboardService struct {
	kpis      KPISource
	inventory InventorySource
	articles  ArticleSource
	generator TalkingPointer

	targetDate string
	storeID    string
	demoMode   bool
}

// NewDashboardService creates a new dashboard service. generator may be nil
// when text generation is disabled.
func NewDashboardService(kpis KPISource, inventory InventorySource, articles ArticleSource, generator TalkingPointer, targetDate, storeID string, demoMode bool) *DashboardService {
	return &DashboardService{
		kpis:       kpis,
		inventory:  inventory,
		articles:   articles,
		generator:  generator,
		targetDate: targetDate,
		storeID:    storeID,
		demoMode:   demoMode,
	}
}

// WeeklyReport assembles the dashboard for the configured store-day.
func (s *DashboardService) WeeklyReport(ctx context.Context) (*WeeklyDashboard, error) {
	kpiData, err := s.buildKPIData(ctx)
	if err != nil {
		return nil, fmt.Errorf("WeeklyReport: %w", err)
	}
	alerts, err := s.buildAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("WeeklyReport: %w", err)
	}
	suggestions, err := s.buildSuggestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("WeeklyReport: %w", err)
	}
	insights, err := s.buildInsights(ctx)
	if err != nil {
		return nil, fmt.Errorf("WeeklyReport: %w", err)
	}

	return &WeeklyDashboard{
		ReportDate:  s.targetDate,
		KPIData:     kpiData,
		Alerts:      alerts,
		Suggestions: suggestions,
		Insights:    insights,
	}, nil
}

func (s *DashboardService) buildKPIData(ctx context.Context) (KPIData, error) {
	revenue, grossProfit, found, err := s.kpis.DailyKPITotals(ctx, s.targetDate, s.storeID)
	if err != nil {
		return KPIData{}, err
	}

	var margin float64
	switch {
	case found && revenue > 0:
		margin = round1(grossProfit / revenue * 100)
	case !found && s.demoMode:
		// Seeded demo numbers so the frontend renders before any import.
		revenue = fallbackRevenue
		grossProfit = fallbackGrossProfit
		margin = fallbackMargin
	}

	status := "high"
	if margin < lowMarginThreshold {
		status = "low"
	}

	return KPIData{
		CoverageLabel:    "熱門商品覆蓋率",
		CoverageValue:    "85%",
		CoverageTrend:    "較上週 +5%",
		CoverageProgress: 85,
		GrossProfit:      helpers.FormatThousands(grossProfit),
		MarginRate:       strconv.FormatFloat(margin, 'f', -1, 64) + "%",
		MarginStatus:     status,
		TopCategory:      "保健藥品",
	}, nil
}

func (s *DashboardService) buildAlerts(ctx context.Context) ([]AlertCard, error) {
	rows, err := s.articles.LatestAlerts(ctx, dashboardAlertLimit)
	if err != nil {
		return nil, err
	}

	alerts := make([]AlertCard, 0, len(rows))
	for _, a := range rows {
		alerts = append(alerts, AlertCard{
			Agency:    a.Agency,
			Type:      a.Type,
			Title:     a.Title,
			RiskLevel: a.RiskLevel,
		})
	}

	if len(alerts) == 0 && s.demoMode {
		alerts = []AlertCard{
			{Agency: "CDC", Type: "系統提示", Title: "尚無最新疫情警示資料，請至後端執行爬蟲更新。", RiskLevel: database.RiskLow},
			{Agency: "TFDA", Type: "範例", Title: "特定批號胃藥因包裝瑕疵啟動二級回收 (範例)", RiskLevel: database.RiskMedium},
		}
	}
	return alerts, nil
}

func (s *DashboardService) buildSuggestions(ctx context.Context) ([]Suggestion, error) {
	suggestions := []Suggestion{}

	lowRows, err := s.inventory.RestockCandidates(ctx, s.targetDate, s.storeID, restockStockBelow, restockLimit)
	if err != nil {
		return nil, err
	}
	restockItems := make([]SuggestionItem, 0, len(lowRows))
	for _, row := range lowRows {
		restockItems = append(restockItems, SuggestionItem{
			SKUID:   row.SKUID,
			Name:    displayName(row.SKUID),
			Stock:   row.ClosingOnHand,
			Margin:  34.1,
			Sales7d: 14,
			Status:  "Critical",
		})
	}
	if len(restockItems) > 0 {
		names := make([]string, 0, len(restockItems))
		for _, item := range restockItems {
			names = append(names, item.Name)
		}
		suggestions = append(suggestions, Suggestion{
			Topic:           "流感與呼吸道感染高峰",
			Action:          "Restock",
			RelatedCategory: "感冒/退燒",
			Reason:          "輿情熱度上升 150%，且店內庫存低於安全水位。",
			Items:           restockItems,
			TalkingPoints:   s.talkingPoint(ctx, "流感高峰", names, "庫存告急"),
		})
	}

	highRows, err := s.inventory.PromotionCandidates(ctx, s.targetDate, s.storeID, promoStockAbove, promoLimit)
	if err != nil {
		return nil, err
	}
	promoItems := make([]SuggestionItem, 0, len(highRows))
	for _, row := range highRows {
		promoItems = append(promoItems, SuggestionItem{
			SKUID:   row.SKUID,
			Name:    fmt.Sprintf("維他命/噴劑 (%s)", helpers.LastRunes(row.SKUID, 3)),
			Stock:   row.ClosingOnHand,
			Margin:  36.0,
			Sales7d: 5,
			Status:  "Safe",
		})
	}
	if len(promoItems) > 0 {
		suggestions = append(suggestions, Suggestion{
			Topic:           "換季過敏潮",
			Action:          "Promotion",
			RelatedCategory: "鼻噴劑/維他命",
			Reason:          "網路討論增加，但店內庫存過高，建議做促銷去化。",
			Items:           promoItems,
			TalkingPoints:   "雖然現在有人問，但庫存偏高。建議搭配維他命 C 做「換季防護組」促銷。",
		})
	}

	return suggestions, nil
}

func (s *DashboardService) buildInsights(ctx context.Context) ([]Insight, error) {
	articles, err := s.articles.LatestArticles(ctx, dashboardInsightLimit)
	if err != nil {
		return nil, err
	}

	if len(articles) == 0 {
		if !s.demoMode {
			return []Insight{}, nil
		}
		return []Insight{
			{Source: "PTT", Board: "BabyMother", Title: "(範例) 小孩半夜發燒買不到藥怎麼辦？", Content: "跑了兩家藥局都說退燒藥缺貨...", Intent: "Out_of_Stock", Tags: []string{"缺貨", "兒童"}},
			{Source: "Dcard", Board: "Health", Title: "(範例) 最近流感是不是很強？", Content: "吞口水像刀割一樣...", Intent: "Ask", Tags: []string{"流感", "推薦"}},
		}, nil
	}

	insights := make([]Insight, 0, len(articles))
	for _, art := range articles {
		insights = append(insights, Insight{
			Source:  art.Source,
			Board:   art.Board,
			Title:   art.Title,
			Content: helpers.Snippet(art.Content, insightSnippetRunes),
			Intent:  titleIntent(art.Title),
			Tags:    titleTags(art.Title),
		})
	}
	return insights, nil
}

func (s *DashboardService) talkingPoint(ctx context.Context, topic string, products []string, reason string) string {
	if s.generator == nil {
		return "目前無法產生銷售話術，建議先向顧客說明現有供貨狀況，並推薦成分相近的替代商品。"
	}
	return s.generator.TalkingPoint(ctx, topic, products, reason)
}

// displayName maps a bare SKU id to a demo-friendly product label.
func displayName(skuID string) string {
	suffix := helpers.LastRunes(skuID, 3)
	switch {
	case strings.Contains(skuID, "保健"):
		return fmt.Sprintf("綜合感冒藥 (%s)", suffix)
	case strings.Contains(skuID, "婦嬰"):
		return fmt.Sprintf("兒童退燒水 (%s)", suffix)
	default:
		return fmt.Sprintf("熱銷藥品 (%s)", suffix)
	}
}

// titleIntent treats questions as asks and everything else as complaints.
// Both ASCII and full-width question marks count.
func titleIntent(title string) string {
	if strings.Contains(title, "?") || strings.Contains(title, "？") {
		return "Ask"
	}
	return "Complain"
}

func titleTags(title string) []string {
	tags := []string{"熱議"}
	for _, rule := range insightTagRules {
		for _, sub := range rule.substrings {
			if strings.Contains(title, sub) {
				tags = append(tags, rule.tag)
				break
			}
		}
	}
	return tags
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
