package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medipoint/database"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const (
	cdcListURL   = "https://www.cdc.gov.tw/Bulletin/List/MmgtpeidAR5Ooai4-fgHzQ"
	cdcBaseURL   = "https://www.cdc.gov.tw"
	cdcAlertType = "疫情速訊"
	cdcMaxItems  = 5
)

// severityKeywords raise an alert to High risk when found in the title.
var severityKeywords = []string{"死亡", "重症", "流行", "高峰", "緊急"}

// CDCCrawler ingests the CDC press-release listing into the alerts collection.
type CDCCrawler struct {
	fetch    *Fetcher
	articles ArticleStore
}

// NewCDCCrawler creates a CDC bulletin crawler
func NewCDCCrawler(fetch *Fetcher, articles ArticleStore) *CDCCrawler {
	return &CDCCrawler{fetch: fetch, articles: articles}
}

// cdcItem is one bulletin link extracted from the listing page.
type cdcItem struct {
	Title string
	URL   string
}

// Crawl fetches one listing page and upserts the first few bulletins as
// alerts, keyed by title.
func (c *CDCCrawler) Crawl(ctx context.Context) ([]string, error) {
	logrus.Info("🚀 [CDC] Crawling disease-control bulletins...")

	doc, err := c.fetch.GetDocument(ctx, cdcListURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cdc listing: %w", err)
	}

	now := time.Now()
	var titles []string
	for _, item := range parseCDCListing(doc, cdcMaxItems) {
		alert := &database.Alert{
			Agency:    "CDC",
			Type:      cdcAlertType,
			Title:     item.Title,
			URL:       item.URL,
			RiskLevel: riskLevel(item.Title),
			CrawledAt: now,
			Date:      now.Format("2006-01-02"),
		}
		if err := c.articles.UpsertAlert(ctx, alert); err != nil {
			return titles, fmt.Errorf("cdc: %w", err)
		}
		titles = append(titles, item.Title)
	}

	logrus.Infof("✅ [CDC] Done, ingested %d alerts", len(titles))
	return titles, nil
}

// parseCDCListing extracts bulletin links from the first max anchors only;
// untitled entries inside that window are skipped rather than failing the
// page, and never replaced by later anchors.
func parseCDCListing(doc *goquery.Document, max int) []cdcItem {
	var items []cdcItem
	scanned := 0
	doc.Find(".content-boxes-v3 a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		scanned++
		title := strings.TrimSpace(link.AttrOr("title", ""))
		if title != "" {
			items = append(items, cdcItem{
				Title: title,
				URL:   cdcBaseURL + link.AttrOr("href", ""),
			})
		}
		return scanned < max
	})
	return items
}

// riskLevel derives the alert severity from the bulletin title.
func riskLevel(title string) string {
	for _, kw := range severityKeywords {
		if strings.Contains(title, kw) {
			return database.RiskHigh
		}
	}
	return database.RiskMedium
}
