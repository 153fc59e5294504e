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

const pttBaseURL = "https://www.ptt.cc"

// pttCookies passes the age gate on boards like Gossiping.
var pttCookies = map[string]string{"over18": "1"}

// announcementMarker excludes board housekeeping posts from ingestion.
const announcementMarker = "公告"

// PTTCrawler walks a board's article index backward page by page.
type PTTCrawler struct {
	fetch     *Fetcher
	articles  ArticleStore
	dict      *Dictionary
	pageLimit int
}

// NewPTTCrawler creates a PTT board crawler limited to pageLimit index pages.
func NewPTTCrawler(fetch *Fetcher, articles ArticleStore, dict *Dictionary, pageLimit int) *PTTCrawler {
	if pageLimit < 1 {
		pageLimit = 1
	}
	return &PTTCrawler{fetch: fetch, articles: articles, dict: dict, pageLimit: pageLimit}
}

// pttEntry is one listing row extracted from an index page.
type pttEntry struct {
	Title string
	URL   string
	Date  string
}

// Crawl pages backward through the board index, keyword-filters each row and
// upserts matches into raw_articles. A fetch or parse error ends pagination
// for this board; titles ingested so far are still returned.
func (c *PTTCrawler) Crawl(ctx context.Context, board string) ([]string, error) {
	logrus.Infof("🚀 [PTT] Crawling board %s...", board)
	currentURL := fmt.Sprintf("%s/bbs/%s/index.html", pttBaseURL, board)

	var titles []string
	for page := 0; page < c.pageLimit; page++ {
		doc, err := c.fetch.GetDocument(ctx, currentURL, pttCookies)
		if err != nil {
			return titles, fmt.Errorf("board %s page %d: %w", board, page+1, err)
		}

		entries, prevURL := parsePTTIndex(doc)
		for _, entry := range entries {
			if strings.Contains(entry.Title, announcementMarker) {
				continue
			}
			if !c.dict.IsHealthRelated(entry.Title) {
				continue
			}

			article := &database.RawArticle{
				Source:    "PTT",
				Board:     board,
				Title:     entry.Title,
				Content:   entry.Title,
				URL:       entry.URL,
				Date:      entry.Date,
				CrawledAt: time.Now(),
				Status:    database.ArticleStatusNew,
			}
			if err := c.articles.UpsertArticle(ctx, article); err != nil {
				return titles, fmt.Errorf("board %s: %w", board, err)
			}
			titles = append(titles, entry.Title)
		}

		if prevURL == "" {
			break
		}
		currentURL = pttBaseURL + prevURL
	}

	logrus.Infof("✅ [PTT-%s] Done, ingested %d articles", board, len(titles))
	return titles, nil
}

// parsePTTIndex extracts listing rows and the previous-page link from a board
// index document. Rows without a link (deleted posts) are skipped. Article
// links are absolutized against the site host so the stored url is directly
// usable. prevURL stays relative and is empty when the 上頁 control is
// missing, which ends pagination.
func parsePTTIndex(doc *goquery.Document) (entries []pttEntry, prevURL string) {
	doc.Find("div.r-ent").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("div.title a").First()
		if link.Length() == 0 {
			return
		}
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		entries = append(entries, pttEntry{
			Title: strings.TrimSpace(link.Text()),
			URL:   pttBaseURL + href,
			Date:  strings.TrimSpace(row.Find("div.date").Text()),
		})
	})

	paging := doc.Find("div.btn-group-paging a")
	if paging.Length() >= 2 {
		prev := paging.Eq(1)
		if strings.Contains(prev.Text(), "上頁") {
			prevURL, _ = prev.Attr("href")
		}
	}
	return entries, prevURL
}
