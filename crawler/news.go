package crawler

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"time"

	"medipoint/database"

	"github.com/sirupsen/logrus"
)

const newsMaxItems = 10

// NewsCrawler pulls the Google News RSS feed for a fixed boolean-OR query.
type NewsCrawler struct {
	fetch    *Fetcher
	articles ArticleStore
	dict     *Dictionary
	query    string
}

// NewNewsCrawler creates a Google News RSS crawler
func NewNewsCrawler(fetch *Fetcher, articles ArticleStore, dict *Dictionary, query string) *NewsCrawler {
	return &NewsCrawler{fetch: fetch, articles: articles, dict: dict, query: query}
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

// Crawl fetches the feed, keyword-filters the first items and upserts matches
// into raw_articles keyed by URL.
func (c *NewsCrawler) Crawl(ctx context.Context) ([]string, error) {
	logrus.Info("🚀 [News] Crawling Google News feed...")

	feedURL := fmt.Sprintf(
		"https://news.google.com/rss/search?q=%s&hl=zh-TW&gl=TW&ceid=TW:zh-Hant",
		url.QueryEscape(c.query),
	)
	body, err := c.fetch.Get(ctx, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("news feed: %w", err)
	}

	items, err := parseRSS(body, newsMaxItems)
	if err != nil {
		return nil, fmt.Errorf("news feed: %w", err)
	}

	var titles []string
	for _, item := range items {
		if !c.dict.IsHealthRelated(item.Title) {
			continue
		}
		article := &database.RawArticle{
			Source:    "GoogleNews",
			Board:     "News",
			Title:     item.Title,
			Content:   item.Title,
			URL:       item.Link,
			Date:      item.PubDate,
			CrawledAt: time.Now(),
			Status:    database.ArticleStatusNew,
		}
		if err := c.articles.UpsertArticle(ctx, article); err != nil {
			return titles, fmt.Errorf("news: %w", err)
		}
		titles = append(titles, item.Title)
	}

	logrus.Infof("✅ [News] Done, ingested %d articles", len(titles))
	return titles, nil
}

// parseRSS decodes an RSS document and returns at most max items.
func parseRSS(body []byte, max int) ([]rssItem, error) {
	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}
	items := feed.Channel.Items
	if len(items) > max {
		items = items[:max]
	}
	return items, nil
}
