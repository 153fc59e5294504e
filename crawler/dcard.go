package crawler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"medipoint/database"

	"github.com/sirupsen/logrus"
)

// mockDcardPosts stands in for a live Dcard fetcher, which the site's
// anti-scraping protections currently block.
// TODO: replace with a live fetcher once the Dcard API access request is approved.
var mockDcardPosts = []struct {
	Title   string
	Board   string
	Content string
}{
	{"最近流感真的好嚴重，小孩發燒三天了", "parenting", "看了兩次醫生都沒好..."},
	{"請問大家有推薦的維他命C嗎？", "health", "最近辦公室都在感冒..."},
	{"#請益 喉嚨痛到像刀割吃什麼藥有效？", "talk", "已經痛兩天了..."},
	{"藥局看到這個益生菌在特價值得買嗎？", "shopping", "大樹藥局現在買一送一..."},
	{"換季皮膚過敏好癢，求推薦藥膏", "makeup", "臉上紅一塊一塊的..."},
}

// DcardCrawler serves sample forum postings in demo mode. With demo mode off
// it ingests nothing instead of pretending the data is live.
type DcardCrawler struct {
	articles ArticleStore
	dict     *Dictionary
	demoMode bool
}

// NewDcardCrawler creates the (currently mock-only) Dcard crawler
func NewDcardCrawler(articles ArticleStore, dict *Dictionary, demoMode bool) *DcardCrawler {
	return &DcardCrawler{articles: articles, dict: dict, demoMode: demoMode}
}

// Crawl keyword-filters the sample postings and upserts them keyed by title
// with status mock.
func (c *DcardCrawler) Crawl(ctx context.Context) ([]string, error) {
	if !c.demoMode {
		logrus.Info("ℹ️  [Dcard] Demo mode off, source disabled")
		return nil, nil
	}
	logrus.Info("🚀 [Dcard] Crawling (mock mode)...")

	var titles []string
	for _, post := range mockDcardPosts {
		if !c.dict.IsHealthRelated(post.Title) {
			continue
		}
		article := &database.RawArticle{
			Source:    "Dcard",
			Board:     post.Board,
			Title:     post.Title,
			Content:   post.Content,
			URL:       fmt.Sprintf("https://www.dcard.tw/f/%s/p/%d", post.Board, 200000000+rand.Intn(50000000)),
			CrawledAt: time.Now(),
			Status:    database.ArticleStatusMock,
		}
		if err := c.articles.UpsertArticle(ctx, article); err != nil {
			return titles, fmt.Errorf("dcard: %w", err)
		}
		titles = append(titles, post.Title)
	}

	logrus.Infof("✅ [Dcard] Done, ingested %d mock articles", len(titles))
	return titles, nil
}
