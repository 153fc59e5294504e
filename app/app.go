package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medipoint/api"
	"medipoint/cache"
	"medipoint/config"
	"medipoint/crawler"
	"medipoint/database"
	"medipoint/database/analytics"
	"medipoint/database/articles"
	"medipoint/database/summary"
	"medipoint/llm"
	"medipoint/logger"
	"medipoint/report"

	"github.com/sirupsen/logrus"
)

// App represents the main application
type App struct {
	config *config.Config
	db     *database.DB
	redis  *cache.RedisClient
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	logger.Init(cfg.LogLevel)
	return &App{config: cfg}
}

// Start wires every component and blocks until shutdown.
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Database connection
	logrus.Info("🗄️  Connecting to MongoDB...")
	db, err := database.Connect(ctx, database.Config{
		URI:         a.config.MongoURI,
		Database:    a.config.MongoDatabase,
		InsecureTLS: a.config.MongoInsecureTLS,
	})
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	// 2. Redis connection (caching disabled when unreachable)
	logrus.Info("🧠 Connecting to Redis...")
	a.redis = cache.NewRedisClient(a.config.RedisHost, a.config.RedisPort, a.config.RedisPassword)
	if a.redis == nil {
		logrus.Warn("⚠️  Redis connection failed. AI summary caching disabled.")
	}

	// 3. Repositories
	articleRepo := articles.NewRepository(db)
	analyticsRepo := analytics.NewRepository(db)
	summaryRepo := summary.NewRepository(db)

	// 4. Text generation client
	var llmClient *llm.Client
	if a.config.Gemini.Enabled {
		llmClient = llm.NewClient(
			a.config.Gemini.Endpoint,
			a.config.Gemini.APIKey,
			a.config.Gemini.Model,
			time.Duration(a.config.Gemini.TimeoutSeconds)*time.Second,
		)
		logrus.Infof("✅ Text generation ENABLED (Model: %s)", a.config.Gemini.Model)
	} else {
		logrus.Info("ℹ️  Text generation DISABLED")
	}

	// 5. Crawl sources
	dict, err := a.loadKeywords()
	if err != nil {
		return fmt.Errorf("keyword dictionary load failed: %w", err)
	}
	runner := crawler.NewRunner(a.crawlSources(articleRepo, dict))

	// 6. Composer services
	reportSvc := report.NewReportService(analyticsRepo, summarizer(llmClient), cache.NewSummaryCache(a.redis))
	dashboardSvc := report.NewDashboardService(
		summaryRepo,
		analyticsRepo,
		articleRepo,
		talkingPointer(llmClient),
		a.config.Dashboard.TargetDate,
		a.config.Dashboard.StoreID,
		a.config.Dashboard.DemoMode,
	)

	// 7. API server
	apiServer := api.NewServer(analyticsRepo, summaryRepo, reportSvc, dashboardSvc, runner, insightAnalyzer(llmClient))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- apiServer.Start(a.config.Port)
	}()

	// 8. Wait for interrupt and perform graceful shutdown
	return a.gracefulShutdown(cancel, apiServer, serverErr)
}

// crawlSources builds the ordered crawl source list: CDC alerts, the demo
// Dcard feed, Google News, then one source per configured PTT board.
func (a *App) crawlSources(articleRepo *articles.Repository, dict *crawler.Dictionary) []crawler.Source {
	fetch := crawler.NewFetcher(time.Duration(a.config.Crawler.FetchTimeoutSeconds) * time.Second)

	cdc := crawler.NewCDCCrawler(fetch, articleRepo)
	dcard := crawler.NewDcardCrawler(articleRepo, dict, a.config.Dashboard.DemoMode)
	news := crawler.NewNewsCrawler(fetch, articleRepo, dict, a.config.Crawler.NewsQuery)
	ptt := crawler.NewPTTCrawler(fetch, articleRepo, dict, a.config.Crawler.PTTPageLimit)

	sources := []crawler.Source{
		{Name: "cdc", Run: cdc.Crawl},
		{Name: "dcard", Run: dcard.Crawl},
		{Name: "news", Run: news.Crawl},
	}
	for _, board := range a.config.Crawler.PTTBoards {
		sources = append(sources, crawler.Source{
			Name: "ptt",
			Run: func(ctx context.Context) ([]string, error) {
				return ptt.Crawl(ctx, board)
			},
		})
	}
	return sources
}

func (a *App) loadKeywords() (*crawler.Dictionary, error) {
	if path := a.config.Crawler.KeywordsFile; path != "" {
		dict, err := crawler.LoadDictionary(path)
		if err != nil {
			return nil, err
		}
		logrus.Infof("✅ Keyword dictionary loaded from %s", path)
		return dict, nil
	}
	return crawler.DefaultDictionary(), nil
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown(cancel context.CancelFunc, apiServer *api.Server, serverErr chan error) error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("API server failed: %w", err)
	case <-interrupt:
	}
	logrus.Info("🛑 Shutdown signal received, initiating graceful shutdown...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	shutdownComplete := make(chan struct{})
	go func() {
		logrus.Info("📡 Stopping API server...")
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logrus.Warnf("Error stopping API server: %v", err)
		} else {
			logrus.Info("✅ API server stopped")
		}

		if a.db != nil {
			if err := a.db.Close(shutdownCtx); err != nil {
				logrus.Warnf("Error closing database: %v", err)
			} else {
				logrus.Info("✅ Database connection closed")
			}
		}

		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				logrus.Warnf("Error closing redis: %v", err)
			} else {
				logrus.Info("✅ Redis connection closed")
			}
		}

		close(shutdownComplete)
	}()

	select {
	case <-shutdownComplete:
		logrus.Info("✅ Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		logrus.Warn("⚠️  Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}

// A typed nil *llm.Client inside a non-nil interface would dodge the nil
// checks in the composers, so the adapters below only wrap live clients.

func summarizer(c *llm.Client) report.Summarizer {
	if c == nil {
		return nil
	}
	return c
}

func talkingPointer(c *llm.Client) report.TalkingPointer {
	if c == nil {
		return nil
	}
	return c
}

func insightAnalyzer(c *llm.Client) api.InsightAnalyzer {
	if c == nil {
		return nil
	}
	return c
}
