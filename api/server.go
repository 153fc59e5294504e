package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"medipoint/crawler"
	"medipoint/database/analytics"
	"medipoint/report"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

// Server handles HTTP API requests
type Server struct {
	analytics AnalyticsProvider
	data      DataProvider
	reports   ReportProvider
	dashboard DashboardProvider
	crawls    CrawlRunner
	insights  InsightAnalyzer // nil when text generation is disabled

	srv *http.Server
}

// AnalyticsProvider exposes the day-scoped aggregate queries.
type AnalyticsProvider interface {
	KPIDaily(ctx context.Context, date, storeID string) (*analytics.KPI, error)
	TopProducts(ctx context.Context, date, storeID string, limit int) ([]analytics.ProductRank, error)
	TopCategories(ctx context.Context, date string, limit int) ([]analytics.CategoryRank, error)
	LowStock(ctx context.Context, storeID string, threshold, limit int) ([]analytics.LowStockItem, error)
	SpikeProducts(ctx context.Context, date, storeID string, ratio float64, limit int) ([]analytics.SpikeItem, error)
}

// DataProvider exposes the raw collection dump queries.
type DataProvider interface {
	SalesDump(ctx context.Context, limit int) ([]bson.M, error)
	InventoryDump(ctx context.Context) ([]bson.M, error)
	InventoryLow(ctx context.Context, threshold int) ([]bson.M, error)
	CategoryTrend(ctx context.Context, category string, limit int) ([]bson.M, error)
	CategoryByDate(ctx context.Context, date string) ([]bson.M, error)
	Summaries(ctx context.Context, limit int) ([]bson.M, error)
	SummaryByDate(ctx context.Context, date string) ([]bson.M, error)
}

// ReportProvider assembles the one-page daily report.
type ReportProvider interface {
	DailyReport(ctx context.Context, date, storeID string, withAI bool) (*report.DailyReport, error)
}

// DashboardProvider assembles the weekly dashboard payload.
type DashboardProvider interface {
	WeeklyReport(ctx context.Context) (*report.WeeklyDashboard, error)
}

// CrawlRunner triggers crawl runs and reports their status.
type CrawlRunner interface {
	Start(ctx context.Context) string
	JobStatus(id string) (crawler.Job, bool)
}

// InsightAnalyzer runs the ad-hoc chatter analysis.
type InsightAnalyzer interface {
	AnalyzeInsight(ctx context.Context, text string) (string, error)
}

// NewServer creates a new API server instance. insights may be nil.
func NewServer(analyticsProvider AnalyticsProvider, data DataProvider, reports ReportProvider, dashboard DashboardProvider, crawls CrawlRunner, insights InsightAnalyzer) *Server {
	return &Server{
		analytics: analyticsProvider,
		data:      data,
		reports:   reports,
		dashboard: dashboard,
		crawls:    crawls,
		insights:  insights,
	}
}

// routes builds the request multiplexer.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Dashboard + crawler
	mux.HandleFunc("GET /api/dashboard/weekly-report", s.handleWeeklyReport)
	mux.HandleFunc("POST /api/crawler/run", s.handleCrawlerRun)
	mux.HandleFunc("GET /api/crawler/jobs/{id}", s.handleCrawlerJob)

	// Analytics
	mux.HandleFunc("GET /analytics/kpi/daily", s.handleKPIDaily)
	mux.HandleFunc("GET /analytics/top-products", s.handleTopProducts)
	mux.HandleFunc("GET /analytics/top-categories", s.handleTopCategories)
	mux.HandleFunc("GET /analytics/low-stock", s.handleLowStock)
	mux.HandleFunc("GET /analytics/spike-products", s.handleSpikeProducts)

	// Report
	mux.HandleFunc("GET /report/daily", s.handleDailyReport)

	// Raw collection dumps
	mux.HandleFunc("GET /sales", s.handleSales)
	mux.HandleFunc("GET /inventory", s.handleInventory)
	mux.HandleFunc("GET /inventory/low", s.handleInventoryLow)
	mux.HandleFunc("GET /category", s.handleCategory)
	mux.HandleFunc("GET /category/by-date", s.handleCategoryByDate)
	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /summary/by-date", s.handleSummaryByDate)

	// Insight analysis (LLM)
	mux.HandleFunc("POST /insight", s.handleInsight)

	return s.corsMiddleware(s.loggingMiddleware(mux))
}

// Start starts the HTTP server on the specified port and blocks until it
// stops. Use Shutdown for a graceful stop.
func (s *Server) Start(port int) error {
	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	s.srv = &http.Server{
		Addr:         serverAddr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	logrus.Infof("🚀 API Server starting on %s", serverAddr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting new requests and drains in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.Infof("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to MediPoint API!",
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
