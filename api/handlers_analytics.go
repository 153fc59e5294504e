package api

import "net/http"

// Analytics defaults mirror the report composition limits.
const (
	defaultTopLimit          = 10
	defaultLowStockThreshold = 10
	defaultLowStockLimit     = 50
	defaultSpikeRatio        = 2.0
	defaultSpikeLimit        = 20

	maxListLimit = 500
)

var (
	one      = 1
	maxLimit = maxListLimit
)

// handleKPIDaily serves GET /analytics/kpi/daily
func (s *Server) handleKPIDaily(w http.ResponseWriter, r *http.Request) {
	date, ok := requireDateParam(w, r)
	if !ok {
		return
	}
	storeID := r.URL.Query().Get("store_id")

	kpi, err := s.analytics.KPIDaily(r.Context(), date, storeID)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, kpi)
}

// handleTopProducts serves GET /analytics/top-products
func (s *Server) handleTopProducts(w http.ResponseWriter, r *http.Request) {
	date, ok := requireDateParam(w, r)
	if !ok {
		return
	}
	storeID := r.URL.Query().Get("store_id")
	limit := getIntParam(r, "limit", defaultTopLimit, &one, &maxLimit)

	ranks, err := s.analytics.TopProducts(r.Context(), date, storeID, limit)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ranks)
}

// handleTopCategories serves GET /analytics/top-categories
func (s *Server) handleTopCategories(w http.ResponseWriter, r *http.Request) {
	date, ok := requireDateParam(w, r)
	if !ok {
		return
	}
	limit := getIntParam(r, "limit", defaultTopLimit, &one, &maxLimit)

	ranks, err := s.analytics.TopCategories(r.Context(), date, limit)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ranks)
}

// handleLowStock serves GET /analytics/low-stock
func (s *Server) handleLowStock(w http.ResponseWriter, r *http.Request) {
	storeID := r.URL.Query().Get("store_id")
	threshold := getIntParam(r, "threshold", defaultLowStockThreshold, &one, nil)
	limit := getIntParam(r, "limit", defaultLowStockLimit, &one, &maxLimit)

	items, err := s.analytics.LowStock(r.Context(), storeID, threshold, limit)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// handleSpikeProducts serves GET /analytics/spike-products
func (s *Server) handleSpikeProducts(w http.ResponseWriter, r *http.Request) {
	date, ok := requireDateParam(w, r)
	if !ok {
		return
	}
	storeID := r.URL.Query().Get("store_id")
	ratio := getFloatParam(r, "ratio", defaultSpikeRatio)
	limit := getIntParam(r, "limit", defaultSpikeLimit, &one, &maxLimit)

	spikes, err := s.analytics.SpikeProducts(r.Context(), date, storeID, ratio, limit)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, spikes)
}
