package api

import "net/http"

// Raw dump defaults follow the collection sizes the frontend charts expect.
const (
	defaultDumpLimit    = 200
	defaultSummaryLimit = 31
)

// handleSales serves GET /sales
func (s *Server) handleSales(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", defaultDumpLimit, &one, nil)

	docs, err := s.data.SalesDump(r.Context(), limit)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// handleInventory serves GET /inventory
func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	docs, err := s.data.InventoryDump(r.Context())
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// handleInventoryLow serves GET /inventory/low
func (s *Server) handleInventoryLow(w http.ResponseWriter, r *http.Request) {
	threshold := getIntParam(r, "threshold", defaultLowStockThreshold, &one, nil)

	docs, err := s.data.InventoryLow(r.Context(), threshold)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// handleCategory serves GET /category
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	limit := getIntParam(r, "limit", defaultDumpLimit, &one, nil)

	docs, err := s.data.CategoryTrend(r.Context(), category, limit)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// handleCategoryByDate serves GET /category/by-date
func (s *Server) handleCategoryByDate(w http.ResponseWriter, r *http.Request) {
	date, ok := requireDateParam(w, r)
	if !ok {
		return
	}

	docs, err := s.data.CategoryByDate(r.Context(), date)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// handleSummary serves GET /summary
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", defaultSummaryLimit, &one, nil)

	docs, err := s.data.Summaries(r.Context(), limit)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// handleSummaryByDate serves GET /summary/by-date
func (s *Server) handleSummaryByDate(w http.ResponseWriter, r *http.Request) {
	date, ok := requireDateParam(w, r)
	if !ok {
		return
	}

	docs, err := s.data.SummaryByDate(r.Context(), date)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}
