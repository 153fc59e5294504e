package api

import "net/http"

// handleDailyReport serves GET /report/daily
func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	date, ok := requireDateParam(w, r)
	if !ok {
		return
	}
	storeID := r.URL.Query().Get("store_id")
	withAI := r.URL.Query().Get("with_ai") == "true"

	result, err := s.reports.DailyReport(r.Context(), date, storeID, withAI)
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleWeeklyReport serves GET /api/dashboard/weekly-report
func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	result, err := s.dashboard.WeeklyReport(r.Context())
	if err != nil {
		respondQueryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
