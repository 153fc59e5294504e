package api

import (
	"encoding/json"
	"net/http"
)

type insightRequest struct {
	Text string `json:"text"`
}

// handleInsight serves POST /insight
func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if s.insights == nil {
		respondWithError(w, http.StatusServiceUnavailable, "text generation is disabled", nil)
		return
	}

	var req insightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Text == "" {
		respondWithError(w, http.StatusBadRequest, "text is required", nil)
		return
	}

	result, err := s.insights.AnalyzeInsight(r.Context(), req.Text)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "insight analysis failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"result": result})
}
