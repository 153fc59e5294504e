package api

import (
	"context"
	"net/http"
)

// handleCrawlerRun serves POST /api/crawler/run. The run continues in the
// background after the response, so it is detached from the request context.
func (s *Server) handleCrawlerRun(w http.ResponseWriter, r *http.Request) {
	jobID := s.crawls.Start(context.WithoutCancel(r.Context()))

	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "全平台爬蟲任務已啟動",
		"job_id":  jobID,
		"status":  "processing",
	})
}

// handleCrawlerJob serves GET /api/crawler/jobs/{id}
func (s *Server) handleCrawlerJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	job, ok := s.crawls.JobStatus(id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "unknown crawl job", nil)
		return
	}
	respondJSON(w, http.StatusOK, job)
}
