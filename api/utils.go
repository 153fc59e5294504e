package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"medipoint/database"

	"github.com/sirupsen/logrus"
)

// getIntParam retrieves an integer query parameter with default value and optional range validation
func getIntParam(r *http.Request, key string, defaultVal int, minVal, maxVal *int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}

	if minVal != nil && val < *minVal {
		return defaultVal
	}
	if maxVal != nil && val > *maxVal {
		return defaultVal
	}

	return val
}

// getFloatParam retrieves a float query parameter with default value
func getFloatParam(r *http.Request, key string, defaultVal float64) float64 {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return defaultVal
	}

	return val
}

// requireDateParam fetches the mandatory date query parameter. A missing value
// writes the 400 response and returns false.
func requireDateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		respondWithError(w, http.StatusBadRequest, "date query parameter is required (YYYY-MM-DD)", nil)
		return "", false
	}
	return date, true
}

// respondJSON writes v as a JSON response
func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("⚠️  Failed to encode response: %v", err)
	}
}

// respondWithError logs the error and sends a JSON error response
// Use this to avoid exposing internal errors while still logging them
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		logrus.Warnf("API Error [%d]: %s - %v", code, message, err)
	} else {
		logrus.Warnf("API Error [%d]: %s", code, message)
	}
	respondJSON(w, code, map[string]string{"error": message})
}

// respondQueryError maps repository failures to status codes; malformed dates
// surface as 400, everything else as 500.
func respondQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, database.ErrInvalidDate) {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	respondWithError(w, http.StatusInternalServerError, "query failed", err)
}
