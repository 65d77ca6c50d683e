package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/khanglvm/sales-pipeline/internal/pipeline"
)

const (
	maxRequestBodyBytes = 1 << 20
	defaultHistoryLimit = 20
)

type handlers struct {
	runner  Runner
	history History
	logger  *zap.Logger
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type runResponse struct {
	Status string          `json:"status"`
	Result pipeline.Record `json:"result"`
}

func (h *handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Sales Decision Pipeline API",
		"status":  "online",
	})
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleRunWorkflow runs the pipeline over the posted record.
// Missing fields take their defaults and an empty body is an empty record.
func (h *handlers) handleRunWorkflow(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var in pipeline.Input
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &in); err != nil {
			h.logger.Debug("rejecting run-workflow payload", zap.Error(err))
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
	}

	result, err := h.runner.Run(r.Context(), in.Record())
	if err != nil {
		h.logger.Error("workflow failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, runResponse{Status: "success", Result: result})
}

func (h *handlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history is not available")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.history.Recent(limit)
	if err != nil {
		h.logger.Error("failed to read history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: "error", Message: message})
}
