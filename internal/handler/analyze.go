package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/profile-explorer/internal/apperror"
)

// Analyzer produces a narrative summary for a handle.
type Analyzer interface {
	Analyze(ctx context.Context, handle string) (string, error)
}

// AnalyzeHandler is the server-side relay to the completion API.
type AnalyzeHandler struct {
	analyzer Analyzer
	logger   *slog.Logger
}

func NewAnalyzeHandler(analyzer Analyzer, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, logger: logger}
}

type analyzeRequest struct {
	Username string `json:"username"`
}

type analyzeResponse struct {
	Analysis string `json:"analysis"`
}

// HandleAnalyze generates a summary of a profile.
//
// HTTP: POST /analyze
// REQUEST BODY: {"username": "octocat"}
//
// Responses:
//
//	200 {"analysis": "..."}
//	400 {"message": "Missing username"}
//	404 {"message": "User not found"}
//	4xx/5xx from the model, passed through: {"message": "<model error>"}
//	500 {"message": "Unexpected error occurred."}
//
// A body that is not valid JSON is an unexpected failure, not a missing
// username, so it answers 500.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, h.logger, apperror.Internal(err))
		return
	}

	text, err := h.analyzer.Analyze(r.Context(), req.Username)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Analysis: text})
}
