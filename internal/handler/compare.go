package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/profile-explorer/internal/model"
)

type Comparer interface {
	Compare(ctx context.Context, left, right string) (*model.Comparison, error)
}

type CompareHandler struct {
	comparer Comparer
	logger   *slog.Logger
}

func NewCompareHandler(comparer Comparer, logger *slog.Logger) *CompareHandler {
	return &CompareHandler{comparer: comparer, logger: logger}
}

// HandleCompare compares two profiles side by side.
//
// HTTP: GET /api/compare?left={handle}&right={handle}
func (h *CompareHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.comparer.Compare(r.Context(), q.Get("left"), q.Get("right"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
