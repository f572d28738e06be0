package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/profile-explorer/internal/model"
)

// ProfileLookup is what ProfileHandler needs from the service layer.
type ProfileLookup interface {
	Lookup(ctx context.Context, handle string) (*model.ProfileView, error)
	Repositories(ctx context.Context, handle string) ([]model.Repository, error)
}

// ProfileHandler serves single-profile lookups.
type ProfileHandler struct {
	profiles ProfileLookup
	logger   *slog.Logger
}

func NewProfileHandler(profiles ProfileLookup, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// HandleGet returns profile, repositories and aggregated metrics.
//
// HTTP: GET /api/users/{handle}
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.profiles.Lookup(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleRepositories returns the repository listing only.
//
// HTTP: GET /api/users/{handle}/repos
func (h *ProfileHandler) HandleRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := h.profiles.Repositories(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"repositories": repos})
}
