package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/profile-explorer/internal/apperror"
	"github.com/sakif/profile-explorer/internal/device"
	"github.com/sakif/profile-explorer/internal/model"
	"github.com/sakif/profile-explorer/internal/repository"
)

// NoteStore is what NoteHandler needs from the service layer.
type NoteStore interface {
	Get(ctx context.Context, deviceID string, key model.NoteKey) (*model.Note, error)
	Save(ctx context.Context, deviceID string, key model.NoteKey, text string) (*model.Note, error)
	Delete(ctx context.Context, deviceID string, key model.NoteKey) error
	List(ctx context.Context, deviceID string, opts repository.ListOptions) ([]model.Note, error)
}

// NoteHandler manages the calling device's notes. The device comes from
// the request context (see device.Identify); one device never sees
// another's notes.
type NoteHandler struct {
	notes  NoteStore
	logger *slog.Logger
}

func NewNoteHandler(notes NoteStore, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

type saveNoteRequest struct {
	Text *string `json:"text"`
}

// HandleList returns the device's notes, newest first.
//
// HTTP: GET /api/notes?kind=profile|repository&limit=N&offset=M
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var opts repository.ListOptions
	if k := q.Get("kind"); k != "" {
		kind, ok := model.ParseNoteKind(k)
		if !ok {
			writeError(w, h.logger, apperror.ValidationFailed("kind", "kind must be profile or repository"))
			return
		}
		opts.Kind = kind
	}
	// Malformed numbers fall back to the service defaults.
	opts.Limit, _ = strconv.Atoi(q.Get("limit"))
	opts.Offset, _ = strconv.Atoi(q.Get("offset"))

	notes, err := h.notes.List(r.Context(), deviceID(r), opts)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// HandleGet returns one note, or 404 if none is stored.
//
// HTTP: GET /api/notes/profile/{handle}
// HTTP: GET /api/notes/repository/{owner}/{name}
func (h *NoteHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(r.Context(), deviceID(r), noteKey(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// HandleSave creates or overwrites a note.
//
// HTTP: PUT /api/notes/profile/{handle}
// HTTP: PUT /api/notes/repository/{owner}/{name}
// REQUEST BODY: {"text": "..."}; an empty string stores an empty note.
func (h *NoteHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req saveNoteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, h.logger, apperror.ValidationFailed("body", "Invalid JSON body"))
		return
	}
	if req.Text == nil {
		writeError(w, h.logger, apperror.MissingInput("text", "text is required"))
		return
	}

	note, err := h.notes.Save(r.Context(), deviceID(r), noteKey(r), *req.Text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// HandleDelete removes a note. It answers 204 whether or not a note existed.
//
// HTTP: DELETE /api/notes/profile/{handle}
// HTTP: DELETE /api/notes/repository/{owner}/{name}
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), deviceID(r), noteKey(r)); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// noteKey builds the key from whichever route matched. Profile routes carry
// {handle}; repository routes carry {owner} and {name}.
func noteKey(r *http.Request) model.NoteKey {
	if handle := chi.URLParam(r, "handle"); handle != "" {
		return model.ProfileNoteKey(handle)
	}
	return model.RepositoryNoteKey(chi.URLParam(r, "owner"), chi.URLParam(r, "name"))
}

func deviceID(r *http.Request) string {
	id, _ := device.IDFromContext(r.Context())
	return id
}
