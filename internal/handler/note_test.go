package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/profile-explorer/internal/device"
	"github.com/sakif/profile-explorer/internal/handler"
	"github.com/sakif/profile-explorer/internal/model"
	"github.com/sakif/profile-explorer/internal/repository/memory"
	"github.com/sakif/profile-explorer/internal/service"
)

// noteRouter mounts the note routes the same way the server does, with a
// fixed device id injected in place of the cookie middleware.
func noteRouter(t *testing.T, deviceID string) http.Handler {
	t.Helper()
	h := handler.NewNoteHandler(service.NewNoteService(memory.New(), testLogger()), testLogger())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if deviceID != "" {
				req = req.WithContext(device.WithID(req.Context(), deviceID))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/api/notes", h.HandleList)
	r.Route("/api/notes/profile/{handle}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Put("/", h.HandleSave)
		r.Delete("/", h.HandleDelete)
	})
	r.Route("/api/notes/repository/{owner}/{name}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Put("/", h.HandleSave)
		r.Delete("/", h.HandleDelete)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestNoteHandler_Lifecycle(t *testing.T) {
	h := noteRouter(t, "dev1")

	rr := do(t, h, http.MethodGet, "/api/notes/profile/octocat", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPut, "/api/notes/profile/octocat", `{"text":"knows Go"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/notes/profile/octocat", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var note model.Note
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&note))
	assert.Equal(t, "knows Go", note.Text)
	assert.Equal(t, model.ProfileNoteKey("octocat"), note.Key)

	rr = do(t, h, http.MethodDelete, "/api/notes/profile/octocat", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/notes/profile/octocat", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Deleting again is still a success.
	rr = do(t, h, http.MethodDelete, "/api/notes/profile/octocat", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestNoteHandler_RepositoryNotes(t *testing.T) {
	h := noteRouter(t, "dev1")

	rr := do(t, h, http.MethodPut, "/api/notes/repository/octocat/hello-world", `{"text":"good tests"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/notes/repository/octocat/hello-world", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var note model.Note
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&note))
	assert.Equal(t, "octocat/hello-world", note.Key.Identity)
	assert.Equal(t, model.NoteKindRepository, note.Key.Kind)

	// The profile note for the same owner is a different key.
	rr = do(t, h, http.MethodGet, "/api/notes/profile/octocat", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/notes?kind=repository", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Notes []model.Note `json:"notes"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	assert.Len(t, list.Notes, 1)
}

func TestNoteHandler_BadRequests(t *testing.T) {
	h := noteRouter(t, "dev1")

	rr := do(t, h, http.MethodPut, "/api/notes/profile/octocat", `{"txt":"typo"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "text is required", decodeMessage(t, rr))

	rr = do(t, h, http.MethodPut, "/api/notes/profile/octocat", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/notes?kind=gist", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNoteHandler_NoDevice(t *testing.T) {
	h := noteRouter(t, "")

	rr := do(t, h, http.MethodPut, "/api/notes/profile/octocat", `{"text":"x"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
