// Package service contains the business logic of the profile explorer.
//
// THE LAYERS:
//
//	Handler (HTTP / CLI)  → parses input, renders output
//	Service               → validates, orchestrates, classifies failures
//	Directory / Completion / Repository → talk to the outside world
//
// Services depend on the small interfaces below, never on concrete clients,
// so tests swap in fakes and the CLI reuses exactly the same code as the
// HTTP server.
package service

import (
	"context"
	"strings"

	"github.com/sakif/profile-explorer/internal/apperror"
	"github.com/sakif/profile-explorer/internal/model"
)

// Directory is the subset of the Directory API the services use.
// *directory.Client satisfies it.
type Directory interface {
	Profile(ctx context.Context, handle string) (*model.Profile, error)
	Repositories(ctx context.Context, handle string, perPage int) ([]model.Repository, error)
	ProfileWithRepositories(ctx context.Context, handle string, perPage int) (*model.Profile, []model.Repository, error)
}

// Completer turns a prompt into generated text. *completion.Client
// satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// MsgMissingUsername is returned whenever a required handle is blank.
const MsgMissingUsername = "Missing username"

// normalizeHandle trims surrounding whitespace and rejects a blank handle.
func normalizeHandle(field, handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", apperror.MissingInput(field, MsgMissingUsername)
	}
	return handle, nil
}
