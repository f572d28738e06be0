// Package repository defines the storage interfaces the service layer
// depends on. Implementations live in the sqlite and memory subpackages.
package repository

import (
	"context"

	"github.com/sakif/profile-explorer/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
	Kind   model.NoteKind // empty lists every kind
}

// NoteRepository stores notes per device under the composite key
// (device, kind, identity).
//
// GetNote returns an apperror NotFound when no note exists. SaveNote is an
// upsert and may store empty text. DeleteNote succeeds whether or not the
// note existed.
type NoteRepository interface {
	GetNote(ctx context.Context, deviceID string, key model.NoteKey) (*model.Note, error)
	SaveNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, deviceID string, key model.NoteKey) error
	ListNotes(ctx context.Context, deviceID string, opts ListOptions) ([]model.Note, error)
}
