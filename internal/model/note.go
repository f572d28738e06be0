package model

import (
	"fmt"
	"strings"
	"time"
)

// NoteKind tags what a note is attached to. Kind and identity are stored
// as separate columns, so a profile handle and a repository name can never
// collide even when the raw strings are identical.
type NoteKind string

const (
	NoteKindProfile    NoteKind = "profile"
	NoteKindRepository NoteKind = "repository"
)

// Namespace is the storage namespace for a kind of note.
func (k NoteKind) Namespace() string {
	switch k {
	case NoteKindProfile:
		return "github-notes"
	case NoteKindRepository:
		return "github-repo-notes"
	default:
		return ""
	}
}

// ParseNoteKind accepts either the kind name or its storage namespace.
func ParseNoteKind(s string) (NoteKind, bool) {
	switch s {
	case string(NoteKindProfile), NoteKindProfile.Namespace():
		return NoteKindProfile, true
	case string(NoteKindRepository), "repo", NoteKindRepository.Namespace():
		return NoteKindRepository, true
	default:
		return "", false
	}
}

// NoteKey is the structured composite key of a note.
type NoteKey struct {
	Kind     NoteKind `json:"kind"`
	Identity string   `json:"identity"`
}

// ProfileNoteKey keys a note on a profile handle.
func ProfileNoteKey(handle string) NoteKey {
	return NoteKey{Kind: NoteKindProfile, Identity: handle}
}

// RepositoryNoteKey keys a note on a fully-qualified repository name.
func RepositoryNoteKey(owner, name string) NoteKey {
	return NoteKey{Kind: NoteKindRepository, Identity: owner + "/" + name}
}

// String renders the key in the "<namespace>-<identity>" layout. It is for
// display and logging only; storage never parses it back.
func (k NoteKey) String() string {
	return fmt.Sprintf("%s-%s", k.Kind.Namespace(), k.Identity)
}

// Valid reports whether the key names a known kind and a usable identity.
func (k NoteKey) Valid() bool {
	if k.Kind.Namespace() == "" || strings.TrimSpace(k.Identity) == "" {
		return false
	}
	if k.Kind == NoteKindRepository {
		owner, name, ok := strings.Cut(k.Identity, "/")
		return ok && owner != "" && name != "" && !strings.Contains(name, "/")
	}
	return true
}

// Note is a free-text annotation owned by one device.
type Note struct {
	DeviceID  string    `json:"-"`
	Key       NoteKey   `json:"key"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
