package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoteKey_Valid(t *testing.T) {
	tests := []struct {
		name string
		key  NoteKey
		want bool
	}{
		{"profile handle", ProfileNoteKey("octocat"), true},
		{"blank profile handle", ProfileNoteKey("  "), false},
		{"repository full name", RepositoryNoteKey("octocat", "hello-world"), true},
		{"repository without owner", NoteKey{Kind: NoteKindRepository, Identity: "/hello"}, false},
		{"repository without slash", NoteKey{Kind: NoteKindRepository, Identity: "hello"}, false},
		{"repository with nested path", NoteKey{Kind: NoteKindRepository, Identity: "a/b/c"}, false},
		{"unknown kind", NoteKey{Kind: "gist", Identity: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.Valid())
		})
	}
}

func TestNoteKey_String(t *testing.T) {
	assert.Equal(t, "github-notes-octocat", ProfileNoteKey("octocat").String())
	assert.Equal(t, "github-repo-notes-octocat/hello-world", RepositoryNoteKey("octocat", "hello-world").String())
}

func TestParseNoteKind(t *testing.T) {
	kind, ok := ParseNoteKind("github-repo-notes")
	assert.True(t, ok)
	assert.Equal(t, NoteKindRepository, kind)

	kind, ok = ParseNoteKind("profile")
	assert.True(t, ok)
	assert.Equal(t, NoteKindProfile, kind)

	_, ok = ParseNoteKind("snippet")
	assert.False(t, ok)
}

func TestRepository_DisplayTopics(t *testing.T) {
	r := Repository{Topics: []string{"a", "b", "c", "d", "e", "f", "g"}}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, r.DisplayTopics())

	short := Repository{Topics: []string{"go"}}
	assert.Equal(t, []string{"go"}, short.DisplayTopics())
}

func TestProfile_DisplayName(t *testing.T) {
	assert.Equal(t, "The Octocat", Profile{Login: "octocat", Name: "The Octocat"}.DisplayName())
	assert.Equal(t, "octocat", Profile{Login: "octocat"}.DisplayName())
}
