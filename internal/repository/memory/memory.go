// Package memory is an in-process NoteRepository. It backs tests and the
// CLI's --memory mode; nothing survives the process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sakif/profile-explorer/internal/apperror"
	"github.com/sakif/profile-explorer/internal/model"
	"github.com/sakif/profile-explorer/internal/repository"
)

var _ repository.NoteRepository = (*Store)(nil)

type key struct {
	device   string
	kind     model.NoteKind
	identity string
}

type Store struct {
	mu    sync.RWMutex
	notes map[key]model.Note
	now   func() time.Time
}

func New() *Store {
	return &Store{
		notes: make(map[key]model.Note),
		now:   time.Now,
	}
}

func (s *Store) GetNote(_ context.Context, deviceID string, k model.NoteKey) (*model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[key{deviceID, k.Kind, k.Identity}]
	if !ok {
		return nil, apperror.NotFound("Note", k.String())
	}
	return &n, nil
}

func (s *Store) SaveNote(_ context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	k := key{note.DeviceID, note.Key.Kind, note.Key.Identity}

	note.CreatedAt = now
	if existing, ok := s.notes[k]; ok {
		note.CreatedAt = existing.CreatedAt
	}
	note.UpdatedAt = now

	s.notes[k] = *note
	return nil
}

func (s *Store) DeleteNote(_ context.Context, deviceID string, k model.NoteKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.notes, key{deviceID, k.Kind, k.Identity})
	return nil
}

func (s *Store) ListNotes(_ context.Context, deviceID string, opts repository.ListOptions) ([]model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]model.Note, 0)
	for k, n := range s.notes {
		if k.device != deviceID {
			continue
		}
		if opts.Kind != "" && k.kind != opts.Kind {
			continue
		}
		notes = append(notes, n)
	}

	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
		}
		return notes[i].Key.Identity < notes[j].Key.Identity
	})

	offset := max(opts.Offset, 0)
	if offset >= len(notes) {
		return []model.Note{}, nil
	}
	notes = notes[offset:]
	if opts.Limit > 0 && opts.Limit < len(notes) {
		notes = notes[:opts.Limit]
	}
	return notes, nil
}
