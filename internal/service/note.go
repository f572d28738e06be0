package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/profile-explorer/internal/apperror"
	"github.com/sakif/profile-explorer/internal/model"
	"github.com/sakif/profile-explorer/internal/repository"
)

const (
	DefaultNoteListLimit = 50
	MaxNoteListLimit     = 200
)

// NoteService manages a device's notes on profiles and repositories.
type NoteService struct {
	repo   repository.NoteRepository
	logger *slog.Logger
}

func NewNoteService(repo repository.NoteRepository, logger *slog.Logger) *NoteService {
	return &NoteService{repo: repo, logger: logger}
}

func (s *NoteService) Get(ctx context.Context, deviceID string, key model.NoteKey) (*model.Note, error) {
	if err := checkNoteTarget(deviceID, key); err != nil {
		return nil, err
	}

	note, err := s.repo.GetNote(ctx, deviceID, key)
	if err != nil {
		return nil, fmt.Errorf("getting note: %w", err)
	}
	return note, nil
}

// Save creates or overwrites a note. Empty text is stored as an empty
// note; use Delete to remove the association.
func (s *NoteService) Save(ctx context.Context, deviceID string, key model.NoteKey, text string) (*model.Note, error) {
	if err := checkNoteTarget(deviceID, key); err != nil {
		return nil, err
	}

	note := &model.Note{DeviceID: deviceID, Key: key, Text: text}
	if err := s.repo.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("saving note: %w", err)
	}

	s.logger.Info("note saved",
		slog.String("device_id", deviceID),
		slog.String("key", key.String()),
		slog.Int("length", len(text)),
	)
	return note, nil
}

// Delete removes a note. Deleting a missing note succeeds.
func (s *NoteService) Delete(ctx context.Context, deviceID string, key model.NoteKey) error {
	if err := checkNoteTarget(deviceID, key); err != nil {
		return err
	}

	if err := s.repo.DeleteNote(ctx, deviceID, key); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}

	s.logger.Info("note deleted",
		slog.String("device_id", deviceID),
		slog.String("key", key.String()),
	)
	return nil
}

func (s *NoteService) List(ctx context.Context, deviceID string, opts repository.ListOptions) ([]model.Note, error) {
	if deviceID == "" {
		return nil, apperror.Forbidden("device identity required")
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultNoteListLimit
	}
	if opts.Limit > MaxNoteListLimit {
		opts.Limit = MaxNoteListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	notes, err := s.repo.ListNotes(ctx, deviceID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

func checkNoteTarget(deviceID string, key model.NoteKey) error {
	if deviceID == "" {
		return apperror.Forbidden("device identity required")
	}
	if !key.Valid() {
		return apperror.ValidationFailed("key", "invalid note target")
	}
	return nil
}
