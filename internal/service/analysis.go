package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sakif/profile-explorer/internal/apperror"
	"github.com/sakif/profile-explorer/internal/directory"
	"github.com/sakif/profile-explorer/internal/stats"
)

// NoAnalysis is returned when the completion API answers without text.
const NoAnalysis = "No analysis generated."

// AnalysisService relays a profile summary request to the completion API.
// The API key lives in the Completer and is never exposed to callers.
type AnalysisService struct {
	dir       Directory
	completer Completer
	pageSize  int
	logger    *slog.Logger
}

// NewAnalysisService creates an AnalysisService. A pageSize of 0 means
// directory.NarrativePageSize.
func NewAnalysisService(dir Directory, completer Completer, pageSize int, logger *slog.Logger) *AnalysisService {
	if pageSize <= 0 {
		pageSize = directory.NarrativePageSize
	}
	return &AnalysisService{
		dir:       dir,
		completer: completer,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// Analyze returns a generated narrative for handle.
//
// Errors, in the order they can occur:
//   - MissingInput when handle is blank, before any outbound call
//   - NotFound when the Directory API returns 404 for the profile
//   - UpstreamModel when the completion API rejects the request
//   - Internal for anything else, including other profile fetch failures
//
// A failed repository listing does not fail the request: the prompt is
// built from an empty repository set instead.
func (s *AnalysisService) Analyze(ctx context.Context, handle string) (string, error) {
	handle, err := normalizeHandle("username", handle)
	if err != nil {
		return "", err
	}

	profile, err := s.dir.Profile(ctx, handle)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", err
		}
		return "", apperror.Internal(err)
	}

	repos, err := s.dir.Repositories(ctx, handle, s.pageSize)
	if err != nil {
		s.logger.Warn("analysis continuing without repositories",
			slog.String("handle", handle),
			slog.String("error", err.Error()),
		)
		repos = nil
	}

	m := stats.Aggregate(repos)
	prompt := BuildAnalysisPrompt(*profile, m.Languages, m.TopRepositories)

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, apperror.ErrUpstreamModel) {
			return "", err
		}
		return "", apperror.Internal(err)
	}
	if text == "" {
		return NoAnalysis, nil
	}

	s.logger.Info("analysis generated",
		slog.String("handle", handle),
		slog.Int("languages", len(m.Languages)),
		slog.Int("chars", len(text)),
	)
	return text, nil
}
