package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/profile-explorer/internal/directory"
	"github.com/sakif/profile-explorer/internal/model"
	"github.com/sakif/profile-explorer/internal/stats"
)

// ProfileService looks up one profile with its repositories and metrics.
type ProfileService struct {
	dir      Directory
	pageSize int
	logger   *slog.Logger
	now      func() time.Time
}

// NewProfileService creates a ProfileService. A pageSize of 0 means
// directory.ListingPageSize.
func NewProfileService(dir Directory, pageSize int, logger *slog.Logger) *ProfileService {
	if pageSize <= 0 {
		pageSize = directory.ListingPageSize
	}
	return &ProfileService{
		dir:      dir,
		pageSize: pageSize,
		logger:   logger,
		now:      time.Now,
	}
}

// Lookup fetches a profile and its repositories together and aggregates
// them. Either fetch failing fails the lookup; there is no partial view.
func (s *ProfileService) Lookup(ctx context.Context, handle string) (*model.ProfileView, error) {
	handle, err := normalizeHandle("username", handle)
	if err != nil {
		return nil, err
	}

	profile, repos, err := s.dir.ProfileWithRepositories(ctx, handle, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("looking up %q: %w", handle, err)
	}

	view := &model.ProfileView{
		Profile:         *profile,
		Repositories:    repos,
		Metrics:         stats.Aggregate(repos),
		AccountAgeYears: stats.AccountAge(profile.CreatedAt, s.now()),
	}

	s.logger.Debug("profile looked up",
		slog.String("handle", handle),
		slog.Int("repos", len(repos)),
	)
	return view, nil
}

// Repositories returns only the repository listing for handle.
func (s *ProfileService) Repositories(ctx context.Context, handle string) ([]model.Repository, error) {
	handle, err := normalizeHandle("username", handle)
	if err != nil {
		return nil, err
	}

	repos, err := s.dir.Repositories(ctx, handle, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing repositories of %q: %w", handle, err)
	}
	return repos, nil
}

// side runs the lookup pipeline for one side of a comparison.
func (s *ProfileService) side(ctx context.Context, handle string) (model.ComparisonSide, error) {
	view, err := s.Lookup(ctx, handle)
	if err != nil {
		return model.ComparisonSide{}, err
	}
	return model.ComparisonSide{
		Profile:         view.Profile,
		Metrics:         view.Metrics,
		AccountAgeYears: view.AccountAgeYears,
	}, nil
}
