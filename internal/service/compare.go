package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/profile-explorer/internal/apperror"
	"github.com/sakif/profile-explorer/internal/model"
	"github.com/sakif/profile-explorer/internal/stats"
)

// JoinPolicy decides how a comparison reacts when one side fails.
type JoinPolicy string

const (
	// JoinFailFast returns the first failure and cancels the other side.
	JoinFailFast JoinPolicy = "fail_fast"
	// JoinCollectAll waits for both sides and reports every failure.
	JoinCollectAll JoinPolicy = "collect_all"
)

// ParseJoinPolicy maps a config value to a JoinPolicy. Empty means fail-fast.
func ParseJoinPolicy(s string) (JoinPolicy, error) {
	switch JoinPolicy(s) {
	case "", JoinFailFast:
		return JoinFailFast, nil
	case JoinCollectAll:
		return JoinCollectAll, nil
	default:
		return "", fmt.Errorf("unknown join policy %q (want %q or %q)", s, JoinFailFast, JoinCollectAll)
	}
}

// CompareService runs two profile lookups concurrently and scores them.
type CompareService struct {
	profiles *ProfileService
	policy   JoinPolicy
	logger   *slog.Logger
}

func NewCompareService(profiles *ProfileService, policy JoinPolicy, logger *slog.Logger) *CompareService {
	if policy == "" {
		policy = JoinFailFast
	}
	return &CompareService{profiles: profiles, policy: policy, logger: logger}
}

// Compare looks up both handles and returns the per-metric verdicts.
// It never returns a partial comparison.
func (s *CompareService) Compare(ctx context.Context, leftHandle, rightHandle string) (*model.Comparison, error) {
	leftHandle, err := normalizeHandle("left", leftHandle)
	if err != nil {
		return nil, err
	}
	rightHandle, err = normalizeHandle("right", rightHandle)
	if err != nil {
		return nil, err
	}

	var left, right model.ComparisonSide
	switch s.policy {
	case JoinCollectAll:
		left, right, err = s.collectAll(ctx, leftHandle, rightHandle)
	default:
		left, right, err = s.failFast(ctx, leftHandle, rightHandle)
	}
	if err != nil {
		s.logger.Info("comparison failed",
			slog.String("left", leftHandle),
			slog.String("right", rightHandle),
			slog.String("policy", string(s.policy)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return &model.Comparison{
		Left:    left,
		Right:   right,
		Metrics: stats.Compare(left, right),
	}, nil
}

func (s *CompareService) failFast(ctx context.Context, leftHandle, rightHandle string) (left, right model.ComparisonSide, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		left, err = s.profiles.side(gctx, leftHandle)
		return sideError(leftHandle, err)
	})
	g.Go(func() error {
		var err error
		right, err = s.profiles.side(gctx, rightHandle)
		return sideError(rightHandle, err)
	})

	err = g.Wait()
	return left, right, err
}

func (s *CompareService) collectAll(ctx context.Context, leftHandle, rightHandle string) (left, right model.ComparisonSide, err error) {
	var (
		g                 errgroup.Group
		leftErr, rightErr error
	)

	g.Go(func() error {
		left, leftErr = s.profiles.side(ctx, leftHandle)
		return nil
	})
	g.Go(func() error {
		right, rightErr = s.profiles.side(ctx, rightHandle)
		return nil
	})
	g.Wait()

	err = errors.Join(sideError(leftHandle, leftErr), sideError(rightHandle, rightErr))
	return left, right, err
}

// sideError names the handle in the user-visible message of a failed side
// while keeping its classification and cause.
func sideError(handle string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return fmt.Errorf("comparing %q: %w", handle, err)
	}
	return &apperror.AppError{
		Err:     err,
		Message: fmt.Sprintf("%s: %s", appErr.Message, handle),
		Field:   appErr.Field,
		Status:  appErr.Status,
	}
}
