package service

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/sakif/profile-explorer/internal/model"
)

// =========================================================================
// FAKES
// =========================================================================
//
// fakeDirectory and fakeCompleter stand in for the Directory and
// Completion APIs. They are safe for concurrent use because comparisons
// call the directory from two goroutines.

type fakeDirectory struct {
	mu sync.Mutex

	profiles map[string]model.Profile
	repos    map[string][]model.Repository

	profileErr map[string]error
	reposErr   map[string]error

	// block makes every call for a handle wait until its context ends.
	block map[string]bool

	profileCalls int
	reposCalls   int
	lastPerPage  int
	cancelled    []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		profiles:   make(map[string]model.Profile),
		repos:      make(map[string][]model.Repository),
		profileErr: make(map[string]error),
		reposErr:   make(map[string]error),
		block:      make(map[string]bool),
	}
}

func (f *fakeDirectory) add(p model.Profile, repos ...model.Repository) {
	f.profiles[p.Login] = p
	f.repos[p.Login] = repos
}

func (f *fakeDirectory) wait(ctx context.Context, handle string) error {
	f.mu.Lock()
	blocked := f.block[handle]
	f.mu.Unlock()
	if !blocked {
		return nil
	}
	<-ctx.Done()
	f.mu.Lock()
	f.cancelled = append(f.cancelled, handle)
	f.mu.Unlock()
	return ctx.Err()
}

func (f *fakeDirectory) Profile(ctx context.Context, handle string) (*model.Profile, error) {
	if err := f.wait(ctx, handle); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++

	if err := f.profileErr[handle]; err != nil {
		return nil, err
	}
	p := f.profiles[handle]
	return &p, nil
}

func (f *fakeDirectory) Repositories(ctx context.Context, handle string, perPage int) ([]model.Repository, error) {
	if err := f.wait(ctx, handle); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reposCalls++
	f.lastPerPage = perPage

	if err := f.reposErr[handle]; err != nil {
		return nil, err
	}
	repos := f.repos[handle]
	if len(repos) > perPage {
		repos = repos[:perPage]
	}
	return repos, nil
}

func (f *fakeDirectory) ProfileWithRepositories(ctx context.Context, handle string, perPage int) (*model.Profile, []model.Repository, error) {
	p, err := f.Profile(ctx, handle)
	if err != nil {
		return nil, nil, err
	}
	repos, err := f.Repositories(ctx, handle, perPage)
	if err != nil {
		return nil, nil, err
	}
	return p, repos, nil
}

type fakeCompleter struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
