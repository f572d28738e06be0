package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/profile-explorer/internal/apperror"
	"github.com/sakif/profile-explorer/internal/completion"
	"github.com/sakif/profile-explorer/internal/config"
	"github.com/sakif/profile-explorer/internal/directory"
	"github.com/sakif/profile-explorer/internal/render"
	"github.com/sakif/profile-explorer/internal/repository"
	"github.com/sakif/profile-explorer/internal/repository/memory"
	sqliteRepo "github.com/sakif/profile-explorer/internal/repository/sqlite"
	"github.com/sakif/profile-explorer/internal/service"
)

// localDevice owns every note written from the terminal.
const localDevice = "local"

// app holds the services one CLI invocation needs.
type app struct {
	logger   *slog.Logger
	profiles *service.ProfileService
	compare  *service.CompareService
	analysis *service.AnalysisService
	notes    *service.NoteService
	closer   io.Closer
}

func (a *app) init(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	useMemory, _ := cmd.Flags().GetBool("memory")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	dir, err := directory.New(cfg.Directory.BaseURL, &http.Client{Timeout: 30 * time.Second}, a.logger)
	if err != nil {
		return err
	}
	completer := completion.New(cfg.CompletionClientConfig(), http.DefaultTransport, a.logger)

	policy, err := service.ParseJoinPolicy(cfg.Compare.JoinPolicy)
	if err != nil {
		return err
	}

	var store repository.NoteRepository
	if useMemory {
		store = memory.New()
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return err
		}
		store = db
		a.closer = db
	}

	a.profiles = service.NewProfileService(dir, cfg.Directory.ListingPageSize, a.logger)
	a.compare = service.NewCompareService(a.profiles, policy, a.logger)
	a.analysis = service.NewAnalysisService(dir, completer, cfg.Directory.NarrativePageSize, a.logger)
	a.notes = service.NewNoteService(store, a.logger)
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *app) out(cmd *cobra.Command) *render.Renderer {
	return render.New(cmd.OutOrStdout())
}

// userError keeps the user-facing message of an AppError. Internal errors
// also show their cause, since the terminal user is the operator.
func userError(err error) error {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return err
	}
	if errors.Is(appErr.Err, apperror.ErrInternal) {
		if cause := internalCause(appErr); cause != nil {
			return fmt.Errorf("%s (%v)", appErr.Message, cause)
		}
	}
	return errors.New(appErr.Message)
}

// internalCause digs the wrapped cause out of Internal's joined error.
func internalCause(appErr *apperror.AppError) error {
	joined, ok := appErr.Err.(interface{ Unwrap() []error })
	if !ok {
		return nil
	}
	for _, e := range joined.Unwrap() {
		if e != apperror.ErrInternal {
			return e
		}
	}
	return nil
}
