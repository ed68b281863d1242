// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/boson-compat/boson/internal/config"
	"github.com/boson-compat/boson/internal/pathsearch"
	"github.com/boson-compat/boson/internal/runtime"
	"github.com/boson-compat/boson/internal/steamenv"
)

// ErrInstallPathRequired is returned when a launch request has no install path.
var ErrInstallPathRequired = errors.New("install path is required")

type (
	// Request describes one title launch.
	Request struct {
		TitleID     config.TitleID
		InstallPath string
		ExtraArgs   []string
		// Verb is the Steam verb boson was invoked with.
		Verb string
	}

	// Service loads configuration and launches titles.
	//
	// Required fields: Env. Provider defaults to config.NewProvider();
	// ExecutableDir defaults to the running binary's directory.
	Service struct {
		Provider config.Provider
		// SearchDirs replaces the default descriptor directories when non-nil.
		SearchDirs    []string
		Env           *steamenv.Snapshot
		ExecutableDir string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewService creates a service over the captured environment, wired to the
// process's standard streams.
func NewService(env *steamenv.Snapshot) *Service {
	return &Service{
		Provider: config.NewProvider(),
		Env:      env,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// LoadStore discovers and merges every title descriptor.
func (s *Service) LoadStore(ctx context.Context) (*config.Store, error) {
	provider := s.Provider
	if provider == nil {
		provider = config.NewProvider()
	}
	dirs, err := s.ConfigSearchDirs()
	if err != nil {
		return nil, err
	}
	return provider.Load(ctx, config.LoadOptions{SearchDirs: dirs})
}

// ConfigSearchDirs returns the descriptor directories LoadStore reads, in
// load order.
func (s *Service) ConfigSearchDirs() ([]string, error) {
	if s.SearchDirs != nil {
		return s.SearchDirs, nil
	}
	exeDir, err := s.executableDir()
	if err != nil {
		return nil, err
	}
	return config.SearchDirs(exeDir), nil
}

// Resolve loads configuration and resolves the title's effective settings.
func (s *Service) Resolve(ctx context.Context, id config.TitleID) (config.ResolvedConfig, error) {
	store, err := s.LoadStore(ctx)
	if err != nil {
		return config.ResolvedConfig{}, err
	}
	resolved := store.Resolve(id)
	slog.Debug("resolved title configuration",
		"title_id", id,
		"compat_type", resolved.CompatType,
		"has_override", resolved.HasOverride)
	return resolved, nil
}

// Prepare resolves the title and composes its child process without running it.
func (s *Service) Prepare(ctx context.Context, req Request) (*runtime.Plan, error) {
	if req.InstallPath == "" {
		return nil, ErrInstallPathRequired
	}

	resolved, err := s.Resolve(ctx, req.TitleID)
	if err != nil {
		return nil, err
	}

	launcher, err := s.launcher(req.Verb)
	if err != nil {
		return nil, err
	}
	return launcher.Prepare(&resolved, req.InstallPath, req.ExtraArgs)
}

// Launch resolves, prepares and runs a title, blocking until it exits.
// A child that exits non-zero is reported as *runtime.NonZeroExitError.
func (s *Service) Launch(ctx context.Context, req Request) error {
	plan, err := s.Prepare(ctx, req)
	if err != nil {
		return err
	}

	launcher, err := s.launcher(req.Verb)
	if err != nil {
		return err
	}
	return launcher.Run(ctx, plan)
}

// ResolveInstallPath normalizes a path handed over by Steam into an absolute,
// symlink-free directory.
func ResolveInstallPath(path string) (string, error) {
	return pathsearch.ResolveInstallPath(path)
}

// TitleIDFromEnv returns the title id Steam exported for this launch.
func TitleIDFromEnv(env *steamenv.Snapshot) (config.TitleID, error) {
	id, err := env.AppID()
	if err != nil {
		return 0, err
	}
	return config.TitleID(id), nil
}

func (s *Service) launcher(verb string) (*runtime.Launcher, error) {
	exeDir, err := s.executableDir()
	if err != nil {
		return nil, err
	}
	return &runtime.Launcher{
		Env:           s.Env,
		ExecutableDir: exeDir,
		Verb:          verb,
		Stdin:         s.Stdin,
		Stdout:        s.Stdout,
		Stderr:        s.Stderr,
	}, nil
}

func (s *Service) executableDir() (string, error) {
	if s.ExecutableDir != "" {
		return s.ExecutableDir, nil
	}
	dir, err := config.ExecutableDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate boson binary: %w", err)
	}
	s.ExecutableDir = dir
	return dir, nil
}
