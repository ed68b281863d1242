// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/boson-compat/boson/internal/app/launch"
	"github.com/boson-compat/boson/internal/config"
	"github.com/boson-compat/boson/internal/runtime"
	"github.com/boson-compat/boson/internal/steamenv"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives an App and delegates through its LaunchService.
	App struct {
		Launch LaunchService
		Env    *steamenv.Snapshot
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Launch LaunchService
		Env    *steamenv.Snapshot
		Stdout io.Writer
		Stderr io.Writer
	}

	// LaunchService resolves and launches titles. It is implemented by
	// *launch.Service.
	LaunchService interface {
		LoadStore(ctx context.Context) (*config.Store, error)
		ConfigSearchDirs() ([]string, error)
		Resolve(ctx context.Context, id config.TitleID) (config.ResolvedConfig, error)
		Prepare(ctx context.Context, req launch.Request) (*runtime.Plan, error)
		Launch(ctx context.Context, req launch.Request) error
	}
)

// NewApp creates an App, capturing the process environment when deps.Env is nil.
func NewApp(deps Dependencies) (*App, error) {
	env := deps.Env
	if env == nil {
		var err error
		if env, err = steamenv.Capture(); err != nil {
			return nil, fmt.Errorf("failed to capture environment: %w", err)
		}
	}

	stdout := deps.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := deps.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	svc := deps.Launch
	if svc == nil {
		s := launch.NewService(env)
		s.Stdout = stdout
		s.Stderr = stderr
		svc = s
	}

	return &App{
		Launch: svc,
		Env:    env,
		stdout: stdout,
		stderr: stderr,
	}, nil
}
