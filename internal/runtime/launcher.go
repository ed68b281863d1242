// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/boson-compat/boson/internal/compattool"
	"github.com/boson-compat/boson/internal/config"
	"github.com/boson-compat/boson/internal/pathsearch"
	"github.com/boson-compat/boson/internal/steamenv"
)

type (
	// Plan is a fully composed child process. It is produced by Prepare and
	// consumed by Run.
	Plan struct {
		TitleID    config.TitleID
		CompatType config.CompatType
		// Target is the path handed to the wrapper, or executed directly when
		// there is no wrapper.
		Target string
		// Wrapped reports whether Command is a wrapper in front of Target.
		Wrapped bool
		Command string
		Args    []string
		// Env holds the variables set on top of the inherited environment.
		Env map[string]string
		// Environ is the complete child environment.
		Environ []string
		Dir     string
		// AppendArgs are the configured title arguments. They are reported but
		// not placed on the command line.
		AppendArgs []string
		// Warnings collects non-fatal problems met while preparing.
		Warnings []error
	}

	// Launcher prepares and runs titles.
	Launcher struct {
		// Env is the environment captured at startup.
		Env *steamenv.Snapshot
		// ExecutableDir is the directory of the boson binary.
		ExecutableDir string
		// Verb is the Steam verb boson was invoked with. Empty means run.
		Verb string
		// EnvBuilder defaults to a DefaultEnvBuilder over Env.
		EnvBuilder EnvBuilder

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	wrapperChain struct {
		command string
		args    []string
	}
)

// NewLauncher creates a launcher wired to the process's standard streams.
func NewLauncher(env *steamenv.Snapshot, exeDir string) *Launcher {
	return &Launcher{
		Env:           env,
		ExecutableDir: exeDir,
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
	}
}

// Launch prepares the title and runs it to completion.
func (l *Launcher) Launch(ctx context.Context, cfg *config.ResolvedConfig, installPath string, extraArgs []string) error {
	plan, err := l.Prepare(cfg, installPath, extraArgs)
	if err != nil {
		return err
	}
	return l.Run(ctx, plan)
}

// Prepare composes the child process for a title without starting it. A
// relative installPath is made absolute first, since the child runs from the
// install directory.
func (l *Launcher) Prepare(cfg *config.ResolvedConfig, installPath string, extraArgs []string) (*Plan, error) {
	installPath, err := filepath.Abs(installPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve install path: %w", err)
	}

	plan := &Plan{
		TitleID:    cfg.TitleID,
		CompatType: cfg.CompatType,
		Dir:        workDir(installPath),
		AppendArgs: slices.Clone(cfg.AppendArgs),
	}

	target, err := l.selectTarget(cfg, installPath)
	if err != nil {
		return nil, err
	}
	plan.Target = target

	chain, err := l.selectWrapper(cfg, plan)
	if err != nil {
		return nil, err
	}

	if chain != nil {
		plan.Wrapped = true
		plan.Command = chain.command
		plan.Args = slices.Concat(chain.args, extraArgs, []string{target})
	} else {
		plan.Command = target
		plan.Args = slices.Clone(extraArgs)
	}
	if plan.Args == nil {
		plan.Args = []string{}
	}

	builder := l.EnvBuilder
	if builder == nil {
		builder = &DefaultEnvBuilder{Env: l.Env, ExecutableDir: l.ExecutableDir}
	}
	plan.Env = builder.Build(cfg)
	plan.Environ = mergeEnviron(l.Env.Environ(), plan.Env)

	slog.Debug("composed environment",
		PreloadVar, plan.Env[PreloadVar],
		LibraryPathVar, plan.Env[LibraryPathVar])
	if len(plan.AppendArgs) > 0 {
		slog.Debug("append_args are not passed on the command line", "append_args", plan.AppendArgs)
	}
	slog.Debug("prepared launch", "command", plan.Command, "args", plan.Args, "dir", plan.Dir)
	return plan, nil
}

// selectTarget returns the payload for Electron titles and the install path
// for every other type.
func (l *Launcher) selectTarget(cfg *config.ResolvedConfig, installPath string) (string, error) {
	if cfg.CompatType != config.Electron {
		return installPath, nil
	}

	root := installPath
	if l.Env.InstallPath != "" {
		slog.Info("using STEAM_COMPAT_INSTALL_PATH as install root", "path", l.Env.InstallPath)
		root = l.Env.InstallPath
	} else if resolved, err := pathsearch.ResolveInstallPath(installPath); err == nil {
		root = resolved
	}

	return pathsearch.ResolvePayload(root, l.Env.LoadPath)
}

// selectWrapper returns the wrapper chain for the title, or nil when the
// target runs directly.
func (l *Launcher) selectWrapper(cfg *config.ResolvedConfig, plan *Plan) (*wrapperChain, error) {
	if cfg.CompatType == config.DeferProton {
		return l.toolWrapper(cfg, plan)
	}

	def := config.DefaultExecutable(cfg.CompatType, l.ExecutableDir, l.Env.ElectronPath)

	command := cfg.Wrapper()
	if command == "" && def != nil {
		command = def.Command
	}
	if command == "" {
		return nil, nil
	}

	args := slices.Clone(cfg.WrapperArgs)
	if def != nil {
		args = append(args, def.Args...)
	}
	return &wrapperChain{command: command, args: args}, nil
}

// toolWrapper delegates to the configured compatibility tool. A missing or
// unknown tool is fatal; a broken manifest drops the wrapper with a warning.
func (l *Launcher) toolWrapper(cfg *config.ResolvedConfig, plan *Plan) (*wrapperChain, error) {
	name := cfg.ToolDir()
	if name == "" {
		return nil, &ToolNotConfiguredError{TitleID: cfg.TitleID}
	}

	toolDir, err := compattool.FindTool(name, l.Env)
	if err != nil {
		return nil, err
	}

	w, err := compattool.ParseWrapper(toolDir, l.Verb, l.Env)
	if err != nil {
		slog.Warn("failed to read compatibility tool manifest, launching without a wrapper",
			"tool", toolDir, "wrapper_args", cfg.WrapperArgs, "error", err)
		plan.Warnings = append(plan.Warnings, err)
		return nil, nil
	}

	return &wrapperChain{
		command: w.Command,
		args:    slices.Concat(w.Args, cfg.WrapperArgs),
	}, nil
}

// Run spawns the plan and blocks until the child exits. A child that exits
// non-zero yields *NonZeroExitError; a child that cannot be started yields
// *SpawnError.
//
// Cancelling ctx does not stop the title: boson lives exactly as long as the
// child and reports the child's own status.
func (l *Launcher) Run(ctx context.Context, plan *Plan) error {
	cmd := exec.Command(plan.Command, plan.Args...)
	cmd.Dir = plan.Dir
	cmd.Env = plan.Environ
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	slog.InfoContext(ctx, "launching title", "title_id", plan.TitleID, "compat_type", plan.CompatType, "command", plan.Command)

	if err := cmd.Start(); err != nil {
		return &SpawnError{Command: plan.Command, Err: err}
	}

	err := cmd.Wait()
	if err == nil {
		slog.InfoContext(ctx, "title exited", "title_id", plan.TitleID, "code", 0)
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code, sig := exitCodeOf(exitErr.ProcessState)
		slog.InfoContext(ctx, "title exited", "title_id", plan.TitleID, "code", code)
		return &NonZeroExitError{Code: code, Signal: sig}
	}
	return fmt.Errorf("failed waiting for title: %w", err)
}

// workDir returns path when it is a directory and its parent otherwise.
func workDir(path string) string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return filepath.Dir(path)
	}
	return path
}
