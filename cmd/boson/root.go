// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/boson-compat/boson/internal/compattool"
	"github.com/boson-compat/boson/internal/config"
	"github.com/boson-compat/boson/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	verbose      bool
	settingsFile string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Steam compatibility tool for native runtimes",
		Long: TitleStyle.Render("boson") + SubtitleStyle.Render(" - run Electron, LÖVE and native titles from Steam") + `

boson is registered with Steam as a compatibility tool. Steam starts it
with a verb, the title's install path and the title's arguments; boson
looks up the per-title configuration and launches the title with the
right runtime, wrapper and environment.

` + SubtitleStyle.Render("Configuration:") + `
  ~/.config/boson.d/*.toml   user title overrides
  <boson dir>/data/*.toml    factory title overrides

` + SubtitleStyle.Render("Examples:") + `
  boson run /games/balatro/Balatro.exe      Launch a title (title id from SteamAppId)
  boson config show 2379780                 Show the resolved configuration
  boson path /games/balatro/Balatro.exe     Print the normalized install path`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging(app.stderr, flags)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.settingsFile, "settings", "", "settings file (default is $XDG_CONFIG_HOME/boson/settings.toml)")

	rootCmd.AddCommand(newLaunchCommand(app, flags, compattool.VerbRun))
	rootCmd.AddCommand(newLaunchCommand(app, flags, compattool.VerbWaitForExitAndRun))
	rootCmd.AddCommand(newPathCommand(app))
	rootCmd.AddCommand(newConfigCommand(app, flags))
	rootCmd.AddCommand(newVersionCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the CLI and runs it. This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initLogging loads settings and installs the process logger. Invalid
// settings are reported and the defaults are used.
func initLogging(stderr io.Writer, flags *rootFlags) error {
	settings, err := config.LoadSettings(flags.settingsFile)
	if err != nil {
		fmt.Fprintln(stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(
			issue.NewErrorContext().
				WithOperation("load settings").
				WithResource(flags.settingsFile).
				WithIssue(issue.InvalidSettingsId).
				Wrap(err).
				BuildError(),
			flags.verbose))
	}
	installLogger(newLogger(stderr, settings.Log, flags.verbose))
	return nil
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the boson version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(app.stdout, "%s %s\n", config.AppName, getVersionString())
			return nil
		},
	}
}
