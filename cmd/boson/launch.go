// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/boson-compat/boson/internal/app/launch"
	"github.com/boson-compat/boson/internal/compattool"
	"github.com/boson-compat/boson/internal/config"
	"github.com/boson-compat/boson/internal/runtime"

	"github.com/spf13/cobra"
)

// launchOptions are the flags of the run and waitforexitandrun commands.
type launchOptions struct {
	verb    string
	titleID uint32
	dryRun  bool
}

// newLaunchCommand creates the command Steam invokes for verb.
func newLaunchCommand(app *App, flags *rootFlags, verb string) *cobra.Command {
	opts := &launchOptions{verb: verb}

	short := "Launch a title"
	if verb == compattool.VerbWaitForExitAndRun {
		short = "Launch a title (first launch of a Steam session)"
	}

	launchCmd := &cobra.Command{
		Use:   verb + " <install-path> [title args...]",
		Short: short,
		Long: short + `.

The title id is read from SteamAppId (or STEAM_COMPAT_APP_ID) unless
--title-id is given. Everything after the install path is passed to the
title unchanged, including arguments that look like flags.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd, app, opts, flags.verbose, args)
		},
	}
	launchCmd.Flags().SetInterspersed(false)
	launchCmd.Flags().Uint32Var(&opts.titleID, "title-id", 0, "title id to launch (default from SteamAppId)")
	launchCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the composed command without running it")

	return launchCmd
}

func runLaunch(cmd *cobra.Command, app *App, opts *launchOptions, verbose bool, args []string) error {
	req := launch.Request{
		TitleID:     config.TitleID(opts.titleID),
		InstallPath: args[0],
		ExtraArgs:   args[1:],
		Verb:        opts.verb,
	}

	err := executeLaunch(cmd, app, opts, &req)
	if err == nil {
		return nil
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	var exitErr *runtime.NonZeroExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.Code, Err: err}
	}

	svcErr := classifyLaunchError(err, req.InstallPath, verbose)
	renderServiceError(app.stderr, svcErr)
	return &ExitError{Code: 1, Err: svcErr}
}

func executeLaunch(cmd *cobra.Command, app *App, opts *launchOptions, req *launch.Request) error {
	if req.TitleID == 0 {
		id, err := launch.TitleIDFromEnv(app.Env)
		if err != nil {
			return err
		}
		req.TitleID = id
	}

	if !opts.dryRun {
		return app.Launch.Launch(cmd.Context(), *req)
	}

	plan, err := app.Launch.Prepare(cmd.Context(), *req)
	if err != nil {
		return err
	}
	renderPlan(app.stdout, plan)
	return nil
}

// renderPlan prints a composed launch for --dry-run.
func renderPlan(w io.Writer, plan *runtime.Plan) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Title %d", plan.TitleID)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("compat_type"), SuccessStyle.Render(plan.CompatType.String()))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("target"), SuccessStyle.Render(plan.Target))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("command"), SuccessStyle.Render(plan.Command))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("args"), SuccessStyle.Render(strings.Join(plan.Args, " ")))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("dir"), SuccessStyle.Render(plan.Dir))

	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("env"))
	for _, k := range slices.Sorted(maps.Keys(plan.Env)) {
		fmt.Fprintf(w, "  %s=%s\n", k, plan.Env[k])
	}

	if len(plan.AppendArgs) > 0 {
		fmt.Fprintf(w, "%s: %s %s\n", KeyStyle.Render("append_args"),
			strings.Join(plan.AppendArgs, " "), SubtitleStyle.Render("(not passed to the title)"))
	}
	for _, warning := range plan.Warnings {
		fmt.Fprintf(w, "%s %v\n", WarningStyle.Render("Warning:"), warning)
	}
}
