// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/boson-compat/boson/internal/config"
	"github.com/boson-compat/boson/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `boson config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect title configuration",
		Long: `Inspect title configuration.

Title overrides are read from every *.toml file in:
  - $XDG_CONFIG_HOME/boson.d (default ~/.config/boson.d)
  - the data directory next to the boson binary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show <title-id>",
		Short: "Show the resolved configuration of a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTitleID(args[0])
			if err != nil {
				return err
			}
			return showConfig(cmd.Context(), app, id)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump <title-id>",
		Short: "Output the resolved configuration of a title as TOML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTitleID(args[0])
			if err != nil {
				return err
			}
			resolved, err := app.Launch.Resolve(cmd.Context(), id)
			if err != nil {
				return err
			}
			desc := &config.Descriptor{Overrides: map[config.TitleID]config.TitleConfig{id: resolved.TitleConfig}}
			data, err := desc.Marshal()
			if err != nil {
				return err
			}
			_, err = app.stdout.Write(data)
			return err
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every title with an override",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Launch.LoadStore(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range store.TitleIDs() {
				fmt.Fprintf(app.stdout, "%d\t%s\n", id, store.Overrides[id].CompatType)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "paths",
		Short: "List the configuration search directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPaths(app, flags.settingsFile)
		},
	})

	return cfgCmd
}

func parseTitleID(s string) (config.TitleID, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid title id %q: must be an unsigned 32-bit number", s)
	}
	return config.TitleID(id), nil
}

func showConfig(ctx context.Context, app *App, id config.TitleID) error {
	store, err := app.Launch.LoadStore(ctx)
	if err != nil {
		return err
	}
	resolved := store.Resolve(id)

	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Title %d", id)))
	fmt.Fprintln(w)

	if resolved.HasOverride {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("override"), SuccessStyle.Render("yes"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("override"), SubtitleStyle.Render("(global default)"))
	}

	field := func(name, value string) {
		if value == "" {
			fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render(name), SubtitleStyle.Render("(unset)"))
			return
		}
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render(name), SuccessStyle.Render(value))
	}
	list := func(name string, values []string) {
		field(name, strings.Join(values, " "))
	}

	field("compat_type", resolved.CompatType.String())
	field("compat_tool_dir", resolved.ToolDir())
	field("wrapper_command", resolved.Wrapper())
	list("wrapper_args", resolved.WrapperArgs)
	list("append_args", resolved.AppendArgs)
	list("extra_preloads", resolved.ExtraPreloads)
	field("disable_steam_overlay", strconv.FormatBool(resolved.DisableSteamOverlay))

	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("env_vars"))
	if len(resolved.EnvVars) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, k := range slices.Sorted(maps.Keys(resolved.EnvVars)) {
		fmt.Fprintf(w, "  %s=%s\n", k, resolved.EnvVars[k])
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("sources"))
	if len(store.Sources) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(built-in defaults only)"))
	}
	for _, src := range store.Sources {
		fmt.Fprintf(w, "  - %s\n", src)
	}

	if len(store.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warning := range store.Warnings {
			fmt.Fprintf(w, "%s %v\n", WarningStyle.Render("Skipped:"), warning)
		}
		renderCatalogIssue(app.stderr, issue.Get(issue.ConfigParseFailedId))
	}
	return nil
}

// showConfigPaths lists the directories the launch service reads descriptors
// from, then the settings file. settingsFile is the --settings flag value.
func showConfigPaths(app *App, settingsFile string) error {
	dirs, err := app.Launch.ConfigSearchDirs()
	if err != nil {
		return err
	}

	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render("Search directories"))
	for _, dir := range dirs {
		fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render(dir), existsLabel(dir))
	}

	if settingsFile == "" {
		cfgDir, err := config.ConfigDir()
		if err != nil {
			return nil
		}
		settingsFile = filepath.Join(cfgDir, config.SettingsFileName)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %s %s\n", TitleStyle.Render("Settings"), settingsFile, existsLabel(settingsFile))
	return nil
}

func existsLabel(path string) string {
	if _, err := os.Stat(path); err != nil {
		return SubtitleStyle.Render("(missing)")
	}
	return SuccessStyle.Render("(found)")
}
