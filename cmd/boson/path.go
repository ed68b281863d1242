// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/boson-compat/boson/internal/app/launch"

	"github.com/spf13/cobra"
)

func newPathCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path <path>",
		Short: "Print the normalized install directory for a path",
		Long: `Print the absolute, symlink-free install directory for a path.
A path naming a file resolves to the directory holding it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := launch.ResolveInstallPath(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, dir)
			return nil
		},
	}
}
