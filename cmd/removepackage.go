package cmd

import (
	"github.com/spf13/cobra"
)

var removePackageCmd = &cobra.Command{
	Use:   "remove-package [package]",
	Short: "Remove installed packages",
	Long: `Remove a package by name, or pick packages interactively when no
name is given. Removal always asks for confirmation first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDispatcher(cmd, true)
		if err != nil {
			return err
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		summary, err := d.RemovePackage(cmd.Context(), name)
		if err != nil {
			return err
		}
		return summary.Err()
	},
}

func init() {
	removePackageCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without removing")
}
