package cmd

import (
	"github.com/spf13/cobra"
)

var cleanCacheCmd = &cobra.Command{
	Use:   "clean-package-cache",
	Short: "Clear the package manager cache",
	Long:  "Delete downloaded packages and metadata kept by the package manager.",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDispatcher(cmd, true)
		if err != nil {
			return err
		}
		summary, err := d.CleanPackageCache(cmd.Context())
		if err != nil {
			return err
		}
		return summary.Err()
	},
}

func init() {
	cleanCacheCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without cleaning")
}
