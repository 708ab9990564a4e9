package cmd

import (
	"github.com/spf13/cobra"
)

var unusedAppsCmd = &cobra.Command{
	Use:   "uninstall-unused-apps",
	Short: "Uninstall packages nothing depends on",
	Long: `List packages the package manager considers no longer needed
(orphaned dependencies), then remove the ones you pick.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDispatcher(cmd, true)
		if err != nil {
			return err
		}
		summary, err := d.UninstallUnusedApps(cmd.Context())
		if err != nil {
			return err
		}
		return summary.Err()
	},
}

func init() {
	unusedAppsCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without uninstalling")
}
