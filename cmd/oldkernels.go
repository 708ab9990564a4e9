package cmd

import (
	"github.com/spf13/cobra"
)

var oldKernelsCmd = &cobra.Command{
	Use:   "remove-old-kernels",
	Short: "Remove old kernel versions",
	Long: `List installed kernels other than the one currently running, then
remove the versions you pick. The running kernel is never offered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDispatcher(cmd, true)
		if err != nil {
			return err
		}
		summary, err := d.RemoveOldKernels(cmd.Context())
		if err != nil {
			return err
		}
		return summary.Err()
	},
}

func init() {
	oldKernelsCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without removing")
}
