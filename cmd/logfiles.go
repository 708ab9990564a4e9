package cmd

import (
	"github.com/spf13/cobra"
)

// defaultRetentionDays is how long log files are kept when no
// --retention-days is given.
const defaultRetentionDays = 7

var (
	retentionDays int
	vacuumJournal bool
)

var logFilesCmd = &cobra.Command{
	Use:   "clean-up-log-files",
	Short: "Delete aged log files",
	Long: `Scan the system log locations for files older than the retention
period and delete the ones you pick. With --journal, the systemd
journal is vacuumed to the same retention.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDispatcher(cmd, false)
		if err != nil {
			return err
		}
		summary, err := d.CleanUpLogFiles(cmd.Context(), retentionDays, vacuumJournal)
		if err != nil {
			return err
		}
		return summary.Err()
	},
}

func init() {
	logFilesCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without deleting")
	logFilesCmd.Flags().IntVar(&retentionDays, "retention-days", defaultRetentionDays, "Keep log files newer than this many days")
	logFilesCmd.Flags().BoolVar(&vacuumJournal, "journal", false, "Also vacuum the systemd journal")
}
