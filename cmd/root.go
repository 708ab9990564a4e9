package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/linmole/internal/dispatch"
	"github.com/lakshaymaurya-felt/linmole/internal/executor"
	"github.com/lakshaymaurya-felt/linmole/internal/logging"
	"github.com/lakshaymaurya-felt/linmole/internal/menu"
	"github.com/lakshaymaurya-felt/linmole/internal/pkgmgr"
	"github.com/lakshaymaurya-felt/linmole/internal/prompt"
	"github.com/lakshaymaurya-felt/linmole/internal/sysinfo"
)

var (
	// Global flags
	debug  bool
	dryRun bool

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "lm",
	Short: "Free up disk space on your Linux system",
	Long: `LinMole - Free up disk space on your Linux system.

A Linux take on Mole (https://github.com/tw93/Mole).
Removes packages, clears the package manager cache, uninstalls unused
applications, deletes old kernel versions, and prunes aged log files.
Every destructive step asks first.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// When invoked without subcommand, show the interactive menu.
		return runInteractiveMenu(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")

	// Register all subcommands
	rootCmd.AddCommand(removePackageCmd)
	rootCmd.AddCommand(cleanCacheCmd)
	rootCmd.AddCommand(unusedAppsCmd)
	rootCmd.AddCommand(oldKernelsCmd)
	rootCmd.AddCommand(logFilesCmd)
	rootCmd.AddCommand(versionCmd)
}

// newDispatcher wires the per-invocation collaborators. withManager is
// false for operations that never touch the package manager, so a box
// without a supported one can still clean logs.
func newDispatcher(cmd *cobra.Command, withManager bool) (*dispatch.Dispatcher, error) {
	run := executor.New()

	var mgr pkgmgr.Manager
	if withManager {
		var err error
		mgr, err = pkgmgr.Detect(run)
		if err != nil {
			return nil, err
		}
	}

	return dispatch.New(dispatch.Options{
		Gate:    prompt.New(),
		Runner:  run,
		Manager: mgr,
		Out:     cmd.OutOrStdout(),
		DryRun:  dryRun,
	}), nil
}

// runInteractiveMenu launches the full-screen main menu and then runs
// the chosen actions one by one on the plain terminal.
func runInteractiveMenu(cmd *cobra.Command) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		// Not an interactive session; behave like --help.
		return cmd.Help()
	}

	actions, err := menu.Run(sysinfo.SystemString())
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing selected.")
		return nil
	}

	d, err := newDispatcher(cmd, true)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	failed := 0
	for _, action := range actions {
		fmt.Fprintf(cmd.OutOrStdout(), "\n── %s ──\n", action.Label())

		var summary *dispatch.Summary
		switch action {
		case menu.ActionRemovePackage:
			summary, err = d.RemovePackage(ctx, "")
		case menu.ActionCleanPackageCache:
			summary, err = d.CleanPackageCache(ctx)
		case menu.ActionUninstallUnusedApps:
			summary, err = d.UninstallUnusedApps(ctx)
		case menu.ActionRemoveOldKernels:
			summary, err = d.RemoveOldKernels(ctx)
		case menu.ActionCleanUpLogFiles:
			summary, err = d.CleanUpLogFiles(ctx, defaultRetentionDays, false)
		}
		if err != nil {
			// Enumeration failures abort this action but not the rest.
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			failed++
			continue
		}
		if summary.Err() != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d action(s) did not complete cleanly", failed)
	}
	return nil
}
