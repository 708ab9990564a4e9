package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/lakshaymaurya-felt/linmole/internal/config"
	"github.com/lakshaymaurya-felt/linmole/internal/executor"
	"github.com/lakshaymaurya-felt/linmole/internal/kernels"
	"github.com/lakshaymaurya-felt/linmole/internal/logfiles"
	"github.com/lakshaymaurya-felt/linmole/internal/logging"
	"github.com/lakshaymaurya-felt/linmole/internal/pkgmgr"
	"github.com/lakshaymaurya-felt/linmole/internal/prompt"
)

var (
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	doneStyle = lipgloss.NewStyle().Bold(true)
)

// Options configures a Dispatcher.
type Options struct {
	Gate    *prompt.Gate
	Runner  executor.Runner
	Manager pkgmgr.Manager
	Out     io.Writer
	DryRun  bool
}

// Dispatcher maps each subcommand onto its enumerate → confirm →
// execute → summarize sequence. All work is sequential: each confirmed
// item is processed to completion before the next begins.
type Dispatcher struct {
	gate    *prompt.Gate
	runner  executor.Runner
	manager pkgmgr.Manager
	out     io.Writer
	dryRun  bool
	logger  zerolog.Logger

	// Swapped in tests.
	diskUsed       func() (uint64, bool)
	runningRelease func() (string, error)
	logTargets     []config.LogTarget
	protected      []string
}

// New creates a Dispatcher.
func New(opts Options) *Dispatcher {
	return &Dispatcher{
		gate:           opts.Gate,
		runner:         opts.Runner,
		manager:        opts.Manager,
		out:            opts.Out,
		dryRun:         opts.DryRun,
		logger:         logging.GetLogger("dispatch"),
		diskUsed:       rootDiskUsed,
		runningRelease: kernels.RunningRelease,
		logTargets:     config.GetLogTargets(),
		protected:      config.GetNeverDeletePaths(),
	}
}

// RemovePackage removes one named package, or, when name is empty,
// offers a selection of all installed packages.
func (d *Dispatcher) RemovePackage(ctx context.Context, name string) (*Summary, error) {
	if name != "" {
		ok := d.confirm(fmt.Sprintf("Remove package %q?", name))
		if !ok {
			return d.declined()
		}
		return d.removeBatch(ctx, []prompt.Item{{Name: name}})
	}

	pkgs, err := d.manager.ListInstalled(ctx)
	if err != nil {
		return nil, err
	}
	return d.selectConfirmRemove(ctx, "Select packages to remove", namesToItems(pkgs))
}

// CleanPackageCache clears the package manager download cache after a
// single confirmation.
func (d *Dispatcher) CleanPackageCache(ctx context.Context) (*Summary, error) {
	action := d.manager.Name() + " cache"
	if !d.confirm(fmt.Sprintf("Clean the %s package cache?", d.manager.Name())) {
		return d.declined()
	}

	summary := &Summary{}
	before := d.snapshot()
	if d.dryRun {
		d.printDryRun(action)
		summary.addSkipped(action)
	} else {
		d.record(summary, action, d.manager.CleanCache(ctx))
	}
	d.finish(summary, before)
	return summary, nil
}

// UninstallUnusedApps enumerates packages the manager considers
// unneeded and removes the confirmed subset.
func (d *Dispatcher) UninstallUnusedApps(ctx context.Context) (*Summary, error) {
	pkgs, err := d.manager.ListUnused(ctx)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		d.info("No unused packages found.")
		return &Summary{}, nil
	}
	return d.selectConfirmRemove(ctx, "Select unused packages to remove", namesToItems(pkgs))
}

// RemoveOldKernels enumerates installed kernels, excludes the running
// one, and removes the confirmed subset.
func (d *Dispatcher) RemoveOldKernels(ctx context.Context) (*Summary, error) {
	installed, err := d.manager.ListKernels(ctx)
	if err != nil {
		return nil, err
	}
	release, err := d.runningRelease()
	if err != nil {
		return nil, err
	}

	candidates := kernels.ExcludeRunning(installed, release)
	if len(candidates) == 0 {
		d.info("No old kernels found; only the running kernel is installed.")
		return &Summary{}, nil
	}

	items := make([]prompt.Item, len(candidates))
	for i, k := range candidates {
		items[i] = prompt.Item{Name: k, Detail: "kernel package"}
	}
	return d.selectConfirmRemove(ctx, "Select kernel versions to remove", items)
}

// CleanUpLogFiles deletes log files older than retentionDays from the
// configured log locations. With vacuumJournal set, the systemd
// journal is vacuumed to the same retention afterwards.
func (d *Dispatcher) CleanUpLogFiles(ctx context.Context, retentionDays int, vacuumJournal bool) (*Summary, error) {
	files := logfiles.Scan(d.logTargets, d.protected, retentionDays, time.Now())
	if len(files) == 0 && !vacuumJournal {
		d.info(fmt.Sprintf("No log files older than %d days found.", retentionDays))
		return &Summary{}, nil
	}

	items := make([]prompt.Item, len(files))
	var total int64
	for i, f := range files {
		items[i] = prompt.Item{Name: f.Path, Size: f.Size, AgeDays: f.AgeDays}
		total += f.Size
	}

	var selected []prompt.Item
	if len(items) > 0 {
		var err error
		selected, err = d.gate.Select(fmt.Sprintf("Select log files to delete (%s total)", humanize.IBytes(uint64(total))), items)
		if err != nil {
			return d.unavailable(err)
		}
	}

	if len(selected) == 0 && !vacuumJournal {
		d.info("Nothing selected.")
		return &Summary{}, nil
	}
	question := fmt.Sprintf("Proceed to delete %d log file(s)?", len(selected))
	if len(selected) == 0 {
		question = fmt.Sprintf("Vacuum the systemd journal to %d days?", retentionDays)
	} else if vacuumJournal {
		question = fmt.Sprintf("Proceed to delete %d log file(s) and vacuum the journal?", len(selected))
	}
	if !d.confirm(question) {
		return d.declined()
	}

	summary := &Summary{}
	before := d.snapshot()
	for _, it := range selected {
		if d.dryRun {
			d.printDryRun(it.Name)
			summary.addSkipped(it.Name)
			continue
		}
		d.record(summary, it.Name, logfiles.Remove(it.Name))
	}

	if vacuumJournal {
		const journal = "systemd journal"
		if d.dryRun {
			d.printDryRun(journal)
			summary.addSkipped(journal)
		} else {
			_, err := d.runner.Run(ctx, "journalctl", logfiles.VacuumArgs(retentionDays)...)
			d.record(summary, journal, err)
		}
	}

	d.finish(summary, before)
	return summary, nil
}

// ─── Shared flow ─────────────────────────────────────────────────────────────

// selectConfirmRemove is the common selection → confirmation → batch
// removal sequence used by the package-backed operations.
func (d *Dispatcher) selectConfirmRemove(ctx context.Context, title string, items []prompt.Item) (*Summary, error) {
	selected, err := d.gate.Select(title, items)
	if err != nil {
		return d.unavailable(err)
	}
	if len(selected) == 0 {
		d.info("Nothing selected.")
		return &Summary{}, nil
	}
	if !d.confirm(fmt.Sprintf("Proceed to remove %d package(s)?", len(selected))) {
		return d.declined()
	}
	return d.removeBatch(ctx, selected)
}

// removeBatch removes every item, fail-soft: one failure never stops
// the remaining items.
func (d *Dispatcher) removeBatch(ctx context.Context, items []prompt.Item) (*Summary, error) {
	summary := &Summary{}
	before := d.snapshot()
	for _, it := range items {
		if d.dryRun {
			d.printDryRun(it.Name)
			summary.addSkipped(it.Name)
			continue
		}
		d.record(summary, it.Name, d.manager.Remove(ctx, it.Name))
	}
	d.finish(summary, before)
	return summary, nil
}

// confirm wraps the gate and maps an unavailable input stream onto a
// decline. A dead terminal never confirms a destructive action.
func (d *Dispatcher) confirm(question string) bool {
	ok, err := d.gate.Confirm(question)
	if err != nil {
		if errors.Is(err, prompt.ErrInputUnavailable) {
			d.logger.Warn().Msg("input unavailable; treating as decline")
			return false
		}
		d.logger.Warn().Err(err).Msg("confirmation failed; treating as decline")
		return false
	}
	return ok
}

func (d *Dispatcher) declined() (*Summary, error) {
	d.info("Aborted; nothing was changed.")
	return &Summary{}, nil
}

func (d *Dispatcher) unavailable(err error) (*Summary, error) {
	if errors.Is(err, prompt.ErrInputUnavailable) {
		d.logger.Warn().Msg("input unavailable; treating as decline")
		return d.declined()
	}
	return nil, err
}

func (d *Dispatcher) record(summary *Summary, item string, err error) {
	if err != nil {
		d.logger.Debug().Err(err).Str("item", item).Msg("action failed")
		fmt.Fprintf(d.out, "%s %s: %v\n", failStyle.Render("✗"), item, err)
	} else {
		fmt.Fprintf(d.out, "%s %s\n", okStyle.Render("✓"), item)
	}
	summary.add(item, err)
}

func (d *Dispatcher) printDryRun(item string) {
	fmt.Fprintf(d.out, "%s would remove %s\n", infoStyle.Render("dry-run:"), item)
}

func (d *Dispatcher) info(msg string) {
	fmt.Fprintln(d.out, infoStyle.Render(msg))
}

// finish prints the per-invocation summary and the disk-usage delta
// when something actually ran.
func (d *Dispatcher) finish(summary *Summary, before uint64) {
	line := fmt.Sprintf("Done: %d succeeded, %d failed, %d skipped.",
		summary.Succeeded(), summary.Failed(), summary.Skipped())
	fmt.Fprintln(d.out, doneStyle.Render(line))

	if summary.Succeeded() == 0 || d.dryRun {
		return
	}
	if after, ok := d.diskUsed(); ok && before > after {
		summary.FreedBytes = before - after
		fmt.Fprintln(d.out, okStyle.Render(fmt.Sprintf("Freed about %s of disk space.", humanize.IBytes(summary.FreedBytes))))
	}
}

func (d *Dispatcher) snapshot() uint64 {
	used, _ := d.diskUsed()
	return used
}

func rootDiskUsed() (uint64, bool) {
	usage, err := disk.Usage("/")
	if err != nil {
		return 0, false
	}
	return usage.Used, true
}

func namesToItems(names []string) []prompt.Item {
	items := make([]prompt.Item, len(names))
	for i, n := range names {
		items[i] = prompt.Item{Name: n}
	}
	return items
}
