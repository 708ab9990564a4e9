package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/linmole/internal/config"
	"github.com/lakshaymaurya-felt/linmole/internal/prompt"
)

// fakeManager scripts the package manager collaborator.
type fakeManager struct {
	installed []string
	unused    []string
	kernels   []string
	listErr   error

	removeErr map[string]error
	removed   []string

	cacheCleaned bool
	cacheErr     error
}

func (f *fakeManager) Name() string { return "dnf" }

func (f *fakeManager) ListInstalled(context.Context) ([]string, error) {
	return f.installed, f.listErr
}

func (f *fakeManager) ListUnused(context.Context) ([]string, error) {
	return f.unused, f.listErr
}

func (f *fakeManager) ListKernels(context.Context) ([]string, error) {
	return f.kernels, f.listErr
}

func (f *fakeManager) Remove(_ context.Context, pkg string) error {
	f.removed = append(f.removed, pkg)
	if err, ok := f.removeErr[pkg]; ok {
		return err
	}
	return nil
}

func (f *fakeManager) CleanCache(context.Context) error {
	f.cacheCleaned = true
	return f.cacheErr
}

// fakeRunner records invocations of external programs.
type fakeRunner struct {
	calls []string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, program string, args ...string) (string, error) {
	f.calls = append(f.calls, strings.Join(append([]string{program}, args...), " "))
	return "", f.err
}

type fixture struct {
	d   *Dispatcher
	mgr *fakeManager
	run *fakeRunner
	out *bytes.Buffer
}

func newFixture(t *testing.T, input string, mgr *fakeManager) *fixture {
	t.Helper()
	out := &bytes.Buffer{}
	run := &fakeRunner{}
	d := New(Options{
		Gate:    prompt.NewWithIO(strings.NewReader(input), out),
		Runner:  run,
		Manager: mgr,
		Out:     out,
	})
	d.diskUsed = func() (uint64, bool) { return 0, false }
	d.runningRelease = func() (string, error) { return "6.1.0", nil }
	return &fixture{d: d, mgr: mgr, run: run, out: out}
}

func TestRemovePackageNamedConfirmed(t *testing.T) {
	f := newFixture(t, "y\n", &fakeManager{})
	summary, err := f.d.RemovePackage(context.Background(), "leftpad")
	require.NoError(t, err)
	assert.Equal(t, []string{"leftpad"}, f.mgr.removed)
	assert.Equal(t, 1, summary.Succeeded())
	assert.NoError(t, summary.Err())
}

func TestRemovePackageDeclinedRunsNothing(t *testing.T) {
	f := newFixture(t, "n\n", &fakeManager{})
	summary, err := f.d.RemovePackage(context.Background(), "leftpad")
	require.NoError(t, err)
	assert.Empty(t, f.mgr.removed)
	assert.NoError(t, summary.Err(), "decline must map to exit code 0")
	assert.Contains(t, f.out.String(), "Aborted")
}

func TestRemovePackageInteractiveSelection(t *testing.T) {
	mgr := &fakeManager{installed: []string{"alpha", "beta", "gamma"}}
	f := newFixture(t, "2 3\ny\n", mgr)
	summary, err := f.d.RemovePackage(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "gamma"}, mgr.removed)
	assert.Equal(t, 2, summary.Succeeded())
}

func TestRemovePackageEnumerationErrorAbortsBeforePrompt(t *testing.T) {
	mgr := &fakeManager{listErr: errors.New("query failed")}
	f := newFixture(t, "", mgr)
	_, err := f.d.RemovePackage(context.Background(), "")
	require.Error(t, err)
	assert.Empty(t, mgr.removed)
}

func TestRemoveBatchFailSoft(t *testing.T) {
	mgr := &fakeManager{
		unused:    []string{"one", "two", "three"},
		removeErr: map[string]error{"two": errors.New("exit status 1")},
	}
	f := newFixture(t, "all\ny\n", mgr)
	summary, err := f.d.UninstallUnusedApps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, mgr.removed, "failure must not abort the batch")
	assert.Equal(t, 2, summary.Succeeded())
	assert.Equal(t, 1, summary.Failed())
	assert.Error(t, summary.Err())
}

func TestUninstallUnusedAppsEmptyList(t *testing.T) {
	f := newFixture(t, "", &fakeManager{})
	summary, err := f.d.UninstallUnusedApps(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Outcomes)
	assert.Contains(t, f.out.String(), "No unused packages")
	assert.NotContains(t, f.out.String(), "Select", "no prompt for an empty candidate list")
}

func TestRemoveOldKernelsExcludesRunningAndRemovesSelection(t *testing.T) {
	mgr := &fakeManager{kernels: []string{"kernel-5.10.0", "kernel-5.15.0", "kernel-6.1.0"}}
	f := newFixture(t, "1\ny\n", mgr)
	summary, err := f.d.RemoveOldKernels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"kernel-5.10.0"}, mgr.removed)
	assert.Equal(t, 1, summary.Succeeded())
	assert.NoError(t, summary.Err())
	assert.NotContains(t, f.out.String(), "kernel-6.1.0", "running kernel must not be offered")
}

func TestRemoveOldKernelsOnlyRunningInstalled(t *testing.T) {
	mgr := &fakeManager{kernels: []string{"kernel-6.1.0"}}
	f := newFixture(t, "", mgr)
	summary, err := f.d.RemoveOldKernels(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Outcomes)
	assert.Empty(t, mgr.removed)
	assert.Contains(t, f.out.String(), "No old kernels")
}

func TestCleanPackageCache(t *testing.T) {
	mgr := &fakeManager{}
	f := newFixture(t, "y\n", mgr)
	summary, err := f.d.CleanPackageCache(context.Background())
	require.NoError(t, err)
	assert.True(t, mgr.cacheCleaned)
	assert.Equal(t, 1, summary.Succeeded())
}

func TestCleanPackageCacheDeclined(t *testing.T) {
	mgr := &fakeManager{}
	f := newFixture(t, "no\n", mgr)
	summary, err := f.d.CleanPackageCache(context.Background())
	require.NoError(t, err)
	assert.False(t, mgr.cacheCleaned)
	assert.NoError(t, summary.Err())
}

func TestClosedInputTreatedAsDecline(t *testing.T) {
	mgr := &fakeManager{unused: []string{"one"}}
	f := newFixture(t, "", mgr)
	summary, err := f.d.UninstallUnusedApps(context.Background())
	require.NoError(t, err, "closed stdin must decline, not fail")
	assert.Empty(t, mgr.removed)
	assert.NoError(t, summary.Err())
}

func TestDryRunSkipsExecution(t *testing.T) {
	mgr := &fakeManager{unused: []string{"one", "two"}}
	f := newFixture(t, "all\ny\n", mgr)
	f.d.dryRun = true
	summary, err := f.d.UninstallUnusedApps(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mgr.removed)
	assert.Equal(t, 2, summary.Skipped())
	assert.Equal(t, 0, summary.Succeeded())
}

func TestCleanUpLogFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	old := filepath.Join(dir, "ancient.log")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	mtime := now.AddDate(0, 0, -90)
	require.NoError(t, os.Chtimes(old, mtime, mtime))
	fresh := filepath.Join(dir, "fresh.log")
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	f := newFixture(t, "all\ny\n", &fakeManager{})
	f.d.logTargets = []config.LogTarget{{Name: "test", Dir: dir, Patterns: []string{"*.log"}}}
	f.d.protected = nil

	summary, err := f.d.CleanUpLogFiles(context.Background(), 30, false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded())
	_, statErr := os.Stat(old)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(fresh)
	assert.NoError(t, statErr)
}

func TestCleanUpLogFilesNoneOldEnough(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fresh.log"), []byte("x"), 0o644))

	f := newFixture(t, "", &fakeManager{})
	f.d.logTargets = []config.LogTarget{{Name: "test", Dir: dir, Patterns: []string{"*.log"}}}
	f.d.protected = nil

	summary, err := f.d.CleanUpLogFiles(context.Background(), 30, false)
	require.NoError(t, err)
	assert.Empty(t, summary.Outcomes)
	assert.NotContains(t, f.out.String(), "Select", "no prompt for an empty candidate list")
}

func TestCleanUpLogFilesVacuumsJournal(t *testing.T) {
	f := newFixture(t, "y\n", &fakeManager{})
	f.d.logTargets = []config.LogTarget{{Name: "test", Dir: filepath.Join(t.TempDir(), "none")}}
	f.d.protected = nil

	summary, err := f.d.CleanUpLogFiles(context.Background(), 14, true)
	require.NoError(t, err)
	require.Len(t, f.run.calls, 1)
	assert.Equal(t, "journalctl --vacuum-time=14d", f.run.calls[0])
	assert.Equal(t, 1, summary.Succeeded())
}

func TestSummaryFreedBytes(t *testing.T) {
	mgr := &fakeManager{}
	f := newFixture(t, "y\n", mgr)
	used := uint64(10 * 1024 * 1024 * 1024)
	f.d.diskUsed = func() (uint64, bool) {
		u := used
		used -= 512 * 1024 * 1024
		return u, true
	}
	summary, err := f.d.RemovePackage(context.Background(), "leftpad")
	require.NoError(t, err)
	assert.Equal(t, uint64(512*1024*1024), summary.FreedBytes)
	assert.Contains(t, f.out.String(), "Freed about")
}

func TestSummaryErrMessage(t *testing.T) {
	s := &Summary{}
	s.add("a", nil)
	s.add("b", fmt.Errorf("boom"))
	require.Error(t, s.Err())
	assert.Contains(t, s.Err().Error(), "1 of 2")
}
