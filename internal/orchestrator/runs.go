package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/catmerge/internal/catalog"
	"github.com/dusk-indust/catmerge/internal/fileops"
	"github.com/dusk-indust/catmerge/internal/remap"
)

// RunTestsDir is the directory of a run that holds its artifacts.
const RunTestsDir = "test"

// RunsOutcome summarises the concatenation of several runs.
type RunsOutcome struct {
	Output  string
	Runs    []string // merged run directories, in concatenation order
	Skipped []string // run directories without engine-dependent tests
	Failed  []string // run directories that could not be remapped or read
	Records int
	Copies  []fileops.Result
}

type runLoad struct {
	dir   string
	tests []catalog.DependentTest
	err   error
}

// MergeRuns concatenates the engine-dependent tests of every run directory
// directly below root into root/tests-engine-dependent.json and gathers the
// runs' files into root/files without overwriting files already there.
//
// Runs are remapped and loaded concurrently; records are concatenated in
// run directory name order. A run that fails is reported and left out; the
// failures are returned joined alongside the outcome.
func (m *Merger) MergeRuns(ctx context.Context, root string) (*RunsOutcome, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}

	out := &RunsOutcome{Output: filepath.Join(root, catalog.KindEngineDependent.Filename())}
	var loads []*runLoad
	for _, e := range entries {
		if !e.IsDir() || e.Name() == remap.FilesDir {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if !fileops.Exists(runArtifact(dir)) {
			out.Skipped = append(out.Skipped, dir)
			continue
		}
		loads = append(loads, &runLoad{dir: dir})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers())
	for i, l := range loads {
		m.emit(ProgressEvent{Artifact: filepath.Base(l.dir), Status: ProgressPending})
		g.Go(func() error {
			m.emit(ProgressEvent{
				Artifact: filepath.Base(l.dir),
				Status:   ProgressWorking,
				Message:  fmt.Sprintf("%d of %d", i+1, len(loads)),
			})
			l.tests, l.err = m.loadRun(gctx, l.dir)
			if l.err != nil {
				m.emit(ProgressEvent{Artifact: filepath.Base(l.dir), Status: ProgressFailed, Message: l.err.Error()})
				return nil
			}
			m.emit(ProgressEvent{Artifact: filepath.Base(l.dir), Status: ProgressComplete})
			return nil
		})
	}
	_ = g.Wait()

	var (
		merged []catalog.DependentTest
		jobs   []fileops.Job
		errs   []error
	)
	filesDir := filepath.Join(root, remap.FilesDir)
	for _, l := range loads {
		if l.err != nil {
			out.Failed = append(out.Failed, l.dir)
			errs = append(errs, fmt.Errorf("run %s: %w", l.dir, l.err))
			continue
		}
		tree, err := fileops.TreeJobs(filepath.Join(l.dir, RunTestsDir, remap.FilesDir), filesDir, false)
		if err != nil {
			out.Failed = append(out.Failed, l.dir)
			errs = append(errs, fmt.Errorf("run %s: %w", l.dir, err))
			continue
		}
		jobs = append(jobs, tree...)
		merged = append(merged, l.tests...)
		out.Runs = append(out.Runs, l.dir)
	}

	out.Copies = m.pool.Run(ctx, firstPerDestination(jobs))
	out.Records = len(merged)
	if merged == nil {
		merged = []catalog.DependentTest{}
	}
	if err := catalog.WriteFile(out.Output, merged); err != nil {
		return nil, err
	}

	m.log.Info("runs merged",
		"root", root,
		"runs", len(out.Runs),
		"skipped", len(out.Skipped),
		"failed", len(out.Failed),
		"records", out.Records)
	for _, dir := range out.Skipped {
		m.log.Info("skipped, no engine-dependent tests", "run", dir)
	}
	return out, errors.Join(errs...)
}

// loadRun remaps a run's engine-dependent tests and decodes them.
func (m *Merger) loadRun(ctx context.Context, dir string) ([]catalog.DependentTest, error) {
	path := runArtifact(dir)
	if _, err := m.remapper.Remap(ctx, path); err != nil {
		return nil, err
	}
	return readArtifact(path, catalog.DecodeDependent)
}

func (m *Merger) workers() int {
	if m.opts.Workers <= 0 {
		return fileops.DefaultWorkers
	}
	return m.opts.Workers
}

func runArtifact(dir string) string {
	return filepath.Join(dir, RunTestsDir, catalog.KindEngineDependent.Filename())
}
