package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dusk-indust/catmerge/internal/catalog"
	"github.com/dusk-indust/catmerge/internal/fileops"
	"github.com/dusk-indust/catmerge/internal/logging"
	"github.com/dusk-indust/catmerge/internal/merge"
	"github.com/dusk-indust/catmerge/internal/remap"
)

// Merger merges artifact pairs and writes merged-<name> into the target
// directory.
type Merger struct {
	opts     Options
	pool     *fileops.Pool
	remapper *remap.Remapper
	log      *slog.Logger
}

// NewMerger creates a Merger. The copy pool and the remapper are shared by
// every merge the Merger runs, so each diagram directory renders once.
func NewMerger(opts Options) *Merger {
	pool := fileops.NewPool(opts.Workers, nil)
	return &Merger{
		opts: opts,
		pool: pool,
		remapper: remap.New(remap.Options{
			KeepBackup: opts.KeepBackup,
			ImageExt:   opts.ImageExt,
			Renderer:   opts.Renderer,
			Pool:       pool,
		}),
		log: logging.New("orchestrator"),
	}
}

// Remapper returns the remapper used for artifacts with file references.
func (m *Merger) Remapper() *remap.Remapper {
	return m.remapper
}

// Merge classifies older and newer and merges them. In directory mode every
// artifact found in both directories is merged; a failing artifact does
// not stop the others and the failures are returned joined.
func (m *Merger) Merge(ctx context.Context, older, newer string) ([]Outcome, error) {
	plan, err := Classify(older, newer, m.opts.Target)
	if err != nil {
		return nil, err
	}
	return m.Execute(ctx, plan)
}

// Execute runs a plan produced by Classify.
func (m *Merger) Execute(ctx context.Context, plan Plan) ([]Outcome, error) {
	if !plan.Directory {
		out, err := m.mergeArtifact(ctx, plan.Kind, plan.Older, plan.Newer, plan.Target)
		if err != nil {
			return nil, err
		}
		return []Outcome{*out}, nil
	}

	olderFiles, err := FindArtifacts(plan.Older)
	if err != nil {
		return nil, err
	}
	newerFiles, err := FindArtifacts(plan.Newer)
	if err != nil {
		return nil, err
	}

	var (
		outcomes []Outcome
		errs     []error
	)
	for _, kind := range catalog.Kinds {
		o, okOlder := olderFiles[kind]
		n, okNewer := newerFiles[kind]
		if !okOlder || !okNewer {
			m.log.Info("artifact not present on both sides, skipping", "kind", kind.String())
			continue
		}
		out, err := m.mergeArtifact(ctx, kind, o, n, plan.Target)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		outcomes = append(outcomes, *out)
	}
	return outcomes, errors.Join(errs...)
}

func (m *Merger) mergeArtifact(ctx context.Context, kind catalog.Kind, older, newer, target string) (*Outcome, error) {
	name := kind.String()
	m.emit(ProgressEvent{Artifact: name, Status: ProgressWorking})

	out, err := m.run(ctx, kind, older, newer, target)
	if err != nil {
		m.emit(ProgressEvent{Artifact: name, Status: ProgressFailed, Message: err.Error()})
		return nil, fmt.Errorf("merge %s: %w", name, err)
	}
	m.emit(ProgressEvent{Artifact: name, Status: ProgressComplete})

	m.log.Info("merged",
		"kind", name,
		"output", out.Output,
		"older", out.OlderCount,
		"newer", out.NewerCount,
		"written", out.Written,
		"replaced", len(out.Report.Replaced),
		"added", len(out.Report.Added))
	for _, id := range out.Report.Replaced {
		m.log.Debug("replaced", "kind", name, "id", id)
	}
	for _, id := range out.Report.Added {
		m.log.Debug("added", "kind", name, "id", id)
	}
	return out, nil
}

func (m *Merger) run(ctx context.Context, kind catalog.Kind, older, newer, target string) (*Outcome, error) {
	target, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", target, err)
	}
	out := &Outcome{
		Kind:   kind,
		Older:  older,
		Newer:  newer,
		Output: filepath.Join(target, OutputPrefix+kind.Filename()),
	}

	var merged any
	switch kind {
	case catalog.KindEngines:
		merged, err = m.mergeEngines(out)
	case catalog.KindFeatureTree:
		merged, err = m.mergeTree(out)
	case catalog.KindEngineIndependent:
		merged, err = m.mergeIndependent(ctx, out, target)
	case catalog.KindEngineDependent:
		merged, err = m.mergeDependent(ctx, out, target)
	default:
		return nil, fmt.Errorf("%s and %s: %w", older, newer, ErrUnclassified)
	}
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", target, err)
	}
	if err := catalog.WriteFile(out.Output, merged); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Merger) mergeEngines(out *Outcome) (any, error) {
	older, newer, err := loadPair(out, catalog.DecodeEngines)
	if err != nil {
		return nil, err
	}
	merged, rep := merge.Engines(older, newer)
	out.Report, out.Written = rep, len(merged)
	return merged, nil
}

func (m *Merger) mergeTree(out *Outcome) (any, error) {
	older, newer, err := loadPair(out, catalog.DecodeTree)
	if err != nil {
		return nil, err
	}
	merged, rep := merge.Tree(older, newer, merge.TreeOptions{PreferNewerShell: m.opts.PreferNewerShell})
	out.Report, out.Written = rep, len(merged)
	return merged, nil
}

func (m *Merger) mergeIndependent(ctx context.Context, out *Outcome, target string) (any, error) {
	if err := m.remapPair(ctx, out); err != nil {
		return nil, err
	}
	older, newer, err := loadPair(out, catalog.DecodeIndependent)
	if err != nil {
		return nil, err
	}
	merged, rep := merge.IndependentTests(older, newer)
	out.Report, out.Written = rep, len(merged)

	refs := func(t catalog.IndependentTest) []string { return t.Files }
	jobs := transfers(filepath.Dir(out.Newer), target, newer, refs)
	jobs = append(jobs, transfers(filepath.Dir(out.Older), target, merged[len(newer):], refs)...)
	out.Copies = m.pool.Run(ctx, firstPerDestination(jobs))
	return merged, nil
}

func (m *Merger) mergeDependent(ctx context.Context, out *Outcome, target string) (any, error) {
	if err := m.remapPair(ctx, out); err != nil {
		return nil, err
	}
	older, newer, err := loadPair(out, catalog.DecodeDependent)
	if err != nil {
		return nil, err
	}
	merged, rep := merge.DependentTests(older, newer)
	out.Report, out.Written = rep, len(merged)

	refs := func(t catalog.DependentTest) []string {
		return append(append([]string{}, t.Files...), t.Logs...)
	}
	jobs := transfers(filepath.Dir(out.Newer), target, newer, refs)
	jobs = append(jobs, transfers(filepath.Dir(out.Older), target, merged[len(newer):], refs)...)
	out.Copies = m.pool.Run(ctx, firstPerDestination(jobs))
	return merged, nil
}

// remapPair brings both sides into the canonical layout, older first.
func (m *Merger) remapPair(ctx context.Context, out *Outcome) error {
	for _, path := range []string{out.Older, out.Newer} {
		res, err := m.remapper.Remap(ctx, path)
		if err != nil {
			return err
		}
		out.Remaps = append(out.Remaps, res)
	}
	return nil
}

func (m *Merger) emit(ev ProgressEvent) {
	if m.opts.OnProgress != nil {
		m.opts.OnProgress(ev)
	}
}

// loadPair reads and decodes both sides of out.
func loadPair[T any](out *Outcome, decode func([]byte) ([]T, error)) (older, newer []T, err error) {
	if older, err = readArtifact(out.Older, decode); err != nil {
		return nil, nil, err
	}
	if newer, err = readArtifact(out.Newer, decode); err != nil {
		return nil, nil, err
	}
	out.OlderCount, out.NewerCount = len(older), len(newer)
	return older, newer, nil
}

func readArtifact[T any](path string, decode func([]byte) ([]T, error)) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	items, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

// transfers returns the copies that bring the files referenced by recs from
// srcDir into target. References are relative to the artifact directory, so
// nothing moves when srcDir is the target.
func transfers[T any](srcDir, target string, recs []T, refs func(T) []string) []fileops.Job {
	src, err := filepath.Abs(srcDir)
	if err != nil || src == target {
		return nil
	}
	var jobs []fileops.Job
	for _, rec := range recs {
		for _, ref := range refs(rec) {
			rel := filepath.FromSlash(ref)
			jobs = append(jobs, fileops.Job{
				Src: filepath.Join(src, rel),
				Dst: filepath.Join(target, rel),
			})
		}
	}
	return jobs
}

// firstPerDestination drops later jobs that write an already claimed
// destination, so newer records win over older ones.
func firstPerDestination(jobs []fileops.Job) []fileops.Job {
	seen := make(map[string]bool, len(jobs))
	out := jobs[:0:0]
	for _, j := range jobs {
		if seen[j.Dst] {
			continue
		}
		seen[j.Dst] = true
		out = append(out, j)
	}
	return out
}
