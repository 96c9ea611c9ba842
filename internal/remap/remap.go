package remap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dusk-indust/catmerge/internal/catalog"
	"github.com/dusk-indust/catmerge/internal/diagram"
	"github.com/dusk-indust/catmerge/internal/fileops"
	"github.com/dusk-indust/catmerge/internal/logging"
)

// ErrNoFileReferences is returned for artifacts whose records reference
// no files (engines, feature tree).
var ErrNoFileReferences = errors.New("artifact holds no file references")

// Options configures a Remapper.
type Options struct {
	// KeepBackup copies the artifact to orig-<name> before rewriting it.
	KeepBackup bool

	// ImageExt is appended to a diagram source to name its rendered image.
	// Defaults to diagram.DefaultImageExt.
	ImageExt string

	// Renderer renders diagram sources. Nil disables rendering; the
	// derived image references are still registered.
	Renderer diagram.Renderer

	// Pool copies the referenced files. Defaults to a pool with
	// fileops.DefaultWorkers workers.
	Pool *fileops.Pool
}

// Remapper rewrites the file references of test artifacts into the
// canonical layout and copies the referenced files there.
type Remapper struct {
	keepBackup bool
	imageExt   string
	diagrams   *diagram.Once
	pool       *fileops.Pool
	log        *slog.Logger
}

// New creates a Remapper. Diagram directories are rendered at most once
// over the Remapper's lifetime.
func New(opts Options) *Remapper {
	if opts.ImageExt == "" {
		opts.ImageExt = diagram.DefaultImageExt
	}
	if opts.Pool == nil {
		opts.Pool = fileops.NewPool(fileops.DefaultWorkers, nil)
	}
	return &Remapper{
		keepBackup: opts.KeepBackup,
		imageExt:   opts.ImageExt,
		diagrams:   diagram.NewOnce(opts.Renderer),
		pool:       opts.Pool,
		log:        logging.New("remap"),
	}
}

// Result describes one Remap call.
type Result struct {
	Path    string
	Kind    catalog.Kind
	Skipped bool // the files directory already existed
	Records int
	Copies  []fileops.Result
}

// Failed returns the copies that did not succeed.
func (r *Result) Failed() []fileops.Result {
	return fileops.Failed(r.Copies)
}

// Remap processes the artifact at jsonPath in place. If a files directory
// already exists next to it the artifact is left untouched. Copy failures
// are reported in the Result; only failures on the artifact itself are
// returned as errors.
func (r *Remapper) Remap(ctx context.Context, jsonPath string) (*Result, error) {
	abs, err := filepath.Abs(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", jsonPath, err)
	}
	kind := catalog.KindOf(filepath.Base(abs))
	if !kind.HasFiles() {
		return nil, fmt.Errorf("remap %s: %w", jsonPath, ErrNoFileReferences)
	}

	res := &Result{Path: abs, Kind: kind}
	sourceDir := filepath.Dir(abs)
	filesDir := filepath.Join(sourceDir, FilesDir)
	if fileops.Exists(filesDir) {
		r.log.Info("files directory exists, skipping remap", "artifact", abs)
		res.Skipped = true
		return res, nil
	}

	if r.keepBackup {
		backup := filepath.Join(sourceDir, BackupPrefix+filepath.Base(abs))
		if err := fileops.CopyFile(abs, backup); err != nil {
			r.log.Warn("backup failed", "artifact", abs, "error", err)
		}
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", abs, err)
	}

	var (
		out  any
		jobs []fileops.Job
	)
	switch kind {
	case catalog.KindEngineIndependent:
		tests, err := catalog.DecodeIndependent(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", abs, err)
		}
		jobs = r.Independent(ctx, sourceDir, tests)
		out, res.Records = tests, len(tests)
	case catalog.KindEngineDependent:
		tests, err := catalog.DecodeDependent(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", abs, err)
		}
		jobs = r.Dependent(ctx, sourceDir, tests)
		out, res.Records = tests, len(tests)
	}

	if err := os.MkdirAll(filesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", filesDir, err)
	}
	res.Copies = r.pool.Run(ctx, dedupe(jobs))

	if err := catalog.WriteFile(abs, out); err != nil {
		return nil, err
	}

	r.log.Info("remapped",
		"artifact", abs,
		"records", res.Records,
		"copied", len(res.Copies)-len(res.Failed()),
		"failed", len(res.Failed()))
	return res, nil
}

// Independent rewrites the references of tests in place and returns the
// copies that realise the new layout below sourceDir.
func (r *Remapper) Independent(ctx context.Context, sourceDir string, tests []catalog.IndependentTest) []fileops.Job {
	var jobs []fileops.Job
	for i := range tests {
		t := &tests[i]
		var j []fileops.Job
		t.Files, j = r.remapList(ctx, sourceDir, t.Files, CategoryIndependent, "", t.FeatureID, true)
		jobs = append(jobs, j...)
	}
	return jobs
}

// Dependent rewrites the references and logs of tests in place and returns
// the copies that realise the new layout below sourceDir.
func (r *Remapper) Dependent(ctx context.Context, sourceDir string, tests []catalog.DependentTest) []fileops.Job {
	var jobs []fileops.Job
	for i := range tests {
		t := &tests[i]
		var j []fileops.Job
		t.Files, j = r.remapList(ctx, sourceDir, t.Files, CategoryDependent, t.EngineID, t.FeatureID, true)
		jobs = append(jobs, j...)
		t.Logs, j = r.remapList(ctx, sourceDir, t.Logs, CategoryLogs, t.EngineID, t.FeatureID, false)
		jobs = append(jobs, j...)
	}
	return jobs
}

// remapList maps every reference to its canonical path. A diagram source
// also registers its rendered image, which is appended to the list and
// mapped in turn.
func (r *Remapper) remapList(ctx context.Context, sourceDir string, refs []string, cat Category, engineID, featureID string, diagrams bool) ([]string, []fileops.Job) {
	queue := append([]string{}, refs...)
	out := make([]string, 0, len(queue))
	jobs := make([]fileops.Job, 0, len(queue))

	for i := 0; i < len(queue); i++ {
		ref := NormalizeRef(sourceDir, queue[i])
		src := filepath.Join(sourceDir, filepath.FromSlash(ref))
		if diagrams && diagram.IsSource(ref) {
			r.diagrams.Ensure(ctx, filepath.Dir(src))
			queue = append(queue, queue[i]+r.imageExt)
		}

		dst := CanonicalPath(cat, engineID, featureID, ref)
		out = append(out, dst)
		jobs = append(jobs, fileops.Job{Src: src, Dst: filepath.Join(sourceDir, filepath.FromSlash(dst))})
	}
	return out, jobs
}

// dedupe keeps the last job per destination so that two references with
// the same canonical path never race on one file.
func dedupe(jobs []fileops.Job) []fileops.Job {
	last := make(map[string]int, len(jobs))
	for i, j := range jobs {
		last[j.Dst] = i
	}
	out := make([]fileops.Job, 0, len(last))
	for i, j := range jobs {
		if last[j.Dst] == i {
			out = append(out, j)
		}
	}
	return out
}
