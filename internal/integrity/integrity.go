// Package integrity cross-checks the four catalog artifacts of a directory
// and writes one plain-text report per check.
package integrity

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/catmerge/internal/catalog"
	"github.com/dusk-indust/catmerge/internal/fileops"
	"github.com/dusk-indust/catmerge/internal/logging"
)

// Report file names, in the order the checks run.
const (
	EnginesReport            = "engines-test.txt"
	FeatureTreeReport        = "feature-tree-test.txt"
	IndependentReport        = "tests-engine-independent-test.txt"
	DependentDuplicateReport = "tests-engine-dependent-duplicate-test.txt"
	DependentReport          = "tests-engine-dependent-test.txt"
	FilesReport              = "files-test.txt"
)

// Catalog holds the four artifacts of one directory.
type Catalog struct {
	Dir         string
	Engines     []catalog.Engine
	Tree        []*catalog.Node
	Dependent   []catalog.DependentTest
	Independent []catalog.IndependentTest
}

// Result is the outcome of one check.
type Result struct {
	File     string   // report file name
	Title    string   // first line of the report
	Findings []string // one line per problem
	Summary  string   // last line of the report
}

// Text renders the report file content.
func (r Result) Text() string {
	lines := make([]string, 0, len(r.Findings)+2)
	lines = append(lines, r.Title)
	lines = append(lines, r.Findings...)
	lines = append(lines, r.Summary)
	return strings.Join(lines, "\n") + "\n"
}

// Report collects the results of every check.
type Report struct {
	Results []Result
}

// Problems returns the number of findings over all checks.
func (r *Report) Problems() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Findings)
	}
	return n
}

// Checker loads, checks and reports on catalog directories.
type Checker struct {
	log *slog.Logger
}

// NewChecker creates a Checker.
func NewChecker() *Checker {
	return &Checker{log: logging.New("integrity")}
}

// Run checks dir and writes the reports into it.
func (c *Checker) Run(dir string) (*Report, error) {
	cat, err := c.Load(dir)
	if err != nil {
		return nil, err
	}
	rep := Check(cat)
	if err := rep.Write(dir); err != nil {
		return nil, err
	}
	c.log.Info("integrity checked", "dir", dir, "problems", rep.Problems())
	return rep, nil
}

// Load reads the artifacts of dir. A missing artifact is an empty
// collection; a malformed one is an error.
func (c *Checker) Load(dir string) (*Catalog, error) {
	cat := &Catalog{Dir: dir}
	var err error
	if cat.Engines, err = load(c, dir, catalog.KindEngines, catalog.DecodeEngines); err != nil {
		return nil, err
	}
	if cat.Tree, err = load(c, dir, catalog.KindFeatureTree, catalog.DecodeTree); err != nil {
		return nil, err
	}
	if cat.Dependent, err = load(c, dir, catalog.KindEngineDependent, catalog.DecodeDependent); err != nil {
		return nil, err
	}
	if cat.Independent, err = load(c, dir, catalog.KindEngineIndependent, catalog.DecodeIndependent); err != nil {
		return nil, err
	}
	return cat, nil
}

func load[T any](c *Checker, dir string, kind catalog.Kind, decode func([]byte) ([]T, error)) ([]T, error) {
	path := filepath.Join(dir, kind.Filename())
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		c.log.Warn("artifact missing, treating as empty", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	items, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

// Write stores every result as a text file in dir.
func (r *Report) Write(dir string) error {
	for _, res := range r.Results {
		path := filepath.Join(dir, res.File)
		if err := os.WriteFile(path, []byte(res.Text()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// Check runs every check over cat. It does not touch the disk except to
// look up referenced files below cat.Dir.
func Check(cat *Catalog) *Report {
	idx := newIndex(cat)
	return &Report{Results: []Result{
		checkEngines(cat, idx),
		checkTree(cat, idx),
		checkIndependent(cat, idx),
		checkDuplicates(cat),
		checkDependent(cat, idx),
		checkFiles(cat),
	}}
}

type index struct {
	engines          map[string]bool // registered engines
	testedEngines    map[string]bool // engines with dependent tests
	testedFeatures   map[string]bool // features with dependent tests
	declaredFeatures map[string]bool // features in the tree
}

func newIndex(cat *Catalog) *index {
	idx := &index{
		engines:          make(map[string]bool, len(cat.Engines)),
		testedEngines:    make(map[string]bool),
		testedFeatures:   make(map[string]bool),
		declaredFeatures: make(map[string]bool),
	}
	for _, e := range cat.Engines {
		idx.engines[e.ID] = true
	}
	for _, t := range cat.Dependent {
		idx.testedEngines[t.EngineID] = true
		idx.testedFeatures[t.FeatureID] = true
	}
	for _, root := range cat.Tree {
		root.Walk(func(n *catalog.Node) {
			if n.Level.Terminal() {
				idx.declaredFeatures[n.ID] = true
			}
		})
	}
	return idx
}

func checkEngines(cat *Catalog, idx *index) Result {
	res := Result{File: EnginesReport, Title: "Checking engines.json..."}
	for _, e := range cat.Engines {
		if !idx.testedEngines[e.ID] {
			res.Findings = append(res.Findings, "No tests for engine: "+e.ID)
		}
	}
	res.Summary = fmt.Sprintf("Found %d unused engines.", len(res.Findings))
	return res
}

var levelLabels = map[catalog.Level]string{
	catalog.LevelCatalog:   "Catalog",
	catalog.LevelLanguage:  "Language",
	catalog.LevelGroup:     "Group",
	catalog.LevelConstruct: "Construct",
}

func checkTree(cat *Catalog, idx *index) Result {
	res := Result{File: FeatureTreeReport, Title: "Checking feature-tree.json..."}
	for _, root := range cat.Tree {
		root.Walk(func(n *catalog.Node) {
			if n.Level.Terminal() {
				if !idx.testedFeatures[n.ID] {
					res.Findings = append(res.Findings, "Feature "+n.ID+" has no tests in engine dependent")
				}
				return
			}
			if len(n.Children) == 0 {
				key, _ := n.Level.ChildKey()
				res.Findings = append(res.Findings, fmt.Sprintf("%s %s has no %s.", levelLabels[n.Level], n.ID, key))
			}
		})
	}
	res.Summary = fmt.Sprintf("Found %d feature-tree problems.", len(res.Findings))
	return res
}

func checkIndependent(cat *Catalog, idx *index) Result {
	res := Result{File: IndependentReport, Title: "Checking tests-engine-independent.json..."}
	for _, t := range cat.Independent {
		if !idx.testedFeatures[t.FeatureID] {
			res.Findings = append(res.Findings, "Feature is not in engineDependent: "+t.FeatureID)
		}
		if !idx.declaredFeatures[t.FeatureID] {
			res.Findings = append(res.Findings, "Feature is not in the feature-tree: "+t.FeatureID)
		}
	}
	res.Summary = fmt.Sprintf("Found %d test declarations without tests.", len(res.Findings))
	return res
}

// checkDuplicates reports every engine-dependent test whose feature and
// engine pair occurred earlier in the collection.
func checkDuplicates(cat *Catalog) Result {
	res := Result{File: DependentDuplicateReport, Title: "Checking tests-engine-dependent.json for duplicates..."}
	seen := make(map[[2]string]bool, len(cat.Dependent))
	for _, t := range cat.Dependent {
		key := [2]string{t.FeatureID, t.EngineID}
		if seen[key] {
			res.Findings = append(res.Findings, "duplicate "+t.FeatureID+" on engine "+t.EngineID)
			continue
		}
		seen[key] = true
	}
	res.Summary = fmt.Sprintf("Found %d duplicate tests.", len(res.Findings))
	return res
}

func checkDependent(cat *Catalog, idx *index) Result {
	res := Result{File: DependentReport, Title: "Checking tests-engine-dependent.json..."}
	for _, t := range cat.Dependent {
		if !idx.engines[t.EngineID] {
			res.Findings = append(res.Findings, fmt.Sprintf("No engine declaration for test: %s(%s)", t.FeatureID, t.EngineID))
		}
	}
	res.Summary = fmt.Sprintf("Found %d tests without engine declarations.", len(res.Findings))
	return res
}

// checkFiles reports references that do not resolve to a file below the
// catalog directory.
func checkFiles(cat *Catalog) Result {
	res := Result{File: FilesReport, Title: "Checking referenced files..."}
	missing := func(owner string, refs []string) {
		for _, ref := range refs {
			if !fileops.Exists(filepath.Join(cat.Dir, filepath.FromSlash(ref))) {
				res.Findings = append(res.Findings, fmt.Sprintf("Missing file for %s: %s", owner, ref))
			}
		}
	}
	for _, t := range cat.Independent {
		missing(t.FeatureID, t.Files)
	}
	for _, t := range cat.Dependent {
		owner := t.FeatureID + " of " + t.EngineID
		missing(owner, t.Files)
		missing(owner, t.Logs)
	}
	res.Summary = fmt.Sprintf("Found %d missing files.", len(res.Findings))
	return res
}
