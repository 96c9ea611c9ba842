package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/catmerge/internal/catalog"
)

// Classify decides how older and newer are merged. Two directories are
// merged artifact by artifact; two files must both be named after the same
// artifact. A non-empty target overrides the default output directory.
func Classify(older, newer, target string) (Plan, error) {
	oi, err := os.Stat(older)
	if err != nil {
		return Plan{}, fmt.Errorf("classify older: %w", err)
	}
	ni, err := os.Stat(newer)
	if err != nil {
		return Plan{}, fmt.Errorf("classify newer: %w", err)
	}

	plan := Plan{Older: older, Newer: newer}
	switch {
	case oi.IsDir() && ni.IsDir():
		plan.Directory = true
		plan.Target = older
	case oi.IsDir() || ni.IsDir():
		return Plan{}, fmt.Errorf("%s and %s: %w", older, newer, ErrUnclassified)
	default:
		kind := catalog.KindOf(filepath.Base(older))
		if kind == catalog.KindUnknown || kind != catalog.KindOf(filepath.Base(newer)) {
			return Plan{}, fmt.Errorf("%s and %s: %w", older, newer, ErrUnclassified)
		}
		plan.Kind = kind
		plan.Target = filepath.Dir(older)
	}

	if target != "" {
		plan.Target = target
	}
	return plan, nil
}

// FindArtifacts locates the artifacts directly inside dir. A file named
// exactly after an artifact wins; otherwise the first JSON file in name
// order whose name contains the artifact name is used.
func FindArtifacts(dir string) (map[catalog.Kind]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	found := make(map[catalog.Kind]string, len(catalog.Kinds))
	exact := make(map[catalog.Kind]bool, len(catalog.Kinds))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.Contains(name, ".json") {
			continue
		}
		kind := catalog.KindOf(name)
		if kind == catalog.KindUnknown || exact[kind] {
			continue
		}
		if name == kind.Filename() {
			exact[kind] = true
			found[kind] = filepath.Join(dir, name)
			continue
		}
		if _, ok := found[kind]; !ok {
			found[kind] = filepath.Join(dir, name)
		}
	}
	return found, nil
}
