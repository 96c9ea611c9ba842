package orchestrator

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/catmerge/internal/catalog"
)

func TestClassify_Directories(t *testing.T) {
	older, newer := t.TempDir(), t.TempDir()

	plan, err := Classify(older, newer, "")
	require.NoError(t, err)
	assert.True(t, plan.Directory)
	assert.Equal(t, catalog.KindUnknown, plan.Kind)
	assert.Equal(t, older, plan.Target)
}

func TestClassify_FilesBySubstring(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "old", "engines.json")
	newer := filepath.Join(dir, "new", "merged-engines.json")
	writeFile(t, older, "[]")
	writeFile(t, newer, "[]")

	plan, err := Classify(older, newer, "")
	require.NoError(t, err)
	assert.False(t, plan.Directory)
	assert.Equal(t, catalog.KindEngines, plan.Kind)
	assert.Equal(t, filepath.Join(dir, "old"), plan.Target)
}

func TestClassify_TargetOverride(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "feature-tree.json")
	newer := filepath.Join(dir, "feature-tree-2.json")
	writeFile(t, older, "[]")
	writeFile(t, newer, "[]")

	_, err := Classify(older, newer, "")
	require.ErrorIs(t, err, ErrUnclassified, "feature-tree-2.json does not contain feature-tree.json")

	newer = filepath.Join(dir, "new-feature-tree.json")
	writeFile(t, newer, "[]")
	plan, err := Classify(older, newer, "/out")
	require.NoError(t, err)
	assert.Equal(t, catalog.KindFeatureTree, plan.Kind)
	assert.Equal(t, "/out", plan.Target)
}

func TestClassify_Unclassified(t *testing.T) {
	dir := t.TempDir()
	engines := filepath.Join(dir, "engines.json")
	tree := filepath.Join(dir, "feature-tree.json")
	other := filepath.Join(dir, "notes.json")
	writeFile(t, engines, "[]")
	writeFile(t, tree, "[]")
	writeFile(t, other, "[]")

	tests := map[string][2]string{
		"different kinds":  {engines, tree},
		"unknown names":    {other, other},
		"file and dir":     {engines, t.TempDir()},
		"dir and file":     {t.TempDir(), engines},
		"one side unknown": {engines, other},
	}
	for name, pair := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Classify(pair[0], pair[1], "")
			assert.ErrorIs(t, err, ErrUnclassified)
		})
	}
}

func TestClassify_MissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "engines.json")
	_, err := Classify(missing, t.TempDir(), "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnclassified)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, 1, strings.Count(err.Error(), missing), "the path is reported once")
}

func TestFindArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "merged-engines.json"), "[]")
	writeFile(t, filepath.Join(dir, "engines.json"), "[]")
	writeFile(t, filepath.Join(dir, "a-tests-engine-dependent.json"), "[]")
	writeFile(t, filepath.Join(dir, "b-tests-engine-dependent.json"), "[]")
	writeFile(t, filepath.Join(dir, "feature-tree.txt"), "")
	writeFile(t, filepath.Join(dir, "tests-engine-independent.json", "inner.json"), "[]")

	found, err := FindArtifacts(dir)
	require.NoError(t, err)
	assert.Equal(t, map[catalog.Kind]string{
		catalog.KindEngines:         filepath.Join(dir, "engines.json"),
		catalog.KindEngineDependent: filepath.Join(dir, "a-tests-engine-dependent.json"),
	}, found)
}

func TestFindArtifacts_MissingDir(t *testing.T) {
	_, err := FindArtifacts(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
