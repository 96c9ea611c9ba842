//go:build e2e

package e2e

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/catmerge/internal/catalog"
	"github.com/dusk-indust/catmerge/internal/integrity"
)

var update = flag.Bool("update", false, "update golden files")

// goldenDir returns the path to the testdata/golden directory.
func goldenDir() string {
	return filepath.Join("..", "..", "testdata", "golden")
}

// goldenFiles are the pipeline outputs kept under testdata/golden. The
// feature tree is left out; its node order is covered by the merge tests.
var goldenFiles = []string{
	catalog.KindEngines.Filename(),
	catalog.KindEngineDependent.Filename(),
	catalog.KindEngineIndependent.Filename(),
	integrity.EnginesReport,
	integrity.FeatureTreeReport,
	integrity.IndependentReport,
	integrity.DependentDuplicateReport,
	integrity.DependentReport,
	integrity.FilesReport,
}

// TestGolden compares the merged artifacts and integrity reports against
// golden files. If a golden file does not exist, the subtest is skipped
// with a message to run with -update.
func TestGolden(t *testing.T) {
	run := runPipeline(t)
	gDir := goldenDir()

	for _, name := range goldenFiles {
		t.Run(name, func(t *testing.T) {
			golden, err := os.ReadFile(filepath.Join(gDir, name))
			if os.IsNotExist(err) {
				t.Skipf("golden file %s not found; run with -update to generate", name)
				return
			}
			require.NoError(t, err)

			actual, err := os.ReadFile(filepath.Join(run.dir, name))
			require.NoError(t, err)

			if strings.HasSuffix(name, ".json") {
				assert.JSONEq(t, string(golden), string(actual), "%s does not match golden file", name)
				return
			}
			assert.Equal(t, string(golden), string(actual), "%s does not match golden file", name)
		})
	}
}

// TestUpdateGolden regenerates golden files from the current pipeline output.
// Run with: go test -tags e2e -run TestUpdateGolden ./internal/e2e/ -update
func TestUpdateGolden(t *testing.T) {
	if !*update {
		t.Skip("skipping golden file update; run with -update flag")
	}

	run := runPipeline(t)
	gDir := goldenDir()
	require.NoError(t, os.MkdirAll(gDir, 0o755))

	for _, name := range goldenFiles {
		data, err := os.ReadFile(filepath.Join(run.dir, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(gDir, name), data, 0o644))
		t.Logf("updated %s", name)
	}
}
