package fileops

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCopyFile_CreatesParentsAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.bpmn")
	dst := filepath.Join(dir, "files", "x", "1", "a.bpmn")
	writeFile(t, src, "new")
	writeFile(t, dst, "old content that is longer")

	require.NoError(t, CopyFile(src, dst))
	assert.Equal(t, "new", readFile(t, dst))
	assert.Equal(t, "new", readFile(t, src), "source is left in place")
}

func TestCopyFile_SamePathIsNoop(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	writeFile(t, src, "keep")

	require.NoError(t, CopyFile(src, filepath.Join(dir, ".", "a.txt")))
	assert.Equal(t, "keep", readFile(t, src))
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.False(t, Exists(filepath.Join(dir, "out")))
}

func TestCopyFile_DirectorySource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(dir, filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestPool_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	var jobs []Job
	for _, name := range []string{"a", "b", "c"} {
		src := filepath.Join(dir, "src", name)
		writeFile(t, src, name)
		jobs = append(jobs, Job{Src: src, Dst: filepath.Join(dir, "dst", name)})
	}
	jobs = append(jobs, Job{Src: filepath.Join(dir, "src", "missing"), Dst: filepath.Join(dir, "dst", "missing")})

	var seen atomic.Int32
	pool := NewPool(2, func(Result) { seen.Add(1) })
	results := pool.Run(context.Background(), jobs)

	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, jobs[i], r.Job, "results keep job order")
	}
	failed := Failed(results)
	require.Len(t, failed, 1)
	assert.Equal(t, jobs[3], failed[0].Job)
	assert.Equal(t, int32(4), seen.Load())

	for _, name := range []string{"a", "b", "c"} {
		assert.Equal(t, name, readFile(t, filepath.Join(dir, "dst", name)))
	}
}

func TestPool_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	writeFile(t, src, "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewPool(0, nil).Run(ctx, []Job{{Src: src, Dst: filepath.Join(dir, "b")}})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.False(t, Exists(filepath.Join(dir, "b")))
}

func TestPool_NoJobs(t *testing.T) {
	results := NewPool(4, nil).Run(context.Background(), nil)
	assert.Empty(t, results)
}

func TestTreeJobs_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "run1", "files")
	dst := filepath.Join(dir, "files")
	writeFile(t, filepath.Join(src, "logs", "e1", "1", "x.log"), "x")
	writeFile(t, filepath.Join(src, "engineDependent", "e1", "1", "a.bpmn"), "a")
	writeFile(t, filepath.Join(dst, "logs", "e1", "1", "x.log"), "existing")

	jobs, err := TreeJobs(src, dst, false)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, filepath.Join(dst, "engineDependent", "e1", "1", "a.bpmn"), jobs[0].Dst)

	jobs, err = TreeJobs(src, dst, true)
	require.NoError(t, err)
	var dsts []string
	for _, j := range jobs {
		dsts = append(dsts, j.Dst)
	}
	sort.Strings(dsts)
	assert.Equal(t, []string{
		filepath.Join(dst, "engineDependent", "e1", "1", "a.bpmn"),
		filepath.Join(dst, "logs", "e1", "1", "x.log"),
	}, dsts)
}

func TestTreeJobs_MissingSource(t *testing.T) {
	jobs, err := TreeJobs(filepath.Join(t.TempDir(), "absent"), t.TempDir(), false)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
