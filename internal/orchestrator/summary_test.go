package orchestrator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dusk-indust/catmerge/internal/catalog"
	"github.com/dusk-indust/catmerge/internal/fileops"
	"github.com/dusk-indust/catmerge/internal/merge"
)

func TestFormatSummary(t *testing.T) {
	out := Outcome{
		Kind:       catalog.KindEngineDependent,
		Output:     "/data/merged-tests-engine-dependent.json",
		OlderCount: 2,
		NewerCount: 1,
		Written:    2,
		Report: merge.Report{
			Added:    []string{"f2 of e1"},
			Replaced: []string{"f1 of e1"},
		},
		Copies: []fileops.Result{
			{Job: fileops.Job{Src: "/new/a.bpel", Dst: "/data/a.bpel"}},
			{Job: fileops.Job{Src: "/new/b.bpel", Dst: "/data/b.bpel"}, Err: errors.New("no such file")},
		},
	}

	want := "engine-dependent: read 2 old, 1 new, wrote 2 to /data/merged-tests-engine-dependent.json\n" +
		"------------------\n" +
		"Replaced 1 objects:\n" +
		"f1 of e1\n" +
		"------------------\n" +
		"Added 1 objects:\n" +
		"f2 of e1\n" +
		"------------------\n" +
		"Failed 1 copies:\n" +
		"/new/b.bpel: no such file\n"
	assert.Equal(t, want, FormatSummary(out))
}

func TestFormatSummary_TreeListsMergedNodes(t *testing.T) {
	out := Outcome{
		Kind:   catalog.KindFeatureTree,
		Output: "merged-feature-tree.json",
		Report: merge.Report{Merged: []string{"bpmn/xml", "bpmn"}},
	}

	got := FormatSummary(out)
	assert.Contains(t, got, "Replaced 0 objects:\n------------------\nAdded 0 objects:\n")
	assert.Contains(t, got, "Merged 2 nodes:\nbpmn/xml\nbpmn\n")
	assert.NotContains(t, got, "Failed")
}

func TestFormatRunsSummary(t *testing.T) {
	out := &RunsOutcome{
		Output:  "/runs/tests-engine-dependent.json",
		Runs:    []string{"/runs/a", "/runs/b"},
		Skipped: []string{"/runs/c"},
		Records: 5,
	}

	want := "Wrote 5 engine-dependent tests from 2 runs to /runs/tests-engine-dependent.json\n" +
		"------------------\n" +
		"Skipped because no tests-engine-dependent.json exists:\n" +
		"/runs/c\n"
	assert.Equal(t, want, FormatRunsSummary(out))
}
