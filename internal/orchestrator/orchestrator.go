package orchestrator

import (
	"errors"

	"github.com/dusk-indust/catmerge/internal/catalog"
	"github.com/dusk-indust/catmerge/internal/fileops"
	"github.com/dusk-indust/catmerge/internal/merge"
	"github.com/dusk-indust/catmerge/internal/remap"
)

// ErrUnclassified is returned when two paths are neither both directories
// nor both named after the same artifact.
var ErrUnclassified = errors.New("cannot classify artifact pair")

// OutputPrefix is prepended to the canonical artifact name of a merge result.
const OutputPrefix = "merged-"

// Plan describes how a pair of paths is merged.
type Plan struct {
	Older string
	Newer string

	// Directory is set when both paths are directories. Kind is then
	// KindUnknown and every artifact found on both sides is merged.
	Directory bool
	Kind      catalog.Kind

	// Target is the directory merged artifacts are written to.
	Target string
}

// Outcome holds the result of merging one artifact pair.
type Outcome struct {
	Kind   catalog.Kind
	Older  string
	Newer  string
	Output string // path of the merged artifact

	OlderCount int
	NewerCount int
	Written    int

	Report merge.Report

	// Remaps holds the remap of each side for artifacts with file
	// references, older first.
	Remaps []*remap.Result

	// Copies holds the transfers of referenced files into the target.
	Copies []fileops.Result
}

// Failed returns every copy of the outcome that did not succeed, including
// those made while remapping.
func (o *Outcome) Failed() []fileops.Result {
	var failed []fileops.Result
	for _, r := range o.Remaps {
		failed = append(failed, r.Failed()...)
	}
	return append(failed, fileops.Failed(o.Copies)...)
}

// ProgressEvent is emitted while artifacts or runs are merged.
type ProgressEvent struct {
	Artifact string
	Status   ProgressStatus
	Message  string
}

// ProgressStatus is the state of one artifact within a merge.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)
