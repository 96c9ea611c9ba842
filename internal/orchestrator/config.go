package orchestrator

import "github.com/dusk-indust/catmerge/internal/diagram"

// Options holds runtime configuration for a merge run.
type Options struct {
	// Target overrides the directory merged artifacts are written to.
	// Empty means the older directory in directory mode and the older
	// file's directory otherwise.
	Target string

	// KeepBackup writes orig-<name> before an artifact is remapped.
	KeepBackup bool

	// Workers bounds concurrent file copies and concurrently loaded runs.
	Workers int

	// ImageExt names rendered diagram images. Empty means ".png".
	ImageExt string

	// Renderer renders diagram sources during remap; it may be nil.
	Renderer diagram.Renderer

	// PreferNewerShell keeps the newer node's fields when a tree node is
	// present on both sides.
	PreferNewerShell bool

	// OnProgress is called as each artifact or run starts and finishes,
	// concurrently while runs load. It may be nil.
	OnProgress func(ProgressEvent)
}
