package diagram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dusk-indust/catmerge/internal/logging"
)

const (
	// SourceExt is the extension of diagram sources that get rendered.
	SourceExt = ".bpmn"

	// DefaultImageExt is appended to a source path to name its image.
	DefaultImageExt = ".png"
)

// IsSource reports whether path names a diagram source.
func IsSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SourceExt)
}

// Renderer renders every diagram source in a directory, leaving
// <source><image ext> files next to them.
type Renderer interface {
	Render(ctx context.Context, dir string) error
}

// Compile-time checks.
var (
	_ Renderer = (*CommandRenderer)(nil)
	_ Renderer = Nop{}
)

// CommandRenderer runs an external program with the directory appended as
// its last argument.
type CommandRenderer struct {
	Command string
	Args    []string
}

// Render runs the command and returns its combined output on failure.
func (r *CommandRenderer) Render(ctx context.Context, dir string) error {
	args := append(append([]string{}, r.Args...), dir)
	cmd := exec.CommandContext(ctx, r.Command, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", r.Command, dir, err, strings.TrimSpace(out.String()))
	}
	return nil
}

// Nop renders nothing.
type Nop struct{}

func (Nop) Render(context.Context, string) error { return nil }

// Once renders each directory at most once per run. Render failures are
// logged and swallowed; the derived image reference is registered
// regardless.
type Once struct {
	r    Renderer
	mu   sync.Mutex
	done map[string]bool
	log  *slog.Logger
}

// NewOnce wraps r. A nil r renders nothing.
func NewOnce(r Renderer) *Once {
	if r == nil {
		r = Nop{}
	}
	return &Once{
		r:    r,
		done: make(map[string]bool),
		log:  logging.New("diagram"),
	}
}

// Ensure renders dir unless it was rendered before.
func (o *Once) Ensure(ctx context.Context, dir string) {
	dir = filepath.Clean(dir)

	o.mu.Lock()
	if o.done[dir] {
		o.mu.Unlock()
		return
	}
	o.done[dir] = true
	o.mu.Unlock()

	if err := o.r.Render(ctx, dir); err != nil {
		o.log.Warn("diagram rendering failed", "dir", dir, "error", err)
		return
	}
	o.log.Debug("diagrams rendered", "dir", dir)
}
