package orchestrator

import "fmt"

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.ch <- event:
	default:
	}
}

// Send delivers a progress event, waiting for the subscriber when the
// buffer is full. It must not be called after Close or without a
// subscriber draining the channel.
func (pr *ProgressReporter) Send(event ProgressEvent) {
	pr.ch <- event
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ %s (pending)", event.Artifact)
	case ProgressWorking:
		if event.Message != "" {
			return fmt.Sprintf("  ● %s (%s)...", event.Artifact, event.Message)
		}
		return fmt.Sprintf("  ● %s...", event.Artifact)
	case ProgressComplete:
		return fmt.Sprintf("  ✓ %s complete", event.Artifact)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ %s failed: %s", event.Artifact, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.Artifact)
	}
}

// FormatHeader formats a merge header for display.
// Returns: "[{older} <- {newer}] {mode}"
func FormatHeader(plan Plan) string {
	mode := plan.Kind.String()
	if plan.Directory {
		mode = "directories"
	}
	return fmt.Sprintf("[%s <- %s] %s", plan.Older, plan.Newer, mode)
}
