package mcptools

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/catmerge/internal/integrity"
	"github.com/dusk-indust/catmerge/internal/orchestrator"
)

const (
	statusCompleted = "completed"
	statusFailed    = "failed"
)

// CatalogService handles MCP tool calls. Every call builds its own
// orchestrator.Merger from the base options, so calls never share audit
// state.
type CatalogService struct {
	opts    orchestrator.Options
	checker *integrity.Checker
}

// NewCatalogService creates a CatalogService. opts.Target and
// opts.OnProgress are ignored; the target comes from each call.
func NewCatalogService(opts orchestrator.Options) *CatalogService {
	opts.Target = ""
	opts.OnProgress = nil
	return &CatalogService{opts: opts, checker: integrity.NewChecker()}
}

// MergeArtifacts merges two artifacts or two catalog directories.
func (s *CatalogService) MergeArtifacts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MergeArtifactsInput,
) (*mcp.CallToolResult, MergeArtifactsOutput, error) {
	if input.Older == "" || input.Newer == "" {
		return nil, MergeArtifactsOutput{}, errors.New("older and newer are required")
	}
	if err := requireExisting(input.Older, input.Newer); err != nil {
		return nil, MergeArtifactsOutput{}, err
	}

	opts := s.opts
	opts.Target = input.Target
	outcomes, err := orchestrator.NewMerger(opts).Merge(ctx, input.Older, input.Newer)

	out := MergeArtifactsOutput{Artifacts: make([]ArtifactSummary, 0, len(outcomes)), Status: statusCompleted}
	for _, o := range outcomes {
		out.Artifacts = append(out.Artifacts, ArtifactSummary{
			Kind:         o.Kind.String(),
			Output:       o.Output,
			Replaced:     orEmpty(o.Report.Replaced),
			Added:        orEmpty(o.Report.Added),
			Merged:       orEmpty(o.Report.Merged),
			FailedCopies: len(o.Failed()),
		})
	}
	if err != nil {
		out.Status, out.Message = statusFailed, err.Error()
	}
	return nil, out, nil
}

// MergeRuns concatenates the engine-dependent tests of several runs.
func (s *CatalogService) MergeRuns(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MergeRunsInput,
) (*mcp.CallToolResult, MergeRunsOutput, error) {
	if input.Root == "" {
		return nil, MergeRunsOutput{}, errors.New("root is required")
	}
	if err := requireExisting(input.Root); err != nil {
		return nil, MergeRunsOutput{}, err
	}

	res, err := orchestrator.NewMerger(s.opts).MergeRuns(ctx, input.Root)
	out := MergeRunsOutput{Runs: []string{}, Skipped: []string{}, Failed: []string{}, Status: statusCompleted}
	if res != nil {
		out.Output = res.Output
		out.Runs = orEmpty(res.Runs)
		out.Skipped = orEmpty(res.Skipped)
		out.Failed = orEmpty(res.Failed)
		out.Records = res.Records
	}
	if err != nil {
		out.Status, out.Message = statusFailed, err.Error()
	}
	return nil, out, nil
}

// RemapFiles moves the files referenced by one artifact into the canonical
// layout.
func (s *CatalogService) RemapFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemapFilesInput,
) (*mcp.CallToolResult, RemapFilesOutput, error) {
	if input.Path == "" {
		return nil, RemapFilesOutput{}, errors.New("path is required")
	}
	if err := requireExisting(input.Path); err != nil {
		return nil, RemapFilesOutput{}, err
	}

	res, err := orchestrator.NewMerger(s.opts).Remapper().Remap(ctx, input.Path)
	if err != nil {
		return nil, RemapFilesOutput{
			Path:    input.Path,
			Failed:  []string{},
			Status:  statusFailed,
			Message: err.Error(),
		}, nil
	}

	out := RemapFilesOutput{
		Path:    res.Path,
		Kind:    res.Kind.String(),
		Skipped: res.Skipped,
		Records: res.Records,
		Failed:  []string{},
		Status:  statusCompleted,
	}
	failed := res.Failed()
	out.Copied = len(res.Copies) - len(failed)
	for _, f := range failed {
		out.Failed = append(out.Failed, fmt.Sprintf("%s: %v", f.Src, f.Err))
	}
	return nil, out, nil
}

// CheckIntegrity cross-checks the artifacts of a directory and writes the
// text reports next to them.
func (s *CatalogService) CheckIntegrity(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CheckIntegrityInput,
) (*mcp.CallToolResult, CheckIntegrityOutput, error) {
	if input.Dir == "" {
		return nil, CheckIntegrityOutput{}, errors.New("dir is required")
	}
	if err := requireExisting(input.Dir); err != nil {
		return nil, CheckIntegrityOutput{}, err
	}

	rep, err := s.checker.Run(input.Dir)
	if err != nil {
		return nil, CheckIntegrityOutput{
			Reports: []ReportSummary{},
			Status:  statusFailed,
			Message: err.Error(),
		}, nil
	}

	out := CheckIntegrityOutput{
		Problems: rep.Problems(),
		Reports:  make([]ReportSummary, 0, len(rep.Results)),
		Status:   statusCompleted,
	}
	for _, r := range rep.Results {
		out.Reports = append(out.Reports, ReportSummary{
			File:     r.File,
			Findings: orEmpty(r.Findings),
			Summary:  r.Summary,
		})
	}
	return nil, out, nil
}

// requireExisting rejects input paths that do not exist. Such calls are
// tool errors rather than failed operations.
func requireExisting(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("invalid input: %w", err)
		}
	}
	return nil
}

func orEmpty(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
