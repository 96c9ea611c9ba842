package mcptools

// --- MCP Tool Types for the serve-mcp mode ---
// These tools let an agent merge, remap and check catalog artifacts without
// shelling out to the CLI.

// MergeArtifactsInput is the input for the merge_artifacts MCP tool.
type MergeArtifactsInput struct {
	Older  string `json:"older" jsonschema:"older artifact file or catalog directory"`
	Newer  string `json:"newer" jsonschema:"newer artifact file or catalog directory; its records win"`
	Target string `json:"target,omitempty" jsonschema:"directory for merged-<name> output (default: older directory)"`
}

// MergeArtifactsOutput is the result of the merge_artifacts MCP tool.
type MergeArtifactsOutput struct {
	Artifacts []ArtifactSummary `json:"artifacts"`
	Status    string            `json:"status"` // "completed" or "failed"
	Message   string            `json:"message,omitempty"`
}

// ArtifactSummary is the audit trail of one merged artifact.
type ArtifactSummary struct {
	Kind         string   `json:"kind"`
	Output       string   `json:"output"`
	Replaced     []string `json:"replaced"`
	Added        []string `json:"added"`
	Merged       []string `json:"merged"`
	FailedCopies int      `json:"failedCopies"`
}

// MergeRunsInput is the input for the merge_runs MCP tool.
type MergeRunsInput struct {
	Root string `json:"root" jsonschema:"directory whose subdirectories are test runs"`
}

// MergeRunsOutput is the result of the merge_runs MCP tool.
type MergeRunsOutput struct {
	Output  string   `json:"output"`
	Runs    []string `json:"runs"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
	Records int      `json:"records"`
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
}

// RemapFilesInput is the input for the remap_files MCP tool.
type RemapFilesInput struct {
	Path string `json:"path" jsonschema:"tests-engine-dependent.json or tests-engine-independent.json to remap in place"`
}

// RemapFilesOutput is the result of the remap_files MCP tool.
type RemapFilesOutput struct {
	Path    string   `json:"path"`
	Kind    string   `json:"kind"`
	Skipped bool     `json:"skipped"`
	Records int      `json:"records"`
	Copied  int      `json:"copied"`
	Failed  []string `json:"failed"`
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
}

// CheckIntegrityInput is the input for the check_integrity MCP tool.
type CheckIntegrityInput struct {
	Dir string `json:"dir" jsonschema:"directory holding the four catalog artifacts"`
}

// CheckIntegrityOutput is the result of the check_integrity MCP tool.
type CheckIntegrityOutput struct {
	Problems int             `json:"problems"`
	Reports  []ReportSummary `json:"reports"`
	Status   string          `json:"status"`
	Message  string          `json:"message,omitempty"`
}

// ReportSummary is one integrity report.
type ReportSummary struct {
	File     string   `json:"file"`
	Findings []string `json:"findings"`
	Summary  string   `json:"summary"`
}
