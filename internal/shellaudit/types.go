package shellaudit

import "time"

// CheckStatus classifies the outcome of auditing a single file.
type CheckStatus string

// Supported check statuses.
const (
	CheckStatusClean           CheckStatus = "clean"
	CheckStatusToolIssues      CheckStatus = "tool_issues"
	CheckStatusHeuristicIssues CheckStatus = "heuristic_issues"
	CheckStatusUnreadable      CheckStatus = "unreadable"
)

// CheckOutcome captures the per-file audit result before rendering.
type CheckOutcome struct {
	FilePath string
	Status   CheckStatus
	Findings []string
}

// CommandOptions captures the parameters of a single auditor run.
type CommandOptions struct {
	Root                string
	ScriptSuffix        string
	LintToolName        string
	ExcludedDirectories []string
	ToolTimeout         time.Duration
}
