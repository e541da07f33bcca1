package execshell

import "os/exec"

// ToolLocator probes the execution environment for an external executable.
type ToolLocator interface {
	LocateTool(toolName string) (string, error)
}

// OSToolLocator resolves executables through the system command search path.
type OSToolLocator struct{}

// NewOSToolLocator constructs an OSToolLocator instance.
func NewOSToolLocator() OSToolLocator {
	return OSToolLocator{}
}

// LocateTool returns the resolved executable path or the lookup error.
func (OSToolLocator) LocateTool(toolName string) (string, error) {
	return exec.LookPath(toolName)
}
