// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with zap lifecycle logging via ShellExecutor, exposes
// OSCommandRunner for default process execution, and defines the ToolLocator
// probe used to detect external lint executables once per run. Non-zero exit
// codes are captured as results rather than raised as errors; only failures
// to execute a process at all surface as CommandExecutionError.
package execshell
