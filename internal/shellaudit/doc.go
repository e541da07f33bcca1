// Package shellaudit lints shell scripts discovered beneath a root
// directory. When the configured external lint tool is on the search path
// it is invoked per file with its streams and exit status captured;
// otherwise a small heuristic check set (shebang presence and interpreter,
// execute permission) stands in. Findings are reported per file and never
// influence the process exit status.
package shellaudit
