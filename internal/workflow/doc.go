// Package workflow runs ordered normalize and audit steps defined in a
// YAML plan file, reusing the same services the standalone commands use.
package workflow
