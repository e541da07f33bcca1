// Package fsops defines the filesystem seam shared by the normalize and
// audit services so per-file reads and writes stay testable.
package fsops
