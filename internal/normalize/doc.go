// Package normalize rewrites CRLF line endings to LF across a directory
// tree, skipping version-control metadata directories and line-ending
// policy exception files. Files are rewritten in place only when their
// content actually changes, so repeated runs are no-ops.
package normalize
