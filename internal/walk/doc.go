// Package walk provides the filtered directory traversal shared by the
// normalize and audit commands.
//
// A Walker enumerates regular files under a root while pruning excluded
// directory names, skipping excluded exact filenames, and optionally
// restricting results to filename suffixes. Directories that cannot be
// listed are surfaced as warnings instead of aborting the traversal.
package walk
