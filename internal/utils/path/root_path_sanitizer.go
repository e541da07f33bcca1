package pathutils

import (
	"path/filepath"
	"strings"
)

// RootPathSanitizer normalizes root directory arguments consistently across commands.
type RootPathSanitizer struct {
	homeExpander *HomeExpander
}

// NewRootPathSanitizer constructs a RootPathSanitizer with default behavior.
func NewRootPathSanitizer() *RootPathSanitizer {
	return NewRootPathSanitizerWithExpander(nil)
}

// NewRootPathSanitizerWithExpander constructs a RootPathSanitizer using the provided expander.
func NewRootPathSanitizerWithExpander(homeExpander *HomeExpander) *RootPathSanitizer {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}
	return &RootPathSanitizer{homeExpander: resolvedExpander}
}

// Sanitize trims whitespace, expands the user's home directory, and cleans the path.
func (sanitizer *RootPathSanitizer) Sanitize(candidatePath string) string {
	trimmedCandidate := strings.TrimSpace(candidatePath)
	if len(trimmedCandidate) == 0 {
		return ""
	}

	expander := sanitizer.resolveExpander()
	expandedPath := expander.Expand(trimmedCandidate)
	if len(expandedPath) == 0 {
		return ""
	}

	return filepath.Clean(expandedPath)
}

func (sanitizer *RootPathSanitizer) resolveExpander() *HomeExpander {
	if sanitizer == nil || sanitizer.homeExpander == nil {
		return NewHomeExpander()
	}
	return sanitizer.homeExpander
}
