package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	invalidRootMessageConstant          = "root is not an existing directory"
	invalidRootErrorTemplateConstant    = "%w: %s"
	rootInspectionErrorTemplateConstant = "unable to inspect root %s: %w"
	directoryListWarningMessageConstant = "unable to list directory"
	logFieldDirectoryPathConstant       = "directory"
	walkFailureErrorTemplateConstant    = "walk of %s failed: %w"
	emptyRootMessageConstant            = "root path must not be empty"
)

// ErrInvalidRoot reports a root argument that does not name an existing directory.
var ErrInvalidRoot = errors.New(invalidRootMessageConstant)

// Options controls which files a traversal yields.
type Options struct {
	// ExcludedDirectoryNames prunes any directory whose base name matches; its subtree is never visited.
	ExcludedDirectoryNames []string
	// ExcludedFileNames skips files with these exact base names wherever they occur.
	ExcludedFileNames []string
	// IncludedSuffixes, when non-empty, restricts results to filenames carrying one of the suffixes.
	IncludedSuffixes []string
}

// Walker enumerates regular files beneath a root directory.
type Walker struct {
	logger *zap.Logger
}

// NewWalker constructs a Walker that reports traversal warnings through the provided logger.
func NewWalker(logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{logger: logger}
}

// Walk traverses the subtree under rootPath and returns the matching file paths in visit order.
//
// The traversal is read-only and re-walks from scratch on every call; callers
// must not depend on ordering beyond every matching file being visited once.
func (walker *Walker) Walk(rootPath string, options Options) ([]string, error) {
	if len(strings.TrimSpace(rootPath)) == 0 {
		return nil, fmt.Errorf(invalidRootErrorTemplateConstant, ErrInvalidRoot, emptyRootMessageConstant)
	}

	rootInfo, statError := os.Stat(rootPath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return nil, fmt.Errorf(invalidRootErrorTemplateConstant, ErrInvalidRoot, rootPath)
		}
		return nil, fmt.Errorf(rootInspectionErrorTemplateConstant, rootPath, statError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(invalidRootErrorTemplateConstant, ErrInvalidRoot, rootPath)
	}

	excludedDirectories := buildNameSet(options.ExcludedDirectoryNames)
	excludedFiles := buildNameSet(options.ExcludedFileNames)

	var discoveredFiles []string
	walkError := filepath.WalkDir(rootPath, func(entryPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			walker.logger.Warn(
				directoryListWarningMessageConstant,
				zap.String(logFieldDirectoryPathConstant, entryPath),
				zap.Error(entryError),
			)
			if directoryEntry != nil && directoryEntry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		entryName := directoryEntry.Name()

		if directoryEntry.IsDir() {
			if entryPath == rootPath {
				return nil
			}
			if _, excluded := excludedDirectories[entryName]; excluded {
				return fs.SkipDir
			}
			return nil
		}

		if !directoryEntry.Type().IsRegular() {
			return nil
		}

		if _, excluded := excludedFiles[entryName]; excluded {
			return nil
		}

		if !matchesSuffix(entryName, options.IncludedSuffixes) {
			return nil
		}

		discoveredFiles = append(discoveredFiles, entryPath)
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(walkFailureErrorTemplateConstant, rootPath, walkError)
	}

	return discoveredFiles, nil
}

func buildNameSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	nameSet := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		if len(trimmedName) == 0 {
			continue
		}
		nameSet[trimmedName] = struct{}{}
	}
	return nameSet
}

func matchesSuffix(fileName string, includedSuffixes []string) bool {
	if len(includedSuffixes) == 0 {
		return true
	}
	for _, suffix := range includedSuffixes {
		if len(suffix) == 0 {
			continue
		}
		if strings.HasSuffix(fileName, suffix) {
			return true
		}
	}
	return false
}
