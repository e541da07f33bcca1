package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	homeShortcutConstant       = "~"
	homeShortcutPrefixConstant = "~/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites leading home-directory shortcuts in path arguments.
// The home directory is resolved at most once per expander instance.
type HomeExpander struct {
	provider    HomeDirectoryProvider
	resolveOnce sync.Once
	homePath    string
}

// NewHomeExpander constructs a HomeExpander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{provider: provider}
}

// Expand resolves a leading "~" or "~/" to the user's home directory. Paths
// without the shortcut, and shortcuts that cannot be resolved, pass through
// unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, homeShortcutConstant) {
		return candidatePath
	}

	homePath := expander.homeDirectory()
	if len(homePath) == 0 {
		return candidatePath
	}

	if candidatePath == homeShortcutConstant {
		return homePath
	}
	if relativePath, hasShortcut := strings.CutPrefix(candidatePath, homeShortcutPrefixConstant); hasShortcut {
		return filepath.Join(homePath, relativePath)
	}
	return candidatePath
}

func (expander *HomeExpander) homeDirectory() string {
	expander.resolveOnce.Do(func() {
		resolvedPath, resolveError := expander.provider()
		if resolveError == nil {
			expander.homePath = resolvedPath
		}
	})
	return expander.homePath
}
