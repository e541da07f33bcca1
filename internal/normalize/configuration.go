package normalize

import "strings"

const (
	excludedDirectoriesConfigurationKeyConstant = "excluded_directories"
	exceptionFilesConfigurationKeyConstant      = "exception_files"
	defaultGitMetadataDirectoryConstant         = ".git"
	defaultGithubMetadataDirectoryConstant      = ".github"
	defaultExceptionFileConstant                = ".gitattributes"
	configurationKeySeparatorConstant           = "."
)

func defaultExcludedDirectoryNames() []string {
	return []string{defaultGitMetadataDirectoryConstant, defaultGithubMetadataDirectoryConstant}
}

// CommandConfiguration captures persistent settings for the normalize command.
type CommandConfiguration struct {
	ExcludedDirectories []string `mapstructure:"excluded_directories"`
	ExceptionFiles      []string `mapstructure:"exception_files"`
}

// DefaultCommandConfiguration returns baseline configuration values for the normalize command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ExcludedDirectories: defaultExcludedDirectoryNames(),
		ExceptionFiles:      []string{defaultExceptionFileConstant},
	}
}

// DefaultConfigurationValues produces Viper defaults for the normalize command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + excludedDirectoriesConfigurationKeyConstant: defaults.ExcludedDirectories,
		rootKey + configurationKeySeparatorConstant + exceptionFilesConfigurationKeyConstant:      defaults.ExceptionFiles,
	}
}

// Sanitize trims configured values and restores defaults for unset entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ExcludedDirectories = trimNames(configuration.ExcludedDirectories)
	sanitized.ExceptionFiles = trimNames(configuration.ExceptionFiles)
	if len(sanitized.ExcludedDirectories) == 0 {
		sanitized.ExcludedDirectories = defaultExcludedDirectoryNames()
	}
	if len(sanitized.ExceptionFiles) == 0 {
		sanitized.ExceptionFiles = append([]string{}, defaultExceptionFileConstant)
	}
	return sanitized
}

func trimNames(raw []string) []string {
	trimmed := make([]string, 0, len(raw))
	for _, candidate := range raw {
		value := strings.TrimSpace(candidate)
		if len(value) == 0 {
			continue
		}
		trimmed = append(trimmed, value)
	}
	if len(trimmed) == 0 {
		return nil
	}
	return trimmed
}
