package shellaudit

import (
	"strings"
	"time"
)

const (
	scriptSuffixConfigurationKeyConstant        = "script_suffix"
	lintToolConfigurationKeyConstant            = "lint_tool"
	excludedDirectoriesConfigurationKeyConstant = "excluded_directories"
	toolTimeoutSecondsConfigurationKeyConstant  = "tool_timeout_seconds"
	defaultScriptSuffixConstant                 = ".sh"
	defaultLintToolNameConstant                 = "shellcheck"
	defaultExcludedDirectoryConstant            = ".git"
	defaultToolTimeoutSecondsConstant           = 0
	configurationKeySeparatorConstant           = "."
)

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	ScriptSuffix        string   `mapstructure:"script_suffix"`
	LintToolName        string   `mapstructure:"lint_tool"`
	ExcludedDirectories []string `mapstructure:"excluded_directories"`
	ToolTimeoutSeconds  int      `mapstructure:"tool_timeout_seconds"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ScriptSuffix:        defaultScriptSuffixConstant,
		LintToolName:        defaultLintToolNameConstant,
		ExcludedDirectories: []string{defaultExcludedDirectoryConstant},
		ToolTimeoutSeconds:  defaultToolTimeoutSecondsConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the audit command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + scriptSuffixConfigurationKeyConstant:        defaults.ScriptSuffix,
		rootKey + configurationKeySeparatorConstant + lintToolConfigurationKeyConstant:            defaults.LintToolName,
		rootKey + configurationKeySeparatorConstant + excludedDirectoriesConfigurationKeyConstant: defaults.ExcludedDirectories,
		rootKey + configurationKeySeparatorConstant + toolTimeoutSecondsConfigurationKeyConstant:  defaults.ToolTimeoutSeconds,
	}
}

// Sanitize trims configured values and restores defaults for unset entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ScriptSuffix = strings.TrimSpace(configuration.ScriptSuffix)
	if len(sanitized.ScriptSuffix) == 0 {
		sanitized.ScriptSuffix = defaultScriptSuffixConstant
	}
	sanitized.LintToolName = strings.TrimSpace(configuration.LintToolName)
	if len(sanitized.LintToolName) == 0 {
		sanitized.LintToolName = defaultLintToolNameConstant
	}
	sanitized.ExcludedDirectories = trimNames(configuration.ExcludedDirectories)
	if len(sanitized.ExcludedDirectories) == 0 {
		sanitized.ExcludedDirectories = append([]string{}, defaultExcludedDirectoryConstant)
	}
	if sanitized.ToolTimeoutSeconds < 0 {
		sanitized.ToolTimeoutSeconds = defaultToolTimeoutSecondsConstant
	}
	return sanitized
}

// toolTimeout converts the configured timeout seconds to a duration.
func (configuration CommandConfiguration) toolTimeout() time.Duration {
	if configuration.ToolTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(configuration.ToolTimeoutSeconds) * time.Second
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
