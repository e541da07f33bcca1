package workflow

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treelint/internal/execshell"
	"github.com/temirov/treelint/internal/fsops"
	"github.com/temirov/treelint/internal/normalize"
	"github.com/temirov/treelint/internal/shellaudit"
	"github.com/temirov/treelint/internal/utils"
)

const (
	commandUseConstant              = "workflow"
	commandShortDescriptionConstant = "Run ordered normalize and audit steps from a YAML plan"
	commandLongDescriptionConstant  = "workflow loads a YAML plan describing ordered normalize-endings and audit-shell " +
		"steps and runs each step with the shared defaults, stopping at the first step whose root is invalid."
	configurationFileFlagNameConstant        = "file"
	configurationFileFlagDescriptionConstant = "path to the workflow plan file"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// HumanReadableLoggingProvider reports whether console-friendly logging is enabled.
type HumanReadableLoggingProvider func() bool

// NormalizeDefaultsProvider supplies the persisted normalize configuration.
type NormalizeDefaultsProvider func() normalize.CommandConfiguration

// AuditDefaultsProvider supplies the persisted audit configuration.
type AuditDefaultsProvider func() shellaudit.CommandConfiguration

// CommandBuilder assembles the workflow cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	NormalizeDefaultsProvider    NormalizeDefaultsProvider
	AuditDefaultsProvider        AuditDefaultsProvider
	Walker                       TreeWalker
	FileSystem                   fsops.FileSystem
	ToolLocator                  execshell.ToolLocator
	ShellExecutor                shellaudit.CommandExecutor
}

// Build constructs the cobra command for the workflow runner.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(configurationFileFlagNameConstant, "", configurationFileFlagDescriptionConstant)
	if markError := command.MarkFlagRequired(configurationFileFlagNameConstant); markError != nil {
		return nil, markError
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configurationFilePath, flagError := command.Flags().GetString(configurationFileFlagNameConstant)
	if flagError != nil {
		return flagError
	}

	configuration, loadError := LoadConfiguration(configurationFilePath)
	if loadError != nil {
		return loadError
	}

	logger := builder.resolveLogger()

	shellExecutor, executorError := builder.resolveShellExecutor(logger)
	if executorError != nil {
		return executorError
	}

	executor := NewExecutor(
		Dependencies{
			Logger:        logger,
			OutputWriter:  utils.NewFlushingWriter(command.OutOrStdout()),
			ErrorWriter:   utils.NewFlushingWriter(command.ErrOrStderr()),
			Walker:        builder.Walker,
			FileSystem:    builder.FileSystem,
			ToolLocator:   builder.ToolLocator,
			ShellExecutor: shellExecutor,
		},
		Defaults{
			Normalize: builder.resolveNormalizeDefaults(),
			Audit:     builder.resolveAuditDefaults(),
		},
	)

	return executor.Execute(command.Context(), configuration)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveShellExecutor(logger *zap.Logger) (shellaudit.CommandExecutor, error) {
	if builder.ShellExecutor != nil {
		return builder.ShellExecutor, nil
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), builder.humanReadableLoggingEnabled())
}

func (builder *CommandBuilder) resolveNormalizeDefaults() normalize.CommandConfiguration {
	if builder.NormalizeDefaultsProvider == nil {
		return normalize.DefaultCommandConfiguration()
	}
	return builder.NormalizeDefaultsProvider().Sanitize()
}

func (builder *CommandBuilder) resolveAuditDefaults() shellaudit.CommandConfiguration {
	if builder.AuditDefaultsProvider == nil {
		return shellaudit.DefaultCommandConfiguration()
	}
	return builder.AuditDefaultsProvider().Sanitize()
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}
