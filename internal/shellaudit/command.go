package shellaudit

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treelint/internal/execshell"
	"github.com/temirov/treelint/internal/fsops"
	"github.com/temirov/treelint/internal/utils"
	pathutils "github.com/temirov/treelint/internal/utils/path"
	"github.com/temirov/treelint/internal/walk"
)

const (
	commandUseConstant              = "audit <root>"
	commandShortDescriptionConstant = "Lint shell scripts discovered beneath a directory tree"
	commandLongDescriptionConstant  = "audit discovers files matching the configured shell script suffix and checks each " +
		"with the external lint tool when it is available, falling back to built-in shebang and " +
		"permission heuristics otherwise. Findings are informational; the exit status reflects only " +
		"argument validity."
	emptyRootArgumentTemplateConstant = "root argument must not be empty: %q"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the persisted audit configuration.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether console-friendly logging is enabled.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the audit cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Walker                       TreeWalker
	ToolLocator                  execshell.ToolLocator
	Executor                     CommandExecutor
	FileSystem                   fsops.FileSystem
}

// Build constructs the cobra command for the audit workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	sanitizedRoot := pathutils.NewRootPathSanitizer().Sanitize(arguments[0])
	if len(sanitizedRoot) == 0 {
		return fmt.Errorf(emptyRootArgumentTemplateConstant, arguments[0])
	}

	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service := NewService(
		builder.resolveWalker(logger),
		builder.resolveToolLocator(),
		executor,
		builder.resolveFileSystem(),
		logger,
		utils.NewFlushingWriter(command.OutOrStdout()),
	)

	options := CommandOptions{
		Root:                sanitizedRoot,
		ScriptSuffix:        configuration.ScriptSuffix,
		LintToolName:        configuration.LintToolName,
		ExcludedDirectories: configuration.ExcludedDirectories,
		ToolTimeout:         configuration.toolTimeout(),
	}

	return service.Run(command.Context(), options)
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

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveWalker(logger *zap.Logger) TreeWalker {
	if builder.Walker != nil {
		return builder.Walker
	}
	return walk.NewWalker(logger)
}

func (builder *CommandBuilder) resolveToolLocator() execshell.ToolLocator {
	if builder.ToolLocator != nil {
		return builder.ToolLocator
	}
	return execshell.NewOSToolLocator()
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), builder.humanReadableLoggingEnabled())
}

func (builder *CommandBuilder) resolveFileSystem() fsops.FileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return fsops.NewOSFileSystem()
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}
