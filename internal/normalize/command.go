package normalize

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treelint/internal/fsops"
	"github.com/temirov/treelint/internal/utils"
	pathutils "github.com/temirov/treelint/internal/utils/path"
	"github.com/temirov/treelint/internal/walk"
)

const (
	commandUseConstant              = "normalize <root>"
	commandShortDescriptionConstant = "Convert CRLF line endings to LF across a directory tree"
	commandLongDescriptionConstant  = "normalize walks the supplied root directory, skipping excluded directories and " +
		"line-ending policy exception files, and rewrites every file containing CRLF sequences in place. " +
		"Per-file read or write failures are reported without affecting the exit status."
	emptyRootArgumentTemplateConstant = "root argument must not be empty: %q"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the persisted normalize configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the normalize cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Walker                TreeWalker
	FileSystem            fsops.FileSystem
}

// Build constructs the cobra command for the normalize workflow.
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

	service := NewService(
		builder.resolveWalker(logger),
		builder.resolveFileSystem(),
		logger,
		utils.NewFlushingWriter(command.OutOrStdout()),
		utils.NewFlushingWriter(command.ErrOrStderr()),
	)

	options := CommandOptions{
		Root:                sanitizedRoot,
		ExcludedDirectories: configuration.ExcludedDirectories,
		ExceptionFiles:      configuration.ExceptionFiles,
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

func (builder *CommandBuilder) resolveFileSystem() fsops.FileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return fsops.NewOSFileSystem()
}
