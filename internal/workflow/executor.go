package workflow

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/treelint/internal/execshell"
	"github.com/temirov/treelint/internal/fsops"
	"github.com/temirov/treelint/internal/normalize"
	"github.com/temirov/treelint/internal/shellaudit"
	pathutils "github.com/temirov/treelint/internal/utils/path"
	"github.com/temirov/treelint/internal/walk"
)

const (
	stepFailureTemplateConstant   = "workflow step %d (%s) failed: %w"
	stepEmptyRootTemplateConstant = "workflow step %d (%s) root must not be empty: %q"
	stepStartedMessageConstant    = "executing workflow step"
	logFieldStepIndexConstant     = "step_index"
	logFieldStepOperationConstant = "operation"
	logFieldStepRootConstant      = "root"
)

// TreeWalker enumerates candidate files beneath a root directory.
type TreeWalker interface {
	Walk(rootPath string, options walk.Options) ([]string, error)
}

// Dependencies carries the shared collaborators reused by every workflow step.
type Dependencies struct {
	Logger        *zap.Logger
	OutputWriter  io.Writer
	ErrorWriter   io.Writer
	Walker        TreeWalker
	FileSystem    fsops.FileSystem
	ToolLocator   execshell.ToolLocator
	ShellExecutor shellaudit.CommandExecutor
}

// Defaults supplies the configured fallbacks applied when a step leaves an option unset.
type Defaults struct {
	Normalize normalize.CommandConfiguration
	Audit     shellaudit.CommandConfiguration
}

// Executor runs the steps of a workflow configuration in declaration order.
type Executor struct {
	dependencies Dependencies
	defaults     Defaults
	sanitizer    *pathutils.RootPathSanitizer
}

// NewExecutor constructs an Executor, substituting operating-system backed
// collaborators for any dependency left nil.
func NewExecutor(dependencies Dependencies, defaults Defaults) *Executor {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.OutputWriter == nil {
		dependencies.OutputWriter = io.Discard
	}
	if dependencies.ErrorWriter == nil {
		dependencies.ErrorWriter = io.Discard
	}
	if dependencies.Walker == nil {
		dependencies.Walker = walk.NewWalker(dependencies.Logger)
	}
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = fsops.NewOSFileSystem()
	}
	if dependencies.ToolLocator == nil {
		dependencies.ToolLocator = execshell.NewOSToolLocator()
	}
	if dependencies.ShellExecutor == nil {
		// The logger and runner are both non-nil at this point, so
		// construction cannot fail.
		dependencies.ShellExecutor, _ = execshell.NewShellExecutor(dependencies.Logger, execshell.NewOSCommandRunner())
	}

	return &Executor{
		dependencies: dependencies,
		defaults:     defaults,
		sanitizer:    pathutils.NewRootPathSanitizer(),
	}
}

// Execute runs every configured step, stopping at the first step that fails.
func (executor *Executor) Execute(executionContext context.Context, configuration Configuration) error {
	for stepIndex, step := range configuration.Steps {
		sanitizedRoot := executor.sanitizer.Sanitize(step.Options.Root)
		if len(sanitizedRoot) == 0 {
			return fmt.Errorf(stepEmptyRootTemplateConstant, stepIndex, string(step.Operation), step.Options.Root)
		}

		executor.dependencies.Logger.Info(
			stepStartedMessageConstant,
			zap.Int(logFieldStepIndexConstant, stepIndex),
			zap.String(logFieldStepOperationConstant, string(step.Operation)),
			zap.String(logFieldStepRootConstant, sanitizedRoot),
		)

		var stepError error
		switch step.Operation {
		case OperationTypeNormalizeEndings:
			stepError = executor.runNormalizeStep(executionContext, sanitizedRoot, step.Options)
		case OperationTypeAuditShell:
			stepError = executor.runAuditStep(executionContext, sanitizedRoot, step.Options)
		}
		if stepError != nil {
			return fmt.Errorf(stepFailureTemplateConstant, stepIndex, string(step.Operation), stepError)
		}
	}

	return nil
}

func (executor *Executor) runNormalizeStep(executionContext context.Context, rootPath string, stepOptions StepOptions) error {
	service := normalize.NewService(
		executor.dependencies.Walker,
		executor.dependencies.FileSystem,
		executor.dependencies.Logger,
		executor.dependencies.OutputWriter,
		executor.dependencies.ErrorWriter,
	)

	options := normalize.CommandOptions{
		Root:                rootPath,
		ExcludedDirectories: selectStringSlice(stepOptions.ExcludedDirectories, executor.defaults.Normalize.ExcludedDirectories),
		ExceptionFiles:      selectStringSlice(stepOptions.ExceptionFiles, executor.defaults.Normalize.ExceptionFiles),
	}

	return service.Run(executionContext, options)
}

func (executor *Executor) runAuditStep(executionContext context.Context, rootPath string, stepOptions StepOptions) error {
	service := shellaudit.NewService(
		executor.dependencies.Walker,
		executor.dependencies.ToolLocator,
		executor.dependencies.ShellExecutor,
		executor.dependencies.FileSystem,
		executor.dependencies.Logger,
		executor.dependencies.OutputWriter,
	)

	timeoutSeconds := stepOptions.ToolTimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = executor.defaults.Audit.ToolTimeoutSeconds
	}
	if timeoutSeconds < 0 {
		timeoutSeconds = 0
	}

	options := shellaudit.CommandOptions{
		Root:                rootPath,
		ScriptSuffix:        selectString(stepOptions.ScriptSuffix, executor.defaults.Audit.ScriptSuffix),
		LintToolName:        selectString(stepOptions.LintTool, executor.defaults.Audit.LintToolName),
		ExcludedDirectories: selectStringSlice(stepOptions.ExcludedDirectories, executor.defaults.Audit.ExcludedDirectories),
		ToolTimeout:         time.Duration(timeoutSeconds) * time.Second,
	}

	return service.Run(executionContext, options)
}

func selectString(stepValue string, defaultValue string) string {
	if trimmedValue := strings.TrimSpace(stepValue); len(trimmedValue) > 0 {
		return trimmedValue
	}
	return defaultValue
}

func selectStringSlice(stepValues []string, defaultValues []string) []string {
	var sanitizedValues []string
	for _, value := range stepValues {
		if trimmedValue := strings.TrimSpace(value); len(trimmedValue) > 0 {
			sanitizedValues = append(sanitizedValues, trimmedValue)
		}
	}
	if len(sanitizedValues) > 0 {
		return sanitizedValues
	}
	return defaultValues
}
