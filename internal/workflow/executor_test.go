package workflow_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/treelint/internal/execshell"
	"github.com/temirov/treelint/internal/normalize"
	"github.com/temirov/treelint/internal/shellaudit"
	"github.com/temirov/treelint/internal/workflow"
)

const (
	crlfDocumentContentConstant       = "first\r\nsecond\r\n"
	lfDocumentContentConstant         = "first\nsecond\n"
	bashScriptContentConstant         = "#!/usr/bin/env bash\necho ok\n"
	convertedReportPrefixConstant     = "Converted line endings in "
	checkingHeaderPrefixConstant      = "=== Checking file: "
	cleanReportLineConstant           = "no issues found"
	toolUnavailableMessageConstant    = "executable file not found in $PATH"
	combinedPlanTemplateConstant      = "steps:\n  - operation: normalize-endings\n    with:\n      root: %s\n  - operation: audit-shell\n    with:\n      root: %s\n"
	documentFileNameConstant          = "readme.txt"
	scriptFileNameConstant            = "deploy.sh"
	absentLintToolNameConstant        = "treelint-absent-lint-tool"
	toolRunFailurePrefixConstant      = "could not run "
	executableScriptPermissionsOctal  = 0o755
	regularDocumentPermissionsOctal   = 0o644
)

type recordingToolLocator struct {
	toolPath   string
	probeError error
	probeCount int
}

func (locator *recordingToolLocator) LocateTool(toolName string) (string, error) {
	locator.probeCount++
	return locator.toolPath, locator.probeError
}

type recordingCommandExecutor struct {
	executionResult  execshell.ExecutionResult
	recordedCommands []execshell.ShellCommand
}

func (executor *recordingCommandExecutor) Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, command)
	return executor.executionResult, nil
}

func sanitizedDefaults() workflow.Defaults {
	return workflow.Defaults{
		Normalize: normalize.DefaultCommandConfiguration(),
		Audit:     shellaudit.DefaultCommandConfiguration(),
	}
}

func TestExecutorRunsStepsInDeclarationOrder(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	documentPath := filepath.Join(rootDirectory, documentFileNameConstant)
	scriptPath := filepath.Join(rootDirectory, scriptFileNameConstant)
	require.NoError(testInstance, os.WriteFile(documentPath, []byte(crlfDocumentContentConstant), regularDocumentPermissionsOctal))
	require.NoError(testInstance, os.WriteFile(scriptPath, []byte(bashScriptContentConstant), executableScriptPermissionsOctal))

	outputBuffer := &bytes.Buffer{}
	executor := workflow.NewExecutor(
		workflow.Dependencies{
			Logger:        zap.NewNop(),
			OutputWriter:  outputBuffer,
			ErrorWriter:   &bytes.Buffer{},
			ToolLocator:   &recordingToolLocator{probeError: errors.New(toolUnavailableMessageConstant)},
			ShellExecutor: &recordingCommandExecutor{},
		},
		sanitizedDefaults(),
	)

	configuration := workflow.Configuration{
		Steps: []workflow.StepConfiguration{
			{Operation: workflow.OperationTypeNormalizeEndings, Options: workflow.StepOptions{Root: rootDirectory}},
			{Operation: workflow.OperationTypeAuditShell, Options: workflow.StepOptions{Root: rootDirectory}},
		},
	}

	require.NoError(testInstance, executor.Execute(context.Background(), configuration))

	convertedContent, readError := os.ReadFile(documentPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, lfDocumentContentConstant, string(convertedContent))

	reportText := outputBuffer.String()
	normalizeReportIndex := bytes.Index([]byte(reportText), []byte(convertedReportPrefixConstant+documentPath))
	auditReportIndex := bytes.Index([]byte(reportText), []byte(checkingHeaderPrefixConstant+scriptPath))
	require.GreaterOrEqual(testInstance, normalizeReportIndex, 0)
	require.GreaterOrEqual(testInstance, auditReportIndex, 0)
	require.Less(testInstance, normalizeReportIndex, auditReportIndex)
	require.Contains(testInstance, reportText, cleanReportLineConstant)
}

func TestExecutorAppliesStepOverrides(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	scriptPath := filepath.Join(rootDirectory, "tool.bash")
	require.NoError(testInstance, os.WriteFile(scriptPath, []byte(bashScriptContentConstant), os.FileMode(executableScriptPermissionsOctal)))

	commandExecutor := &recordingCommandExecutor{executionResult: execshell.ExecutionResult{ExitCode: 0}}
	executor := workflow.NewExecutor(
		workflow.Dependencies{
			Logger:        zap.NewNop(),
			OutputWriter:  &bytes.Buffer{},
			ToolLocator:   &recordingToolLocator{toolPath: "/usr/bin/bashate"},
			ShellExecutor: commandExecutor,
		},
		sanitizedDefaults(),
	)

	configuration := workflow.Configuration{
		Steps: []workflow.StepConfiguration{
			{
				Operation: workflow.OperationTypeAuditShell,
				Options: workflow.StepOptions{
					Root:         rootDirectory,
					ScriptSuffix: ".bash",
					LintTool:     "bashate",
				},
			},
		},
	}

	require.NoError(testInstance, executor.Execute(context.Background(), configuration))

	require.Len(testInstance, commandExecutor.recordedCommands, 1)
	require.Equal(testInstance, execshell.CommandName("bashate"), commandExecutor.recordedCommands[0].Name)
	require.Equal(testInstance, []string{scriptPath}, commandExecutor.recordedCommands[0].Details.Arguments)
}

func TestExecutorDefaultsShellExecutorWhenToolIsAvailable(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	scriptPath := filepath.Join(rootDirectory, scriptFileNameConstant)
	require.NoError(testInstance, os.WriteFile(scriptPath, []byte(bashScriptContentConstant), os.FileMode(executableScriptPermissionsOctal)))

	outputBuffer := &bytes.Buffer{}
	executor := workflow.NewExecutor(
		workflow.Dependencies{
			Logger:       zap.NewNop(),
			OutputWriter: outputBuffer,
			ToolLocator:  &recordingToolLocator{toolPath: "/usr/bin/" + absentLintToolNameConstant},
		},
		sanitizedDefaults(),
	)

	configuration := workflow.Configuration{
		Steps: []workflow.StepConfiguration{
			{
				Operation: workflow.OperationTypeAuditShell,
				Options: workflow.StepOptions{
					Root:     rootDirectory,
					LintTool: absentLintToolNameConstant,
				},
			},
		},
	}

	require.NotPanics(testInstance, func() {
		require.NoError(testInstance, executor.Execute(context.Background(), configuration))
	})

	reportText := outputBuffer.String()
	require.Contains(testInstance, reportText, checkingHeaderPrefixConstant+scriptPath)
	require.Contains(testInstance, reportText, toolRunFailurePrefixConstant+absentLintToolNameConstant)
}

func TestExecutorStopsAtFirstFailingStep(testInstance *testing.T) {
	existingRoot := testInstance.TempDir()
	missingRoot := filepath.Join(existingRoot, "absent")

	commandExecutor := &recordingCommandExecutor{}
	executor := workflow.NewExecutor(
		workflow.Dependencies{
			Logger:        zap.NewNop(),
			OutputWriter:  &bytes.Buffer{},
			ToolLocator:   &recordingToolLocator{probeError: errors.New(toolUnavailableMessageConstant)},
			ShellExecutor: commandExecutor,
		},
		sanitizedDefaults(),
	)

	configuration := workflow.Configuration{
		Steps: []workflow.StepConfiguration{
			{Operation: workflow.OperationTypeNormalizeEndings, Options: workflow.StepOptions{Root: missingRoot}},
			{Operation: workflow.OperationTypeAuditShell, Options: workflow.StepOptions{Root: existingRoot}},
		},
	}

	executionError := executor.Execute(context.Background(), configuration)
	require.Error(testInstance, executionError)
	require.Empty(testInstance, commandExecutor.recordedCommands)
}

func TestExecutorRejectsBlankStepRoot(testInstance *testing.T) {
	executor := workflow.NewExecutor(workflow.Dependencies{Logger: zap.NewNop()}, sanitizedDefaults())

	configuration := workflow.Configuration{
		Steps: []workflow.StepConfiguration{
			{Operation: workflow.OperationTypeNormalizeEndings, Options: workflow.StepOptions{Root: "   "}},
		},
	}

	require.Error(testInstance, executor.Execute(context.Background(), configuration))
}
