package shellaudit_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/treelint/internal/shellaudit"
	"github.com/temirov/treelint/internal/walk"
)

const (
	auditCommandSubtestNameTemplateConstant = "%d_%s"
	testCaseNoArgumentsTitleConstant        = "missing root argument fails"
	testCaseSurplusArgumentsTitleConstant   = "surplus arguments fail"
	testCaseBlankRootTitleConstant          = "blank root argument fails"
)

func buildAuditCommand(testInstance *testing.T, locator *stubToolLocator, executor *stubCommandExecutor) (*bytes.Buffer, func(arguments ...string) error) {
	testInstance.Helper()

	builder := shellaudit.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return zap.NewNop()
		},
		ToolLocator: locator,
		Executor:    executor,
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})

	return outputBuffer, func(arguments ...string) error {
		command.SetArgs(arguments)
		return command.Execute()
	}
}

func TestAuditCommandArgumentValidation(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: testCaseNoArgumentsTitleConstant, arguments: []string{}},
		{name: testCaseSurplusArgumentsTitleConstant, arguments: []string{"one", "two"}},
		{name: testCaseBlankRootTitleConstant, arguments: []string{"   "}},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(auditCommandSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			_, executeCommand := buildAuditCommand(testInstance, availableLocator(), &stubCommandExecutor{})
			executionError := executeCommand(testCase.arguments...)
			require.Error(testInstance, executionError)
		})
	}
}

func TestAuditCommandReportsFallbackFindings(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	scriptPath := writeScript(testInstance, rootDirectory, "plain.sh", missingShebangContentConstant, plainScriptPermissionsConstant)

	outputBuffer, executeCommand := buildAuditCommand(testInstance, unavailableLocator(), &stubCommandExecutor{})
	require.NoError(testInstance, executeCommand(rootDirectory))

	reportText := outputBuffer.String()
	require.Contains(testInstance, reportText, sectionHeaderPrefixConstant+scriptPath)
	require.Contains(testInstance, reportText, missingShebangFindingConstant)
	require.Contains(testInstance, reportText, notExecutableFindingConstant)
}

func TestAuditCommandRejectsInvalidRoot(testInstance *testing.T) {
	missingRoot := testInstance.TempDir() + "/absent"

	_, executeCommand := buildAuditCommand(testInstance, availableLocator(), &stubCommandExecutor{})
	executionError := executeCommand(missingRoot)
	require.Error(testInstance, executionError)
	require.ErrorIs(testInstance, executionError, walk.ErrInvalidRoot)
}
