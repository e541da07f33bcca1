package workflow_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/treelint/internal/workflow"
)

const (
	workflowSubtestNameTemplateConstant = "%d_%s"
	planFileNameConstant                = "plan.yaml"
	validPlanContentConstant            = `steps:
  - operation: normalize-endings
    with:
      root: ./project
  - operation: audit-shell
    with:
      root: ./project
      script_suffix: .bash
      lint_tool: shellcheck
      tool_timeout_seconds: 15
`
	emptyStepsPlanContentConstant = "steps: []\n"
	unknownOperationPlanConstant  = `steps:
  - operation: reticulate-splines
    with:
      root: ./project
`
	missingRootPlanConstant = `steps:
  - operation: audit-shell
    with:
      script_suffix: .sh
`
	malformedPlanContentConstant = "steps: [unbalanced\n"
)

func writePlan(testInstance *testing.T, content string) string {
	testInstance.Helper()

	planPath := filepath.Join(testInstance.TempDir(), planFileNameConstant)
	require.NoError(testInstance, os.WriteFile(planPath, []byte(content), 0o644))
	return planPath
}

func TestLoadConfigurationParsesValidPlan(testInstance *testing.T) {
	planPath := writePlan(testInstance, validPlanContentConstant)

	configuration, loadError := workflow.LoadConfiguration(planPath)
	require.NoError(testInstance, loadError)
	require.Len(testInstance, configuration.Steps, 2)

	require.Equal(testInstance, workflow.OperationTypeNormalizeEndings, configuration.Steps[0].Operation)
	require.Equal(testInstance, "./project", configuration.Steps[0].Options.Root)

	require.Equal(testInstance, workflow.OperationTypeAuditShell, configuration.Steps[1].Operation)
	require.Equal(testInstance, ".bash", configuration.Steps[1].Options.ScriptSuffix)
	require.Equal(testInstance, "shellcheck", configuration.Steps[1].Options.LintTool)
	require.Equal(testInstance, 15, configuration.Steps[1].Options.ToolTimeoutSeconds)
}

func TestLoadConfigurationRejectsInvalidPlans(testInstance *testing.T) {
	testCases := []struct {
		name        string
		planContent string
	}{
		{name: "empty_steps_rejected", planContent: emptyStepsPlanContentConstant},
		{name: "unknown_operation_rejected", planContent: unknownOperationPlanConstant},
		{name: "missing_root_rejected", planContent: missingRootPlanConstant},
		{name: "malformed_yaml_rejected", planContent: malformedPlanContentConstant},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(workflowSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			planPath := writePlan(testInstance, testCase.planContent)

			_, loadError := workflow.LoadConfiguration(planPath)
			require.Error(testInstance, loadError)
		})
	}
}

func TestLoadConfigurationRejectsMissingFile(testInstance *testing.T) {
	_, loadError := workflow.LoadConfiguration(filepath.Join(testInstance.TempDir(), "absent.yaml"))
	require.Error(testInstance, loadError)
}

func TestLoadConfigurationRejectsBlankPath(testInstance *testing.T) {
	_, loadError := workflow.LoadConfiguration("   ")
	require.Error(testInstance, loadError)
}
