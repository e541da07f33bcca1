package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/treelint/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFindingsCaseNameConstant        = "non_zero_exit_is_result"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
	testCommandNameConstant                      = execshell.CommandName("shellcheck")
	testCommandArgumentConstant                  = "script.sh"
	testStandardOutputConstant                   = "ok"
	testStandardErrorOutputConstant              = "issue detected"
	testRunnerFailureMessageConstant             = "runner failure"
	expectedLifecycleLogCountConstant            = 2
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	testCases := []struct {
		name             string
		runnerResult     execshell.ExecutionResult
		runnerError      error
		expectError      bool
		expectedExitCode int
		expectedLogCount int
	}{
		{
			name: testExecutionSuccessCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardOutput: testStandardOutputConstant,
				ExitCode:       0,
			},
			expectedExitCode: 0,
			expectedLogCount: expectedLifecycleLogCountConstant,
		},
		{
			name: testExecutionFindingsCaseNameConstant,
			runnerResult: execshell.ExecutionResult{
				StandardError: testStandardErrorOutputConstant,
				ExitCode:      1,
			},
			expectedExitCode: 1,
			expectedLogCount: expectedLifecycleLogCountConstant,
		},
		{
			name:             testExecutionRunnerErrorCaseNameConstant,
			runnerError:      errors.New(testRunnerFailureMessageConstant),
			expectError:      true,
			expectedLogCount: expectedLifecycleLogCountConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}

			shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner)
			require.NoError(testInstance, creationError)

			command := execshell.ShellCommand{
				Name:    testCommandNameConstant,
				Details: execshell.CommandDetails{Arguments: []string{testCommandArgumentConstant}},
			}
			executionResult, executionError := shellExecutor.Execute(context.Background(), command)

			if testCase.expectError {
				require.Error(testInstance, executionError)
				require.IsType(testInstance, execshell.CommandExecutionError{}, executionError)
				require.ErrorIs(testInstance, executionError, testCase.runnerError)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.expectedExitCode, executionResult.ExitCode)
				require.Equal(testInstance, testCase.runnerResult.StandardOutput, executionResult.StandardOutput)
				require.Equal(testInstance, testCase.runnerResult.StandardError, executionResult.StandardError)
			}

			require.Len(testInstance, observerLogs.All(), testCase.expectedLogCount)
			require.Len(testInstance, recordingRunner.recordedCommands, 1)
			require.Equal(testInstance, testCommandNameConstant, recordingRunner.recordedCommands[0].Name)
		})
	}
}
