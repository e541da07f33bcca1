package tests

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func repositoryRootDirectory(testInstance *testing.T) string {
	testInstance.Helper()

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		testInstance.Fatalf("unable to resolve working directory: %v", workingDirectoryError)
	}
	return filepath.Dir(workingDirectory)
}

func runIntegrationCommand(testInstance *testing.T, repositoryRoot string, pathVariable string, timeout time.Duration, arguments []string) (string, error) {
	testInstance.Helper()

	executionContext, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	command := exec.CommandContext(executionContext, "go", arguments...)
	command.Dir = repositoryRoot
	environment := append([]string{}, os.Environ()...)
	if len(pathVariable) > 0 {
		environment = append(environment, "PATH="+pathVariable)
	}
	command.Env = environment

	outputBytes, runError := command.CombinedOutput()
	return string(outputBytes), runError
}

func requireNoError(testInstance *testing.T, err error, output string) {
	testInstance.Helper()
	if err != nil {
		testInstance.Fatalf("command failed: %v\n%s", err, output)
	}
}
