package workflow

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configurationLoadErrorTemplateConstant        = "failed to load workflow configuration: %w"
	configurationParseErrorTemplateConstant       = "failed to parse workflow configuration: %w"
	configurationPathRequiredMessageConstant      = "workflow configuration path must be provided"
	configurationEmptyStepsMessageConstant        = "workflow configuration must define at least one step"
	configurationOperationMissingMessageConstant  = "workflow step missing operation name"
	configurationUnknownOperationTemplateConstant = "workflow step %d references unknown operation %q"
	configurationRootMissingTemplateConstant      = "workflow step %d (%s) missing root"
)

// OperationType identifies supported workflow operations.
type OperationType string

// Supported workflow operations.
const (
	OperationTypeNormalizeEndings OperationType = OperationType("normalize-endings")
	OperationTypeAuditShell       OperationType = OperationType("audit-shell")
)

// Configuration describes the ordered workflow steps loaded from YAML.
type Configuration struct {
	Steps []StepConfiguration `yaml:"steps"`
}

// StepConfiguration associates an operation type with declarative options.
type StepConfiguration struct {
	Operation OperationType `yaml:"operation"`
	Options   StepOptions   `yaml:"with"`
}

// StepOptions captures the per-step settings; unset values fall back to the
// defaults loaded by the application configuration.
type StepOptions struct {
	Root                string   `yaml:"root"`
	ExcludedDirectories []string `yaml:"excluded_directories"`
	ExceptionFiles      []string `yaml:"exception_files"`
	ScriptSuffix        string   `yaml:"script_suffix"`
	LintTool            string   `yaml:"lint_tool"`
	ToolTimeoutSeconds  int      `yaml:"tool_timeout_seconds"`
}

var supportedOperations = map[OperationType]struct{}{
	OperationTypeNormalizeEndings: {},
	OperationTypeAuditShell:       {},
}

// LoadConfiguration reads the workflow definition from disk and performs basic validation.
func LoadConfiguration(filePath string) (Configuration, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Configuration{}, errors.New(configurationPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Configuration{}, fmt.Errorf(configurationLoadErrorTemplateConstant, readError)
	}

	var configuration Configuration
	if unmarshalError := yaml.Unmarshal(contentBytes, &configuration); unmarshalError != nil {
		return Configuration{}, fmt.Errorf(configurationParseErrorTemplateConstant, unmarshalError)
	}

	if len(configuration.Steps) == 0 {
		return Configuration{}, errors.New(configurationEmptyStepsMessageConstant)
	}

	for stepIndex := range configuration.Steps {
		trimmedOperation := OperationType(strings.TrimSpace(string(configuration.Steps[stepIndex].Operation)))
		if len(trimmedOperation) == 0 {
			return Configuration{}, errors.New(configurationOperationMissingMessageConstant)
		}
		if _, supported := supportedOperations[trimmedOperation]; !supported {
			return Configuration{}, fmt.Errorf(configurationUnknownOperationTemplateConstant, stepIndex, string(trimmedOperation))
		}
		configuration.Steps[stepIndex].Operation = trimmedOperation

		if len(strings.TrimSpace(configuration.Steps[stepIndex].Options.Root)) == 0 {
			return Configuration{}, fmt.Errorf(configurationRootMissingTemplateConstant, stepIndex, string(trimmedOperation))
		}
	}

	return configuration, nil
}
