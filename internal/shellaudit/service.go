package shellaudit

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/treelint/internal/execshell"
	"github.com/temirov/treelint/internal/fsops"
	"github.com/temirov/treelint/internal/walk"
)

const (
	fileSectionHeaderTemplateConstant      = "=== Checking file: %s ===\n"
	noIssuesMessageConstant                = "no issues found\n"
	noFilesFoundTemplateConstant           = "No shell scripts found under %s\n"
	findingBulletTemplateConstant          = "- %s\n"
	toolStreamTemplateConstant             = "%s\n"
	toolInvocationFailureTemplateConstant  = "could not run %s: %v"
	unreadableFileFindingTemplateConstant  = "could not read file: %v"
	permissionCheckFindingTemplateConstant = "could not inspect permissions: %v"
	missingShebangFindingConstant          = "missing shebang line"
	unexpectedShebangFindingTemplate       = "unexpected shebang interpreter: %q"
	notExecutableFindingConstant           = "file is not executable"
	shebangMarkerConstant                  = "#!"
	bashInterpreterSubstringConstant       = "bash"
	shInterpreterSubstringConstant         = "sh"
	lineFeedByteConstant                   = '\n'
	carriageReturnSuffixConstant           = "\r"
	toolProbedMessageConstant              = "lint tool probe completed"
	logFieldToolNameConstant               = "tool_name"
	logFieldToolPathConstant               = "tool_path"
	logFieldToolAvailableConstant          = "tool_available"
	logFieldFilePathConstant               = "file"
	toolInvocationFailedMessageConstant    = "lint tool invocation failed"
)

// TreeWalker enumerates candidate files beneath a root directory.
type TreeWalker interface {
	Walk(rootPath string, options walk.Options) ([]string, error)
}

// CommandExecutor runs external commands while capturing their streams and exit code.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Service audits discovered shell scripts with the external lint tool or heuristic checks.
type Service struct {
	walker        TreeWalker
	toolLocator   execshell.ToolLocator
	shellExecutor CommandExecutor
	fileSystem    fsops.FileSystem
	logger        *zap.Logger
	outputWriter  io.Writer
}

// NewService constructs a Service using the provided dependencies.
func NewService(walker TreeWalker, toolLocator execshell.ToolLocator, shellExecutor CommandExecutor, fileSystem fsops.FileSystem, logger *zap.Logger, outputWriter io.Writer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	return &Service{
		walker:        walker,
		toolLocator:   toolLocator,
		shellExecutor: shellExecutor,
		fileSystem:    fileSystem,
		logger:        logger,
		outputWriter:  outputWriter,
	}
}

// Run audits every discovered script beneath the configured root.
//
// The external tool is probed exactly once; the probe outcome selects the
// processing path for every file in the run. Findings are informational and
// never produce an error.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	walkOptions := walk.Options{
		ExcludedDirectoryNames: options.ExcludedDirectories,
		IncludedSuffixes:       []string{options.ScriptSuffix},
	}

	scriptFiles, walkError := service.walker.Walk(options.Root, walkOptions)
	if walkError != nil {
		return walkError
	}

	if len(scriptFiles) == 0 {
		fmt.Fprintf(service.outputWriter, noFilesFoundTemplateConstant, options.Root)
		return nil
	}

	toolPath, probeError := service.toolLocator.LocateTool(options.LintToolName)
	toolAvailable := probeError == nil
	service.logger.Debug(
		toolProbedMessageConstant,
		zap.String(logFieldToolNameConstant, options.LintToolName),
		zap.String(logFieldToolPathConstant, toolPath),
		zap.Bool(logFieldToolAvailableConstant, toolAvailable),
	)

	for _, scriptPath := range scriptFiles {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		var outcome CheckOutcome
		if toolAvailable {
			outcome = service.checkWithTool(executionContext, scriptPath, options)
		} else {
			outcome = service.checkWithHeuristics(scriptPath)
		}
		service.renderOutcome(outcome)
	}

	return nil
}

func (service *Service) checkWithTool(executionContext context.Context, scriptPath string, options CommandOptions) CheckOutcome {
	invocationContext := executionContext
	if options.ToolTimeout > 0 {
		timeoutContext, cancelInvocation := context.WithTimeout(executionContext, options.ToolTimeout)
		defer cancelInvocation()
		invocationContext = timeoutContext
	}

	command := execshell.ShellCommand{
		Name:    execshell.CommandName(options.LintToolName),
		Details: execshell.CommandDetails{Arguments: []string{scriptPath}},
	}

	executionResult, executionError := service.shellExecutor.Execute(invocationContext, command)
	if executionError != nil {
		service.logger.Error(
			toolInvocationFailedMessageConstant,
			zap.String(logFieldFilePathConstant, scriptPath),
			zap.Error(executionError),
		)
		return CheckOutcome{
			FilePath: scriptPath,
			Status:   CheckStatusToolIssues,
			Findings: []string{fmt.Sprintf(toolInvocationFailureTemplateConstant, options.LintToolName, executionError)},
		}
	}

	if executionResult.ExitCode == 0 {
		return CheckOutcome{FilePath: scriptPath, Status: CheckStatusClean}
	}

	var diagnostics []string
	if trimmedOutput := strings.TrimSpace(executionResult.StandardOutput); len(trimmedOutput) > 0 {
		diagnostics = append(diagnostics, trimmedOutput)
	}
	if trimmedErrors := strings.TrimSpace(executionResult.StandardError); len(trimmedErrors) > 0 {
		diagnostics = append(diagnostics, trimmedErrors)
	}

	return CheckOutcome{FilePath: scriptPath, Status: CheckStatusToolIssues, Findings: diagnostics}
}

func (service *Service) checkWithHeuristics(scriptPath string) CheckOutcome {
	var findings []string

	scriptContent, readError := service.fileSystem.ReadFile(scriptPath)
	if readError != nil {
		findings = append(findings, fmt.Sprintf(unreadableFileFindingTemplateConstant, readError))
	} else {
		if shebangFinding, shebangMissing := inspectShebang(scriptContent); len(shebangFinding) > 0 || shebangMissing {
			if shebangMissing {
				findings = append(findings, missingShebangFindingConstant)
			} else {
				findings = append(findings, shebangFinding)
			}
		}
	}

	// Executability is judged for the invoking user, not from the raw mode
	// bits, so group- or other-only execute permissions do not mask findings.
	executable, executableCheckError := service.fileSystem.CanExecute(scriptPath)
	switch {
	case executableCheckError != nil:
		findings = append(findings, fmt.Sprintf(permissionCheckFindingTemplateConstant, executableCheckError))
	case !executable:
		findings = append(findings, notExecutableFindingConstant)
	}

	if len(findings) == 0 {
		return CheckOutcome{FilePath: scriptPath, Status: CheckStatusClean}
	}

	status := CheckStatusHeuristicIssues
	if readError != nil {
		status = CheckStatusUnreadable
	}

	return CheckOutcome{FilePath: scriptPath, Status: status, Findings: findings}
}

// inspectShebang reports either a finding about an unexpected interpreter or
// that the shebang line is missing entirely. Undecodable bytes are replaced
// rather than treated as failures.
func inspectShebang(scriptContent []byte) (string, bool) {
	decodedContent := strings.ToValidUTF8(string(scriptContent), string(utf8.RuneError))
	firstLine := decodedContent
	if lineFeedIndex := strings.IndexByte(decodedContent, lineFeedByteConstant); lineFeedIndex >= 0 {
		firstLine = decodedContent[:lineFeedIndex]
	}
	firstLine = strings.TrimSuffix(firstLine, carriageReturnSuffixConstant)

	if !strings.HasPrefix(firstLine, shebangMarkerConstant) {
		return "", true
	}

	if strings.Contains(firstLine, bashInterpreterSubstringConstant) || strings.Contains(firstLine, shInterpreterSubstringConstant) {
		return "", false
	}

	return fmt.Sprintf(unexpectedShebangFindingTemplate, firstLine), false
}

func (service *Service) renderOutcome(outcome CheckOutcome) {
	fmt.Fprintf(service.outputWriter, fileSectionHeaderTemplateConstant, outcome.FilePath)

	if outcome.Status == CheckStatusClean {
		fmt.Fprint(service.outputWriter, noIssuesMessageConstant)
		return
	}

	if outcome.Status == CheckStatusToolIssues {
		for _, diagnostic := range outcome.Findings {
			fmt.Fprintf(service.outputWriter, toolStreamTemplateConstant, diagnostic)
		}
		return
	}

	for _, finding := range outcome.Findings {
		fmt.Fprintf(service.outputWriter, findingBulletTemplateConstant, finding)
	}
}
