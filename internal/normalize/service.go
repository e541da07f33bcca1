package normalize

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"

	"go.uber.org/zap"

	"github.com/temirov/treelint/internal/fsops"
	"github.com/temirov/treelint/internal/walk"
)

const (
	carriageReturnLineFeedSequenceConstant = "\r\n"
	lineFeedSequenceConstant               = "\n"
	convertedReportTemplateConstant        = "Converted line endings in %s\n"
	readFailureReportTemplateConstant      = "Could not open %s: %v\n"
	writeFailureReportTemplateConstant     = "Could not write %s: %v\n"
	fileConvertedMessageConstant           = "converted line endings"
	fileReadFailureMessageConstant         = "unable to read file"
	fileWriteFailureMessageConstant        = "unable to write file"
	logFieldFilePathConstant               = "file"
	fallbackFilePermissionsConstant        = fs.FileMode(0o644)
)

// TreeWalker enumerates candidate files beneath a root directory.
type TreeWalker interface {
	Walk(rootPath string, options walk.Options) ([]string, error)
}

// CommandOptions captures the parameters of a single normalizer run.
type CommandOptions struct {
	Root                string
	ExcludedDirectories []string
	ExceptionFiles      []string
}

// Service converts CRLF sequences to LF across every eligible file under a root.
type Service struct {
	walker       TreeWalker
	fileSystem   fsops.FileSystem
	logger       *zap.Logger
	outputWriter io.Writer
	errorWriter  io.Writer
}

// NewService constructs a Service using the provided dependencies.
func NewService(walker TreeWalker, fileSystem fsops.FileSystem, logger *zap.Logger, outputWriter io.Writer, errorWriter io.Writer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	if errorWriter == nil {
		errorWriter = io.Discard
	}
	return &Service{
		walker:       walker,
		fileSystem:   fileSystem,
		logger:       logger,
		outputWriter: outputWriter,
		errorWriter:  errorWriter,
	}
}

// Run normalizes line endings beneath the configured root.
//
// Per-file read and write failures are reported and skipped; only an invalid
// root or a cancelled context aborts the run.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	walkOptions := walk.Options{
		ExcludedDirectoryNames: options.ExcludedDirectories,
		ExcludedFileNames:      options.ExceptionFiles,
	}

	candidateFiles, walkError := service.walker.Walk(options.Root, walkOptions)
	if walkError != nil {
		return walkError
	}

	for _, filePath := range candidateFiles {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		service.normalizeFile(filePath)
	}

	return nil
}

func (service *Service) normalizeFile(filePath string) {
	originalContent, readError := service.fileSystem.ReadFile(filePath)
	if readError != nil {
		fmt.Fprintf(service.errorWriter, readFailureReportTemplateConstant, filePath, readError)
		service.logger.Error(
			fileReadFailureMessageConstant,
			zap.String(logFieldFilePathConstant, filePath),
			zap.Error(readError),
		)
		return
	}

	transformedContent := bytes.ReplaceAll(
		originalContent,
		[]byte(carriageReturnLineFeedSequenceConstant),
		[]byte(lineFeedSequenceConstant),
	)

	if bytes.Equal(transformedContent, originalContent) {
		return
	}

	if writeError := service.fileSystem.WriteFile(filePath, transformedContent, service.filePermissions(filePath)); writeError != nil {
		fmt.Fprintf(service.errorWriter, writeFailureReportTemplateConstant, filePath, writeError)
		service.logger.Error(
			fileWriteFailureMessageConstant,
			zap.String(logFieldFilePathConstant, filePath),
			zap.Error(writeError),
		)
		return
	}

	fmt.Fprintf(service.outputWriter, convertedReportTemplateConstant, filePath)
	service.logger.Info(
		fileConvertedMessageConstant,
		zap.String(logFieldFilePathConstant, filePath),
	)
}

func (service *Service) filePermissions(filePath string) fs.FileMode {
	fileInfo, statError := service.fileSystem.Stat(filePath)
	if statError != nil {
		return fallbackFilePermissionsConstant
	}
	return fileInfo.Mode().Perm()
}
