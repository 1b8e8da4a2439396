package validate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/pathlint/internal/compliance"
	"github.com/temirov/pathlint/internal/report"
	"github.com/temirov/pathlint/internal/walker"
)

const (
	notADirectoryTemplateConstant         = "Not a directory: %s"
	negativePrefixLengthTemplateConstant  = "prefix length must be non-negative, got %d"
	negativeMaxPathLengthTemplateConstant = "maximum path length must not be negative, got %d"
	traversalAbortedTemplateConstant      = "validation aborted: %w"
	reportCreateErrorTemplateConstant     = "unable to create report file %s: %w"
	reportWriteErrorTemplateConstant      = "unable to write report file %s: %w"
	outputStreamErrorTemplateConstant     = "unable to write validation output: %w"
	runStartedMessageConstant             = "validation started"
	runFinishedMessageConstant            = "validation finished"
	reportWrittenMessageConstant          = "report written"
	logFieldRootConstant                  = "root"
	logFieldFixModeConstant               = "fix"
	logFieldPrefixLengthConstant          = "prefix_length"
	logFieldMaxPathLengthConstant         = "max_path_length"
	logFieldErrorsConstant                = "errors"
	logFieldWarningsConstant              = "warnings"
	logFieldRenamesConstant               = "renamed"
	logFieldReportFileConstant            = "report_file"
	logFieldRunIdentifierConstant         = "run_id"
	logFieldExcludePatternsConstant       = "exclude"
)

// Options configures a single validation run.
type Options struct {
	Root          string
	Fix           bool
	PrefixLength  int
	MaxPathLength int
	ReportFile    string
	Exclude       []string
}

// ReportFileCreator opens the destination for the YAML report.
type ReportFileCreator func(path string) (io.WriteCloser, error)

// RunIdentifierProvider issues the identifier that ties log records to one run.
type RunIdentifierProvider func() string

// Service runs the pre-flight checks, the walk, and the reporting for one root.
type Service struct {
	fileSystem        walker.FileSystem
	logger            *zap.Logger
	outputWriter      io.Writer
	reportFileCreator ReportFileCreator
	runIdentifiers    RunIdentifierProvider
}

// NewService constructs a Service. Nil collaborators fall back to the
// operating system filesystem, a no-op logger, and stdout.
func NewService(fileSystem walker.FileSystem, logger *zap.Logger, outputWriter io.Writer, reportFileCreator ReportFileCreator) *Service {
	if fileSystem == nil {
		fileSystem = walker.OSFileSystem{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if outputWriter == nil {
		outputWriter = os.Stdout
	}
	if reportFileCreator == nil {
		reportFileCreator = createReportFile
	}
	return &Service{
		fileSystem:        fileSystem,
		logger:            logger,
		outputWriter:      outputWriter,
		reportFileCreator: reportFileCreator,
		runIdentifiers:    uuid.NewString,
	}
}

// WithRunIdentifierProvider replaces the random run identifier source.
func (service *Service) WithRunIdentifierProvider(provider RunIdentifierProvider) *Service {
	if provider != nil {
		service.runIdentifiers = provider
	}
	return service
}

// Run validates the tree below options.Root. Configuration problems are
// returned as *ConfigurationError before anything is printed; a completed run
// that counted errors returns ErrViolationsDetected alongside the totals.
func (service *Service) Run(executionContext context.Context, options Options) (walker.Totals, error) {
	if preflightError := service.preflight(options); preflightError != nil {
		return walker.Totals{}, preflightError
	}

	walkerOptions := walker.Options{
		FixMode:         options.Fix,
		PrefixLength:    options.PrefixLength,
		Limits:          compliance.Limits{MaxPathLength: options.MaxPathLength}.WithDefaults(),
		ExcludePatterns: options.Exclude,
	}
	runIdentifier := service.runIdentifiers()
	runLogger := service.logger.With(zap.String(logFieldRunIdentifierConstant, runIdentifier))

	console := report.NewConsoleReporter(service.outputWriter)
	collector := report.NewCollector()

	if options.Fix {
		console.PrintFixModeBanner()
	}

	runLogger.Info(
		runStartedMessageConstant,
		zap.String(logFieldRootConstant, options.Root),
		zap.Bool(logFieldFixModeConstant, options.Fix),
		zap.Int(logFieldPrefixLengthConstant, options.PrefixLength),
		zap.Int(logFieldMaxPathLengthConstant, walkerOptions.Limits.MaxPathLength),
		zap.Strings(logFieldExcludePatternsConstant, options.Exclude),
	)

	treeWalker := walker.NewWalker(service.fileSystem, walker.Observers{console, collector}, runLogger, walkerOptions)
	totals, walkError := treeWalker.Walk(executionContext, options.Root)
	if walkError != nil {
		return totals, fmt.Errorf(traversalAbortedTemplateConstant, walkError)
	}

	console.PrintSummary(options.Root, totals)
	if outputError := console.Err(); outputError != nil {
		return totals, fmt.Errorf(outputStreamErrorTemplateConstant, outputError)
	}
	runLogger.Info(
		runFinishedMessageConstant,
		zap.String(logFieldRootConstant, options.Root),
		zap.Int(logFieldErrorsConstant, totals.Errors),
		zap.Int(logFieldWarningsConstant, totals.Warnings),
		zap.Int(logFieldRenamesConstant, totals.Renames),
	)

	if len(options.ReportFile) > 0 {
		runReport := collector.Report(options.Root, walkerOptions, totals)
		runReport.RunID = runIdentifier
		if reportError := service.writeReport(runLogger, options.ReportFile, runReport); reportError != nil {
			return totals, reportError
		}
	}

	if totals.HasErrors() {
		return totals, ErrViolationsDetected
	}
	return totals, nil
}

func (service *Service) preflight(options Options) error {
	if options.PrefixLength < 0 {
		return &ConfigurationError{Err: fmt.Errorf(negativePrefixLengthTemplateConstant, options.PrefixLength)}
	}
	if options.MaxPathLength < 0 {
		return &ConfigurationError{Err: fmt.Errorf(negativeMaxPathLengthTemplateConstant, options.MaxPathLength)}
	}

	if patternError := walker.ValidateExcludePatterns(options.Exclude); patternError != nil {
		return &ConfigurationError{Err: patternError}
	}

	rootInfo, statError := service.fileSystem.Stat(options.Root)
	if statError != nil || !rootInfo.IsDir() {
		return &ConfigurationError{Err: fmt.Errorf(notADirectoryTemplateConstant, options.Root)}
	}
	return nil
}

func (service *Service) writeReport(runLogger *zap.Logger, reportFile string, runReport report.RunReport) (writeError error) {
	reportWriter, createError := service.reportFileCreator(reportFile)
	if createError != nil {
		return fmt.Errorf(reportCreateErrorTemplateConstant, reportFile, createError)
	}
	defer func() {
		if closeError := reportWriter.Close(); closeError != nil && writeError == nil {
			writeError = fmt.Errorf(reportWriteErrorTemplateConstant, reportFile, closeError)
		}
	}()

	if encodeError := report.WriteYAML(reportWriter, runReport); encodeError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, reportFile, encodeError)
	}

	runLogger.Info(reportWrittenMessageConstant, zap.String(logFieldReportFileConstant, reportFile))
	return nil
}

func createReportFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// IsConfigurationError reports whether the error chain contains a ConfigurationError.
func IsConfigurationError(err error) bool {
	var configurationError *ConfigurationError
	return errors.As(err, &configurationError)
}
