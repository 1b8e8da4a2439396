package validate

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pathlint/internal/utils"
	"github.com/temirov/pathlint/internal/utils/flags"
	pathutils "github.com/temirov/pathlint/internal/utils/path"
	"github.com/temirov/pathlint/internal/walker"
)

const commandLongDescriptionConstant = `validate walks the directory tree below <directory> and reports every name
that cannot be synchronized to OneDrive or SharePoint: forbidden characters,
reserved device names, trailing dots or spaces, invisible code points, overlong
names, and paths whose effective length exceeds the limit.

With --fix, offending names are renamed on disk to sanitized, collision free
alternatives. Path length violations are reported but never repaired.`

const (
	commandUseConstant                       = "validate <directory>"
	commandShortDescriptionConstant          = "Check names and paths below a directory for OneDrive and SharePoint compatibility"
	fixFlagNameConstant                      = "fix"
	fixFlagShorthandConstant                 = "f"
	fixFlagUsageConstant                     = "rename non-compliant entries in place"
	prefixLengthFlagNameConstant             = "prefix-len"
	prefixLengthFlagUsageConstant            = "length of the destination URL prefix counted towards the path limit"
	maxPathLengthFlagNameConstant            = "max-path-len"
	maxPathLengthFlagUsageConstant           = "maximum effective path length"
	reportFileFlagNameConstant               = "report"
	reportFileFlagUsageConstant              = "write a YAML report of all findings to this file"
	excludeFlagNameConstant                  = "exclude"
	excludeFlagUsageConstant                 = "glob pattern of relative paths to skip, repeatable"
	argumentCountErrorTemplateConstant       = "validate expects exactly one directory argument, got %d"
	rootResolutionErrorTemplateConstant      = "unable to resolve directory %q: %w"
	flagValueErrorTemplateConstant           = "invalid --%s value: %w"
	nonPositiveMaxPathLengthTemplateConstant = "--%s must be positive, got %d"
	expectedArgumentCountConstant            = 1
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the persisted validate settings.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the validate cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	FileSystem            walker.FileSystem
	ReportFileCreator     ReportFileCreator
	RootResolver          *pathutils.RootPathResolver
}

// Build constructs the validate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}
	command.SetFlagErrorFunc(wrapFlagError)

	defaults := DefaultCommandConfiguration()
	var fixModeFlagValue bool
	flags.AddToggleFlag(command.Flags(), &fixModeFlagValue, fixFlagNameConstant, fixFlagShorthandConstant, defaults.Fix, fixFlagUsageConstant)
	command.Flags().Int(prefixLengthFlagNameConstant, defaults.PrefixLength, prefixLengthFlagUsageConstant)
	command.Flags().Int(maxPathLengthFlagNameConstant, defaults.MaxPathLength, maxPathLengthFlagUsageConstant)
	command.Flags().String(reportFileFlagNameConstant, defaults.ReportFile, reportFileFlagUsageConstant)
	command.Flags().StringSlice(excludeFlagNameConstant, defaults.Exclude, excludeFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	service := NewService(builder.FileSystem, builder.resolveLogger(), outputWriter, builder.ReportFileCreator)
	_, runError := service.Run(command.Context(), options)
	return runError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (Options, error) {
	if len(arguments) != expectedArgumentCountConstant {
		return Options{}, &ConfigurationError{Err: fmt.Errorf(argumentCountErrorTemplateConstant, len(arguments))}
	}

	configuration := builder.resolveConfiguration()

	if command.Flags().Changed(fixFlagNameConstant) {
		fixFlag := command.Flags().Lookup(fixFlagNameConstant)
		fixValue, parseError := flags.ParseToggle(fixFlag.Value.String())
		if parseError != nil {
			return Options{}, &ConfigurationError{Err: fmt.Errorf(flagValueErrorTemplateConstant, fixFlagNameConstant, parseError)}
		}
		configuration.Fix = fixValue
	}
	if command.Flags().Changed(prefixLengthFlagNameConstant) {
		prefixLength, flagError := command.Flags().GetInt(prefixLengthFlagNameConstant)
		if flagError != nil {
			return Options{}, &ConfigurationError{Err: fmt.Errorf(flagValueErrorTemplateConstant, prefixLengthFlagNameConstant, flagError)}
		}
		configuration.PrefixLength = prefixLength
	}
	if command.Flags().Changed(maxPathLengthFlagNameConstant) {
		maxPathLength, flagError := command.Flags().GetInt(maxPathLengthFlagNameConstant)
		if flagError != nil {
			return Options{}, &ConfigurationError{Err: fmt.Errorf(flagValueErrorTemplateConstant, maxPathLengthFlagNameConstant, flagError)}
		}
		if maxPathLength <= 0 {
			return Options{}, &ConfigurationError{Err: fmt.Errorf(nonPositiveMaxPathLengthTemplateConstant, maxPathLengthFlagNameConstant, maxPathLength)}
		}
		configuration.MaxPathLength = maxPathLength
	}
	if command.Flags().Changed(reportFileFlagNameConstant) {
		reportFile, flagError := command.Flags().GetString(reportFileFlagNameConstant)
		if flagError != nil {
			return Options{}, &ConfigurationError{Err: fmt.Errorf(flagValueErrorTemplateConstant, reportFileFlagNameConstant, flagError)}
		}
		configuration.ReportFile = strings.TrimSpace(reportFile)
	}
	if command.Flags().Changed(excludeFlagNameConstant) {
		excludePatterns, flagError := command.Flags().GetStringSlice(excludeFlagNameConstant)
		if flagError != nil {
			return Options{}, &ConfigurationError{Err: fmt.Errorf(flagValueErrorTemplateConstant, excludeFlagNameConstant, flagError)}
		}
		configuration.Exclude = sanitizePatterns(excludePatterns)
	}

	rootPath, resolveError := builder.resolveRootResolver().Resolve(arguments[0])
	if resolveError != nil {
		return Options{}, &ConfigurationError{Err: fmt.Errorf(rootResolutionErrorTemplateConstant, arguments[0], resolveError)}
	}

	return Options{
		Root:          rootPath,
		Fix:           configuration.Fix,
		PrefixLength:  configuration.PrefixLength,
		MaxPathLength: configuration.MaxPathLength,
		ReportFile:    configuration.ReportFile,
		Exclude:       configuration.Exclude,
	}, nil
}

func wrapFlagError(_ *cobra.Command, flagError error) error {
	return &ConfigurationError{Err: flagError}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveRootResolver() *pathutils.RootPathResolver {
	if builder.RootResolver == nil {
		return pathutils.NewRootPathResolver()
	}
	return builder.RootResolver
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
