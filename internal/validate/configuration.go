package validate

import (
	"strings"

	"github.com/temirov/pathlint/internal/compliance"
)

const (
	fixConfigurationKeyConstant           = "fix"
	prefixLengthConfigurationKeyConstant  = "prefix_length"
	maxPathLengthConfigurationKeyConstant = "max_path_length"
	reportFileConfigurationKeyConstant    = "report_file"
	excludeConfigurationKeyConstant       = "exclude"
	configurationKeySeparatorConstant     = "."
)

// CommandConfiguration captures persistent settings for the validate command.
type CommandConfiguration struct {
	Fix           bool     `mapstructure:"fix"`
	PrefixLength  int      `mapstructure:"prefix_length"`
	MaxPathLength int      `mapstructure:"max_path_length"`
	ReportFile    string   `mapstructure:"report_file"`
	Exclude       []string `mapstructure:"exclude"`
}

// DefaultCommandConfiguration returns baseline configuration values for the validate command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Fix:           false,
		PrefixLength:  0,
		MaxPathLength: compliance.DefaultMaxPathLength,
		ReportFile:    "",
		Exclude:       []string{},
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys nested under the provided prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	qualify := func(key string) string {
		trimmedPrefix := strings.TrimSpace(configurationKeyPrefix)
		if len(trimmedPrefix) == 0 {
			return key
		}
		return trimmedPrefix + configurationKeySeparatorConstant + key
	}

	return map[string]any{
		qualify(fixConfigurationKeyConstant):           defaults.Fix,
		qualify(prefixLengthConfigurationKeyConstant):  defaults.PrefixLength,
		qualify(maxPathLengthConfigurationKeyConstant): defaults.MaxPathLength,
		qualify(reportFileConfigurationKeyConstant):    defaults.ReportFile,
		qualify(excludeConfigurationKeyConstant):       defaults.Exclude,
	}
}

// sanitize trims string values and replaces an unset path limit with the default.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.ReportFile = strings.TrimSpace(configuration.ReportFile)
	sanitized.Exclude = sanitizePatterns(configuration.Exclude)
	if sanitized.MaxPathLength == 0 {
		sanitized.MaxPathLength = compliance.DefaultMaxPathLength
	}

	return sanitized
}

func sanitizePatterns(patterns []string) []string {
	sanitized := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if trimmedPattern := strings.TrimSpace(pattern); len(trimmedPattern) > 0 {
			sanitized = append(sanitized, trimmedPattern)
		}
	}
	return sanitized
}
