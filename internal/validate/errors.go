package validate

import "errors"

const violationsDetectedMessageConstant = "validation found errors"

// ErrViolationsDetected reports that the run completed but counted at least one error.
var ErrViolationsDetected = errors.New(violationsDetectedMessageConstant)

// ConfigurationError reports invalid input detected before any traversal.
type ConfigurationError struct {
	Err error
}

// Error describes the configuration problem.
func (configurationError *ConfigurationError) Error() string {
	if configurationError == nil || configurationError.Err == nil {
		return ""
	}
	return configurationError.Err.Error()
}

// Unwrap exposes the underlying cause.
func (configurationError *ConfigurationError) Unwrap() error {
	if configurationError == nil {
		return nil
	}
	return configurationError.Err
}
