// Package utils holds the ambient plumbing shared by pathlint commands.
//
// ConfigurationLoader layers embedded defaults, configuration files and
// environment variables through Viper. LoggerFactory builds the zap logger
// that writes diagnostics next to, never into, the report stream.
package utils
