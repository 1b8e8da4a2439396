// Package cli constructs the pathlint command-line interface. It wires the
// Cobra command hierarchy to the viper backed configuration loader and the zap
// diagnostic logger, and maps command failures to process exit codes.
package cli
