// Package report renders walker events for people and machines.
//
// ConsoleReporter streams one tagged line per finding while the walk runs.
// Collector accumulates findings and renames into a RunReport that can be
// written as YAML once the walk completes.
package report
