package report

import (
	"fmt"
	"io"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/pathlint/internal/compliance"
	"github.com/temirov/pathlint/internal/walker"
)

const (
	unreadableDirectoryFindingConstant = "unreadable-directory"
	yamlIndentationConstant            = 2
	reportEncodeErrorTemplateConstant  = "unable to encode run report: %w"
	reportFlushErrorTemplateConstant   = "unable to flush run report: %w"
)

// RunReport is the machine-readable outcome of one run.
type RunReport struct {
	RunID         string        `yaml:"run_id,omitempty"`
	Root          string        `yaml:"root"`
	FixMode       bool          `yaml:"fix"`
	PrefixLength  int           `yaml:"prefix_length"`
	MaxPathLength int           `yaml:"max_path_length"`
	Exclude       []string      `yaml:"exclude,omitempty"`
	Totals        walker.Totals `yaml:"totals"`
	Entries       []EntryRecord `yaml:"entries"`
}

// EntryRecord describes one entry with at least one finding or rename.
type EntryRecord struct {
	Path                string           `yaml:"path"`
	Kind                walker.EntryKind `yaml:"kind"`
	Errors              []string         `yaml:"errors,omitempty"`
	Warnings            []string         `yaml:"warnings,omitempty"`
	EffectivePathLength int              `yaml:"effective_path_length,omitempty"`
	RenamedTo           string           `yaml:"renamed_to,omitempty"`
}

// Collector records findings and renames for the YAML report.
type Collector struct {
	entries       []EntryRecord
	entryPosition map[string]int
}

// NewCollector constructs an empty Collector.
func NewCollector() *Collector {
	return &Collector{entryPosition: make(map[string]int)}
}

// EntryVisited records the visit when it produced at least one finding.
func (collector *Collector) EntryVisited(visit walker.EntryVisit) {
	record := EntryRecord{
		Path:                filepath.ToSlash(visit.Entry.RelativePath),
		Kind:                visit.Entry.Kind,
		EffectivePathLength: visit.PathLength.EffectiveLength,
	}
	if visit.PathLength.Exceeded() {
		record.Errors = append(record.Errors, string(compliance.CategoryPathLength))
	}
	for _, violation := range visit.Classification.Violations() {
		if violation.Severity == compliance.SeverityWarning {
			record.Warnings = append(record.Warnings, string(violation.Category))
			continue
		}
		record.Errors = append(record.Errors, string(violation.Category))
	}
	if len(record.Errors) == 0 && len(record.Warnings) == 0 {
		return
	}
	collector.append(record)
}

// EntryRenamed attaches the new relative path to the entry record.
func (collector *Collector) EntryRenamed(rename walker.RenameApplied) {
	relativePath := filepath.ToSlash(rename.Entry.RelativePath)
	newRelativePath := filepath.ToSlash(rename.NewRelativePath)
	if position, exists := collector.entryPosition[relativePath]; exists {
		collector.entries[position].RenamedTo = newRelativePath
		return
	}
	collector.append(EntryRecord{Path: relativePath, Kind: rename.Entry.Kind, RenamedTo: newRelativePath})
}

// DirectoryUnreadable records the listing failure as an error finding.
func (collector *Collector) DirectoryUnreadable(failure walker.DirectoryListingFailed) {
	relativePath := filepath.ToSlash(failure.RelativePath)
	if len(relativePath) == 0 {
		relativePath = rootDisplayPathConstant
	}
	collector.append(EntryRecord{
		Path:   relativePath,
		Kind:   walker.EntryKindDirectory,
		Errors: []string{unreadableDirectoryFindingConstant},
	})
}

// Entries returns a copy of the collected records in visit order.
func (collector *Collector) Entries() []EntryRecord {
	return append([]EntryRecord(nil), collector.entries...)
}

// Report assembles the run report around the collected records.
func (collector *Collector) Report(root string, options walker.Options, totals walker.Totals) RunReport {
	return RunReport{
		Root:          root,
		FixMode:       options.FixMode,
		PrefixLength:  options.PrefixLength,
		MaxPathLength: options.Limits.WithDefaults().MaxPathLength,
		Exclude:       append([]string(nil), options.ExcludePatterns...),
		Totals:        totals,
		Entries:       collector.Entries(),
	}
}

func (collector *Collector) append(record EntryRecord) {
	collector.entryPosition[record.Path] = len(collector.entries)
	collector.entries = append(collector.entries, record)
}

// WriteYAML encodes the run report as a YAML document.
func WriteYAML(writer io.Writer, runReport RunReport) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentationConstant)
	if encodeError := encoder.Encode(runReport); encodeError != nil {
		return fmt.Errorf(reportEncodeErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(reportFlushErrorTemplateConstant, closeError)
	}
	return nil
}
