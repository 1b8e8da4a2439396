// Package compliance classifies file and directory names against the
// OneDrive and SharePoint naming rules.
//
// Every rule is a Category evaluated independently of the others, so a single
// name reports each rule it breaks. Classify inspects one base name and
// CheckPathLength measures the effective length of a relative path. Neither
// performs I/O.
package compliance
