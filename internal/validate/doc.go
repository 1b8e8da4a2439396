// Package validate implements the validate command: it audits a directory tree
// for OneDrive and SharePoint naming rules and, in fix mode, renames offending
// entries in place.
//
// It exposes CommandBuilder for wiring the Cobra command and Service for
// driving a run programmatically.
package validate
