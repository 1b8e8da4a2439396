package walker

import "fmt"

const renameErrorTemplateConstant = "unable to rename %s to %s: %v"

// RenameError reports a rename the operating system refused. It aborts the walk.
type RenameError struct {
	OldPath string
	NewPath string
	Err     error
}

// Error describes the failure.
func (renameError *RenameError) Error() string {
	return fmt.Sprintf(renameErrorTemplateConstant, renameError.OldPath, renameError.NewPath, renameError.Err)
}

// Unwrap exposes the underlying operating system error.
func (renameError *RenameError) Unwrap() error {
	return renameError.Err
}
