package walker

import "github.com/temirov/pathlint/internal/compliance"

// EntryKind distinguishes directories from every other entry type.
type EntryKind string

// Entry kinds reported by the walker. Symbolic links are reported as files.
const (
	EntryKindFile      EntryKind = "file"
	EntryKindDirectory EntryKind = "directory"
)

// Entry identifies one child of a traversed directory.
type Entry struct {
	// ParentPath is the filesystem path of the containing directory.
	ParentPath string
	Name       string
	Kind       EntryKind
	// RelativePath is the entry path relative to the walk root.
	RelativePath string
}

// EntryVisit is emitted once for every entry after it has been classified.
type EntryVisit struct {
	Entry          Entry
	Classification compliance.Classification
	PathLength     compliance.PathLengthCheck
}

// RenameApplied is emitted after an entry has been renamed on disk.
type RenameApplied struct {
	Entry           Entry
	NewName         string
	NewRelativePath string
}

// DirectoryListingFailed is emitted when a directory cannot be listed.
type DirectoryListingFailed struct {
	RelativePath string
	Err          error
}

// Observer receives walker events as they happen.
type Observer interface {
	EntryVisited(visit EntryVisit)
	EntryRenamed(rename RenameApplied)
	DirectoryUnreadable(failure DirectoryListingFailed)
}

// Observers fans every event out to each member in order.
type Observers []Observer

// EntryVisited forwards the visit to every observer.
func (observers Observers) EntryVisited(visit EntryVisit) {
	for _, observer := range observers {
		if observer != nil {
			observer.EntryVisited(visit)
		}
	}
}

// EntryRenamed forwards the rename to every observer.
func (observers Observers) EntryRenamed(rename RenameApplied) {
	for _, observer := range observers {
		if observer != nil {
			observer.EntryRenamed(rename)
		}
	}
}

// DirectoryUnreadable forwards the listing failure to every observer.
func (observers Observers) DirectoryUnreadable(failure DirectoryListingFailed) {
	for _, observer := range observers {
		if observer != nil {
			observer.DirectoryUnreadable(failure)
		}
	}
}
