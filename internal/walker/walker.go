package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/pathlint/internal/compliance"
	"github.com/temirov/pathlint/internal/sanitize"
)

const (
	firstCollisionCounterConstant               = 1
	renameTargetInspectionErrorTemplateConstant = "unable to inspect rename target %s: %w"
	entryVisitedMessageConstant                 = "entry classified"
	entryRenamedMessageConstant                 = "entry renamed"
	renameCollisionMessageConstant              = "rename target taken, using suffixed name"
	directoryUnreadableMessageConstant          = "directory cannot be listed"
	entryExcludedMessageConstant                = "entry excluded"
	logFieldRelativePathConstant                = "relative_path"
	logFieldNewRelativePathConstant             = "new_relative_path"
	logFieldKindConstant                        = "kind"
	logFieldErrorsConstant                      = "errors"
	logFieldWarningsConstant                    = "warnings"
	logFieldEffectivePathLengthConstant         = "effective_path_length"
	logFieldRenameRequiredConstant              = "rename_required"
	logFieldCollisionCounterConstant            = "collision_counter"
	unreadableDirectoryErrorCountConstant       = 1
	exceededPathLengthErrorCountConstant        = 1
)

// Options configures a traversal.
type Options struct {
	FixMode      bool
	PrefixLength int
	Limits       compliance.Limits
	// ExcludePatterns are doublestar globs matched against slash separated
	// relative paths. Matching entries are neither classified nor descended.
	ExcludePatterns []string
}

// Walker classifies every entry below a root directory and repairs names in fix mode.
type Walker struct {
	fileSystem FileSystem
	observer   Observer
	logger     *zap.Logger
	sanitizer  sanitize.Sanitizer
	options    Options
}

// NewWalker constructs a Walker. Nil collaborators fall back to the operating
// system filesystem, a silent observer, and a no-op logger.
func NewWalker(fileSystem FileSystem, observer Observer, logger *zap.Logger, options Options) *Walker {
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	if observer == nil {
		observer = Observers(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	resolvedOptions := options
	resolvedOptions.Limits = options.Limits.WithDefaults()

	return &Walker{
		fileSystem: fileSystem,
		observer:   observer,
		logger:     logger,
		sanitizer:  sanitize.NewSanitizer(resolvedOptions.Limits),
		options:    resolvedOptions,
	}
}

// Walk traverses every descendant of root. The root itself is not classified.
// Validation findings are counted in the returned totals; only rename failures
// and context cancellation produce an error.
func (walker *Walker) Walk(executionContext context.Context, root string) (Totals, error) {
	return walker.visitDirectory(executionContext, root, "")
}

func (walker *Walker) visitDirectory(executionContext context.Context, directoryPath string, relativeDirectoryPath string) (Totals, error) {
	directoryEntries, listingError := walker.fileSystem.ReadDir(directoryPath)
	if listingError != nil {
		walker.observer.DirectoryUnreadable(DirectoryListingFailed{RelativePath: relativeDirectoryPath, Err: listingError})
		walker.logger.Warn(
			directoryUnreadableMessageConstant,
			zap.String(logFieldRelativePathConstant, relativeDirectoryPath),
			zap.Error(listingError),
		)
		return Totals{Errors: unreadableDirectoryErrorCountConstant}, nil
	}

	directories, files := partitionEntries(directoryPath, relativeDirectoryPath, directoryEntries)
	directories = walker.withoutExcluded(directories)
	files = walker.withoutExcluded(files)
	levelTotals := Totals{}

	pendingDirectories := make([]Entry, 0, len(directories))
	for _, directory := range directories {
		if contextError := executionContext.Err(); contextError != nil {
			return levelTotals, contextError
		}
		currentDirectory, entryTotals, inspectionError := walker.inspectEntry(directory)
		levelTotals = levelTotals.Merge(entryTotals)
		if inspectionError != nil {
			return levelTotals, inspectionError
		}
		pendingDirectories = append(pendingDirectories, currentDirectory)
	}

	for _, pendingDirectory := range pendingDirectories {
		if contextError := executionContext.Err(); contextError != nil {
			return levelTotals, contextError
		}
		childPath := filepath.Join(pendingDirectory.ParentPath, pendingDirectory.Name)
		subtreeTotals, subtreeError := walker.visitDirectory(executionContext, childPath, pendingDirectory.RelativePath)
		levelTotals = levelTotals.Merge(subtreeTotals)
		if subtreeError != nil {
			return levelTotals, subtreeError
		}
	}

	for _, file := range files {
		if contextError := executionContext.Err(); contextError != nil {
			return levelTotals, contextError
		}
		_, entryTotals, inspectionError := walker.inspectEntry(file)
		levelTotals = levelTotals.Merge(entryTotals)
		if inspectionError != nil {
			return levelTotals, inspectionError
		}
	}

	return levelTotals, nil
}

// inspectEntry classifies one entry and renames it when required. It returns
// the entry as it exists on disk afterwards.
func (walker *Walker) inspectEntry(entry Entry) (Entry, Totals, error) {
	classification := compliance.Classify(entry.Name, compliance.Options{FixMode: walker.options.FixMode, Limits: walker.options.Limits})
	pathLength := compliance.CheckPathLength(entry.RelativePath, walker.options.PrefixLength, walker.options.Limits)

	entryTotals := Totals{Errors: classification.ErrorCount(), Warnings: classification.WarningCount()}
	if pathLength.Exceeded() {
		entryTotals.Errors += exceededPathLengthErrorCountConstant
	}

	walker.observer.EntryVisited(EntryVisit{Entry: entry, Classification: classification, PathLength: pathLength})
	walker.logger.Debug(
		entryVisitedMessageConstant,
		zap.String(logFieldRelativePathConstant, entry.RelativePath),
		zap.String(logFieldKindConstant, string(entry.Kind)),
		zap.Int(logFieldErrorsConstant, entryTotals.Errors),
		zap.Int(logFieldWarningsConstant, entryTotals.Warnings),
		zap.Int(logFieldEffectivePathLengthConstant, pathLength.EffectiveLength),
		zap.Bool(logFieldRenameRequiredConstant, classification.RenameRequired()),
	)

	if !walker.options.FixMode || !classification.RenameRequired() {
		return entry, entryTotals, nil
	}

	candidateName := walker.sanitizer.Sanitize(entry.Name)
	if candidateName == entry.Name {
		return entry, entryTotals, nil
	}

	uniqueName, resolutionError := walker.resolveUniqueName(entry.ParentPath, candidateName)
	if resolutionError != nil {
		return entry, entryTotals, resolutionError
	}

	oldPath := filepath.Join(entry.ParentPath, entry.Name)
	newPath := filepath.Join(entry.ParentPath, uniqueName)
	if renameError := walker.fileSystem.Rename(oldPath, newPath); renameError != nil {
		return entry, entryTotals, &RenameError{OldPath: oldPath, NewPath: newPath, Err: renameError}
	}

	renamedEntry := entry
	renamedEntry.Name = uniqueName
	renamedEntry.RelativePath = filepath.Join(filepath.Dir(entry.RelativePath), uniqueName)
	entryTotals.Renames++

	walker.observer.EntryRenamed(RenameApplied{Entry: entry, NewName: uniqueName, NewRelativePath: renamedEntry.RelativePath})
	walker.logger.Info(
		entryRenamedMessageConstant,
		zap.String(logFieldRelativePathConstant, entry.RelativePath),
		zap.String(logFieldNewRelativePathConstant, renamedEntry.RelativePath),
		zap.String(logFieldKindConstant, string(entry.Kind)),
	)

	return renamedEntry, entryTotals, nil
}

// resolveUniqueName returns the candidate itself when it is free in the live
// directory, otherwise the first free suffixed variant.
func (walker *Walker) resolveUniqueName(parentPath string, candidateName string) (string, error) {
	available, inspectionError := walker.nameAvailable(filepath.Join(parentPath, candidateName))
	if inspectionError != nil {
		return "", inspectionError
	}
	if available {
		return candidateName, nil
	}

	for collisionCounter := firstCollisionCounterConstant; ; collisionCounter++ {
		suffixedName := walker.sanitizer.SuffixedName(candidateName, collisionCounter)
		available, inspectionError = walker.nameAvailable(filepath.Join(parentPath, suffixedName))
		if inspectionError != nil {
			return "", inspectionError
		}
		if available {
			walker.logger.Debug(
				renameCollisionMessageConstant,
				zap.String(logFieldRelativePathConstant, suffixedName),
				zap.Int(logFieldCollisionCounterConstant, collisionCounter),
			)
			return suffixedName, nil
		}
	}
}

func (walker *Walker) nameAvailable(candidatePath string) (bool, error) {
	_, statError := walker.fileSystem.Lstat(candidatePath)
	switch {
	case statError == nil:
		return false, nil
	case errors.Is(statError, fs.ErrNotExist):
		return true, nil
	default:
		return false, fmt.Errorf(renameTargetInspectionErrorTemplateConstant, candidatePath, statError)
	}
}

func (walker *Walker) withoutExcluded(entries []Entry) []Entry {
	if len(walker.options.ExcludePatterns) == 0 {
		return entries
	}
	retained := entries[:0]
	for _, entry := range entries {
		if excluded(walker.options.ExcludePatterns, entry.RelativePath) {
			walker.logger.Debug(entryExcludedMessageConstant, zap.String(logFieldRelativePathConstant, entry.RelativePath))
			continue
		}
		retained = append(retained, entry)
	}
	return retained
}

func partitionEntries(directoryPath string, relativeDirectoryPath string, directoryEntries []fs.DirEntry) ([]Entry, []Entry) {
	sortedEntries := append([]fs.DirEntry(nil), directoryEntries...)
	sort.Slice(sortedEntries, func(first int, second int) bool {
		return sortedEntries[first].Name() < sortedEntries[second].Name()
	})

	directories := make([]Entry, 0, len(sortedEntries))
	files := make([]Entry, 0, len(sortedEntries))
	for _, directoryEntry := range sortedEntries {
		entry := Entry{
			ParentPath:   directoryPath,
			Name:         directoryEntry.Name(),
			Kind:         EntryKindFile,
			RelativePath: filepath.Join(relativeDirectoryPath, directoryEntry.Name()),
		}
		if directoryEntry.IsDir() {
			entry.Kind = EntryKindDirectory
			directories = append(directories, entry)
			continue
		}
		files = append(files, entry)
	}
	return directories, files
}
