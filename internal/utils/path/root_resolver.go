// Package pathutils normalizes the directory argument a command operates on.
package pathutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	emptyRootPathMessageConstant          = "directory argument is empty"
	absoluteRootPathErrorTemplateConstant = "unable to resolve directory %q: %w"
	homeShortcutConstant                  = "~"
	homeShortcutSeparatorConstant         = "/"
)

// ErrEmptyRootPath reports a blank directory argument.
var ErrEmptyRootPath = errors.New(emptyRootPathMessageConstant)

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// AbsolutePathResolver converts a cleaned path into an absolute one.
type AbsolutePathResolver func(string) (string, error)

// RootPathResolver turns a user supplied directory argument into a clean absolute path.
type RootPathResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	absolutePathResolver  AbsolutePathResolver
}

// NewRootPathResolver constructs a RootPathResolver using operating system lookups.
func NewRootPathResolver() *RootPathResolver {
	return NewRootPathResolverWithDependencies(nil, nil)
}

// NewRootPathResolverWithDependencies constructs a RootPathResolver with custom
// lookups. Nil arguments fall back to os.UserHomeDir and filepath.Abs.
func NewRootPathResolverWithDependencies(homeDirectoryProvider HomeDirectoryProvider, absolutePathResolver AbsolutePathResolver) *RootPathResolver {
	if homeDirectoryProvider == nil {
		homeDirectoryProvider = os.UserHomeDir
	}
	if absolutePathResolver == nil {
		absolutePathResolver = filepath.Abs
	}
	return &RootPathResolver{homeDirectoryProvider: homeDirectoryProvider, absolutePathResolver: absolutePathResolver}
}

// Resolve expands a leading "~" and returns a clean absolute path. Surrounding
// whitespace belongs to the directory name and is kept; an all-blank argument is rejected.
func (resolver *RootPathResolver) Resolve(candidatePath string) (string, error) {
	if len(strings.TrimSpace(candidatePath)) == 0 {
		return "", ErrEmptyRootPath
	}

	expandedPath := resolver.expandHome(candidatePath)
	absolutePath, absoluteError := resolver.absolutePathResolver(filepath.Clean(expandedPath))
	if absoluteError != nil {
		return "", fmt.Errorf(absoluteRootPathErrorTemplateConstant, candidatePath, absoluteError)
	}
	return absolutePath, nil
}

// expandHome handles "~" and "~/..." only. "~user" forms and failed lookups keep the input.
func (resolver *RootPathResolver) expandHome(candidatePath string) string {
	remainder, hasShortcut := strings.CutPrefix(candidatePath, homeShortcutConstant)
	if !hasShortcut {
		return candidatePath
	}
	if len(remainder) > 0 && !strings.HasPrefix(remainder, homeShortcutSeparatorConstant) && !strings.HasPrefix(remainder, string(os.PathSeparator)) {
		return candidatePath
	}

	homeDirectory, lookupError := resolver.homeDirectoryProvider()
	if lookupError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(homeDirectory, remainder)
}
