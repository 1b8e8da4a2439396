package walker

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

const invalidExcludePatternTemplateConstant = "invalid exclude pattern %q: %w"

// ValidateExcludePatterns reports the first pattern that is not a valid doublestar glob.
func ValidateExcludePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf(invalidExcludePatternTemplateConstant, pattern, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// excluded reports whether the slash separated relative path matches any pattern.
// Malformed patterns never match.
func excluded(patterns []string, relativePath string) bool {
	normalizedPath := filepath.ToSlash(relativePath)
	for _, pattern := range patterns {
		if matched, matchError := doublestar.Match(pattern, normalizedPath); matchError == nil && matched {
			return true
		}
	}
	return false
}
