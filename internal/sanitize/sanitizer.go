// Package sanitize rewrites non-compliant names into deterministic OneDrive-compatible candidates.
package sanitize

import (
	"fmt"
	"strings"

	"github.com/temirov/pathlint/internal/compliance"
)

const (
	replacementRuneConstant          = '_'
	placeholderNameConstant          = "_"
	reservedNameGuardConstant        = "__"
	extensionSeparatorConstant       = "."
	collisionSuffixTemplateConstant  = "%s_%d%s"
	collisionCounterTemplateConstant = "_%d"
)

// Sanitizer produces compliant candidate names. It is a pure function of its input.
type Sanitizer struct {
	maxNameLength int
}

// NewSanitizer constructs a Sanitizer that honors the provided limits.
func NewSanitizer(limits compliance.Limits) Sanitizer {
	return Sanitizer{maxNameLength: limits.WithDefaults().MaxNameLength}
}

// Sanitize rewrites the name so that classifying it reports no violation the
// fix pass is responsible for. Compliant names are returned unchanged.
func (sanitizer Sanitizer) Sanitize(name string) string {
	visible := removeInvisibleRunes(name)
	replaced := replaceDisallowedRunes(visible)
	defused := defuseLeadingSigil(replaced)

	trimmed := strings.TrimRight(defused, compliance.TrailingCharacters())
	if len(trimmed) == 0 {
		trimmed = placeholderNameConstant
	}

	guarded := guardReservedName(trimmed)
	return sanitizer.enforceLength(guarded)
}

// SuffixedName inserts a numeric collision suffix before the extension,
// shortening the root when the suffixed name would exceed the maximum length.
func (sanitizer Sanitizer) SuffixedName(name string, counter int) string {
	root, extension := SplitExtension(name)
	counterSuffix := fmt.Sprintf(collisionCounterTemplateConstant, counter)
	suffixed := fmt.Sprintf(collisionSuffixTemplateConstant, root, counter, extension)
	if compliance.Length(suffixed) <= sanitizer.maxNameLength {
		return suffixed
	}

	allowedRootLength := sanitizer.maxNameLength - compliance.Length(counterSuffix) - compliance.Length(extension)
	if allowedRootLength > 0 {
		return fmt.Sprintf(collisionSuffixTemplateConstant, truncateRunes(root, allowedRootLength), counter, extension)
	}

	tail := lastRunes(name, sanitizer.maxNameLength-compliance.Length(counterSuffix))
	return defuseLeadingSigil(tail) + counterSuffix
}

func (sanitizer Sanitizer) enforceLength(name string) string {
	if compliance.Length(name) <= sanitizer.maxNameLength {
		return name
	}

	root, extension := SplitExtension(name)
	allowedRootLength := sanitizer.maxNameLength - compliance.Length(extension)
	if allowedRootLength <= 0 {
		return defuseLeadingSigil(lastRunes(name, sanitizer.maxNameLength))
	}

	shortenedRoot := truncateRunes(root, allowedRootLength)
	if len(extension) == 0 {
		shortenedRoot = strings.TrimRight(shortenedRoot, compliance.TrailingCharacters())
		if len(shortenedRoot) == 0 {
			shortenedRoot = placeholderNameConstant
		}
	}

	// A shortened root can expose a bare device name; dropping its last rune
	// is enough because no reserved name is a prefix of another.
	if base, reserved := compliance.ReservedBase(shortenedRoot + extension); reserved {
		baseRunes := []rune(base)
		shortenedRoot = string(baseRunes[:len(baseRunes)-1]) + shortenedRoot[len(base):]
	}

	return shortenedRoot + extension
}

// SplitExtension separates the final extension from the root. Leading
// periods belong to the root, so ".profile" has no extension.
func SplitExtension(name string) (string, string) {
	separatorIndex := strings.LastIndex(name, extensionSeparatorConstant)
	if separatorIndex <= 0 {
		return name, ""
	}
	if len(strings.TrimLeft(name[:separatorIndex], extensionSeparatorConstant)) == 0 {
		return name, ""
	}
	return name[:separatorIndex], name[separatorIndex:]
}

func removeInvisibleRunes(name string) string {
	var builder strings.Builder
	builder.Grow(len(name))
	for _, candidate := range strings.ToValidUTF8(name, "") {
		if compliance.IsControlRune(candidate) || compliance.IsInvisibleRune(candidate) {
			continue
		}
		builder.WriteRune(candidate)
	}
	return builder.String()
}

func replaceDisallowedRunes(name string) string {
	return strings.Map(func(candidate rune) rune {
		if compliance.IsForbiddenRune(candidate) || compliance.IsDiscouragedRune(candidate) {
			return replacementRuneConstant
		}
		return candidate
	}, name)
}

func defuseLeadingSigil(name string) string {
	sigil := string(compliance.LeadingSigil())
	if !strings.HasPrefix(name, sigil) {
		return name
	}
	return string(replacementRuneConstant) + strings.TrimPrefix(name, sigil)
}

func guardReservedName(name string) string {
	base, reserved := compliance.ReservedBase(name)
	if !reserved {
		return name
	}
	return base + reservedNameGuardConstant + name[len(base):]
}

func truncateRunes(value string, maximumLength int) string {
	runes := []rune(value)
	if len(runes) <= maximumLength {
		return value
	}
	return string(runes[:maximumLength])
}

func lastRunes(value string, count int) string {
	runes := []rune(value)
	if count <= 0 {
		return ""
	}
	if len(runes) <= count {
		return value
	}
	return string(runes[len(runes)-count:])
}
