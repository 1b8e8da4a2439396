package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/pathlint/internal/compliance"
	"github.com/temirov/pathlint/internal/walker"
)

const (
	taggedLineTemplateConstant           = "%s %s\n"
	pathWithinLimitTemplateConstant      = "%4d chars OK - %s"
	pathTooLongTemplateConstant          = "Path too long (%d > %d): %s"
	pathTooLongDetailTemplateConstant    = "        (prefix: %d, raw: %d)\n"
	nameTooLongTemplateConstant          = "Name too long (%d > %d): %s"
	forbiddenCharacterTemplateConstant   = "Invalid character(s) \"%s\" in: %s"
	trailingCharacterTemplateConstant    = "Name ends with space or dot: %s"
	reservedNameTemplateConstant         = "Reserved Windows name (CON/PRN/...): %s"
	controlCharacterTemplateConstant     = "Control/unprintable char(s) (%s) in: %s"
	invisibleCharacterTemplateConstant   = "Zero-width/RTL char(s) (%s) in: %s"
	invalidEncodingTemplateConstant      = "Invalid UTF-8 encoding in: %s"
	discouragedCharacterTemplateConstant = "Contains potentially problematic char(s) \"%s\": %s"
	leadingTildeTemplateConstant         = "Name starts with '~' (can confuse some tools): %s"
	genericViolationTemplateConstant     = "%s: %s"
	renamedTemplateConstant              = "Renamed: %s -> %s"
	unreadableDirectoryTemplateConstant  = "Directory cannot be read (%v): %s"
	fixModeBannerConstant                = "!!! WARNING: Running in FIX mode, files/directories will be renamed on disk.\n!!! Consider running without --fix first as a dry-run.\n\n"
	summaryTemplateConstant              = "\nValidation finished for: %s\n  Errors  : %d\n  Warnings: %d\n  Renamed : %d\n"
	codePointTemplateConstant            = "U+%04X"
	codePointSeparatorConstant           = ", "
	rootDisplayPathConstant              = "."
	invalidByteReplacementConstant       = "\uFFFD"
)

// ConsoleReporter streams human-readable findings as the walker emits them.
type ConsoleReporter struct {
	sink   *lineSink
	styles tagStyles
}

// NewConsoleReporter constructs a ConsoleReporter writing to the provided writer.
func NewConsoleReporter(writer io.Writer) *ConsoleReporter {
	sink := newLineSink(writer)
	return &ConsoleReporter{sink: sink, styles: newTagStyles(sink.writer)}
}

// Err returns the first failure writing to the report stream.
func (console *ConsoleReporter) Err() error {
	return console.sink.writeError
}

// PrintFixModeBanner announces that the run will mutate the tree.
func (console *ConsoleReporter) PrintFixModeBanner() {
	console.sink.printf(fixModeBannerConstant)
}

// PrintSummary writes the totals for the whole run.
func (console *ConsoleReporter) PrintSummary(root string, totals walker.Totals) {
	console.sink.printf(summaryTemplateConstant, root, totals.Errors, totals.Warnings, totals.Renames)
}

// EntryVisited writes the path length line followed by one line per violation.
func (console *ConsoleReporter) EntryVisited(visit walker.EntryVisit) {
	displayPath := displayablePath(visit.Entry.RelativePath)

	pathLength := visit.PathLength
	if pathLength.Exceeded() {
		console.printError(fmt.Sprintf(pathTooLongTemplateConstant, pathLength.EffectiveLength, pathLength.Limit, displayPath))
		console.sink.printf(pathTooLongDetailTemplateConstant, pathLength.PrefixLength, pathLength.RelativeLength)
	} else {
		console.printTagged(console.styles.pathTag, fmt.Sprintf(pathWithinLimitTemplateConstant, pathLength.EffectiveLength, displayPath))
	}

	for _, violation := range visit.Classification.Violations() {
		message := describeViolation(violation, displayPath)
		if violation.Severity == compliance.SeverityWarning {
			console.printTagged(console.styles.warningTag, message)
			continue
		}
		console.printError(message)
	}
}

// EntryRenamed writes the rename with both relative paths.
func (console *ConsoleReporter) EntryRenamed(rename walker.RenameApplied) {
	message := fmt.Sprintf(renamedTemplateConstant, displayablePath(rename.Entry.RelativePath), displayablePath(rename.NewRelativePath))
	console.printTagged(console.styles.fixTag, message)
}

// DirectoryUnreadable writes the listing failure as an error line.
func (console *ConsoleReporter) DirectoryUnreadable(failure walker.DirectoryListingFailed) {
	console.printError(fmt.Sprintf(unreadableDirectoryTemplateConstant, failure.Err, displayablePath(failure.RelativePath)))
}

func (console *ConsoleReporter) printError(message string) {
	console.printTagged(console.styles.errorTag, message)
}

func (console *ConsoleReporter) printTagged(tag string, message string) {
	console.sink.printf(taggedLineTemplateConstant, tag, message)
}

func describeViolation(violation compliance.Violation, displayPath string) string {
	switch violation.Category {
	case compliance.CategoryNameLength:
		return fmt.Sprintf(nameTooLongTemplateConstant, violation.MeasuredLength, violation.LengthLimit, displayPath)
	case compliance.CategoryForbiddenCharacter:
		return fmt.Sprintf(forbiddenCharacterTemplateConstant, string(violation.OffendingRunes), displayPath)
	case compliance.CategoryTrailingCharacter:
		return fmt.Sprintf(trailingCharacterTemplateConstant, displayPath)
	case compliance.CategoryReservedName:
		return fmt.Sprintf(reservedNameTemplateConstant, displayPath)
	case compliance.CategoryControlCharacter:
		return fmt.Sprintf(controlCharacterTemplateConstant, formatCodePoints(violation.OffendingRunes), displayPath)
	case compliance.CategoryInvisibleCharacter:
		return fmt.Sprintf(invisibleCharacterTemplateConstant, formatCodePoints(violation.OffendingRunes), displayPath)
	case compliance.CategoryInvalidEncoding:
		return fmt.Sprintf(invalidEncodingTemplateConstant, displayPath)
	case compliance.CategoryDiscouragedCharacter:
		return fmt.Sprintf(discouragedCharacterTemplateConstant, string(violation.OffendingRunes), displayPath)
	case compliance.CategoryLeadingTilde:
		return fmt.Sprintf(leadingTildeTemplateConstant, displayPath)
	default:
		return fmt.Sprintf(genericViolationTemplateConstant, violation.Category, displayPath)
	}
}

func formatCodePoints(runes []rune) string {
	codePoints := make([]string, 0, len(runes))
	for _, offendingRune := range runes {
		codePoints = append(codePoints, fmt.Sprintf(codePointTemplateConstant, offendingRune))
	}
	return strings.Join(codePoints, codePointSeparatorConstant)
}

// displayablePath keeps the report stream valid UTF-8 and names the root explicitly.
func displayablePath(relativePath string) string {
	if len(relativePath) == 0 {
		return rootDisplayPathConstant
	}
	return strings.ToValidUTF8(relativePath, invalidByteReplacementConstant)
}
