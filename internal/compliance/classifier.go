package compliance

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxNameLength is the longest base name OneDrive accepts, in code points.
	DefaultMaxNameLength = 255
	// DefaultMaxPathLength is the longest effective path SharePoint accepts, in code points.
	DefaultMaxPathLength = 400
)

// Limits bounds name and path lengths for one run.
type Limits struct {
	MaxNameLength int
	MaxPathLength int
}

// DefaultLimits returns the OneDrive limits.
func DefaultLimits() Limits {
	return Limits{
		MaxNameLength: DefaultMaxNameLength,
		MaxPathLength: DefaultMaxPathLength,
	}
}

// WithDefaults replaces unset or non-positive limits with the OneDrive defaults.
func (limits Limits) WithDefaults() Limits {
	resolved := limits
	if resolved.MaxNameLength <= 0 {
		resolved.MaxNameLength = DefaultMaxNameLength
	}
	if resolved.MaxPathLength <= 0 {
		resolved.MaxPathLength = DefaultMaxPathLength
	}
	return resolved
}

// Options controls how a name is classified.
type Options struct {
	// FixMode escalates warning categories to required renames.
	FixMode bool
	Limits  Limits
}

// Violation describes one broken rule.
type Violation struct {
	Category       Category
	Severity       Severity
	OffendingRunes []rune
	// MeasuredLength and LengthLimit are set for length categories only.
	MeasuredLength int
	LengthLimit    int
}

// Classification is the immutable result of classifying one name.
type Classification struct {
	violations     []Violation
	errorCount     int
	warningCount   int
	renameRequired bool
}

// ErrorCount returns the number of error-level categories the name violates.
func (classification Classification) ErrorCount() int {
	return classification.errorCount
}

// WarningCount returns the number of warning-level categories the name violates.
func (classification Classification) WarningCount() int {
	return classification.warningCount
}

// RenameRequired reports whether the name must be rewritten.
func (classification Classification) RenameRequired() bool {
	return classification.renameRequired
}

// Compliant reports whether no category fired.
func (classification Classification) Compliant() bool {
	return len(classification.violations) == 0
}

// Violations returns a copy of the violations in reporting order.
func (classification Classification) Violations() []Violation {
	duplicated := make([]Violation, len(classification.violations))
	for index, violation := range classification.violations {
		violation.OffendingRunes = append([]rune(nil), violation.OffendingRunes...)
		duplicated[index] = violation
	}
	return duplicated
}

// Categories returns the violated categories in reporting order.
func (classification Classification) Categories() []Category {
	categories := make([]Category, 0, len(classification.violations))
	for _, violation := range classification.violations {
		categories = append(categories, violation.Category)
	}
	return categories
}

// Has reports whether the category fired.
func (classification Classification) Has(category Category) bool {
	for _, violation := range classification.violations {
		if violation.Category == category {
			return true
		}
	}
	return false
}

// Classify evaluates every name rule against a single base name.
func Classify(name string, options Options) Classification {
	limits := options.Limits.WithDefaults()
	builder := &classificationBuilder{fixMode: options.FixMode}

	if nameLength := Length(name); nameLength > limits.MaxNameLength {
		builder.record(Violation{Category: CategoryNameLength, MeasuredLength: nameLength, LengthLimit: limits.MaxNameLength})
	}

	if forbiddenRunes := collectRunes(name, IsForbiddenRune); len(forbiddenRunes) > 0 {
		builder.record(Violation{Category: CategoryForbiddenCharacter, OffendingRunes: forbiddenRunes})
	}

	if endsWithTrailingRune(name) {
		builder.record(Violation{Category: CategoryTrailingCharacter})
	}

	if IsReservedName(name) {
		builder.record(Violation{Category: CategoryReservedName})
	}

	if controlRunes := collectRunes(name, IsControlRune); len(controlRunes) > 0 {
		builder.record(Violation{Category: CategoryControlCharacter, OffendingRunes: controlRunes})
	}

	if invisibleRunes := collectRunes(name, IsInvisibleRune); len(invisibleRunes) > 0 {
		builder.record(Violation{Category: CategoryInvisibleCharacter, OffendingRunes: invisibleRunes})
	}

	if !utf8.ValidString(name) {
		builder.record(Violation{Category: CategoryInvalidEncoding})
	}

	if discouragedRunes := collectRunes(name, IsDiscouragedRune); len(discouragedRunes) > 0 {
		builder.record(Violation{Category: CategoryDiscouragedCharacter, OffendingRunes: discouragedRunes})
	}

	if strings.HasPrefix(name, string(leadingSigilConstant)) {
		builder.record(Violation{Category: CategoryLeadingTilde})
	}

	return builder.build()
}

func endsWithTrailingRune(name string) bool {
	if len(name) == 0 {
		return false
	}
	lastRune, _ := utf8.DecodeLastRuneInString(name)
	return IsTrailingRune(lastRune)
}

type classificationBuilder struct {
	fixMode        bool
	violations     []Violation
	errorCount     int
	warningCount   int
	renameRequired bool
}

func (builder *classificationBuilder) record(violation Violation) {
	violation.Severity = violation.Category.Severity()
	builder.violations = append(builder.violations, violation)

	switch violation.Severity {
	case SeverityWarning:
		builder.warningCount++
		if builder.fixMode {
			builder.renameRequired = true
		}
	default:
		builder.errorCount++
		if violation.Category.Fixable() {
			builder.renameRequired = true
		}
	}
}

func (builder *classificationBuilder) build() Classification {
	return Classification{
		violations:     builder.violations,
		errorCount:     builder.errorCount,
		warningCount:   builder.warningCount,
		renameRequired: builder.renameRequired,
	}
}

// PathLengthCheck is the report-only effective path length measurement for one entry.
type PathLengthCheck struct {
	PrefixLength    int
	RelativeLength  int
	EffectiveLength int
	Limit           int
}

// Exceeded reports whether the effective length is above the limit.
func (check PathLengthCheck) Exceeded() bool {
	return check.EffectiveLength > check.Limit
}

// CheckPathLength measures the relative path, inclusive of its base name, plus the external prefix.
func CheckPathLength(relativePath string, prefixLength int, limits Limits) PathLengthCheck {
	resolvedLimits := limits.WithDefaults()
	relativeLength := Length(relativePath)
	return PathLengthCheck{
		PrefixLength:    prefixLength,
		RelativeLength:  relativeLength,
		EffectiveLength: prefixLength + relativeLength,
		Limit:           resolvedLimits.MaxPathLength,
	}
}
