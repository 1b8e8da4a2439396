package compliance

// Category identifies a single naming rule.
type Category string

// Supported rule categories.
const (
	CategoryForbiddenCharacter   Category = "forbidden-character"
	CategoryDiscouragedCharacter Category = "discouraged-character"
	CategoryControlCharacter     Category = "control-character"
	CategoryInvisibleCharacter   Category = "invisible-character"
	CategoryInvalidEncoding      Category = "invalid-encoding"
	CategoryReservedName         Category = "reserved-name"
	CategoryTrailingCharacter    Category = "trailing-character"
	CategoryLeadingTilde         Category = "leading-tilde"
	CategoryNameLength           Category = "name-length"
	CategoryPathLength           Category = "path-length"
)

// Severity describes how a violated category is counted.
type Severity string

// Supported severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

var categorySeverities = map[Category]Severity{
	CategoryForbiddenCharacter:   SeverityError,
	CategoryDiscouragedCharacter: SeverityWarning,
	CategoryControlCharacter:     SeverityError,
	CategoryInvisibleCharacter:   SeverityError,
	CategoryInvalidEncoding:      SeverityError,
	CategoryReservedName:         SeverityError,
	CategoryTrailingCharacter:    SeverityError,
	CategoryLeadingTilde:         SeverityWarning,
	CategoryNameLength:           SeverityError,
	CategoryPathLength:           SeverityError,
}

// Severity reports the severity of the category. Unknown categories are errors.
func (category Category) Severity() Severity {
	severity, known := categorySeverities[category]
	if !known {
		return SeverityError
	}
	return severity
}

// Fixable reports whether the sanitizer is responsible for repairing the category.
// Path length is report-only because shortening it means restructuring parents.
func (category Category) Fixable() bool {
	return category != CategoryPathLength
}

// Categories lists every supported category in reporting order.
func Categories() []Category {
	return []Category{
		CategoryNameLength,
		CategoryForbiddenCharacter,
		CategoryTrailingCharacter,
		CategoryReservedName,
		CategoryControlCharacter,
		CategoryInvisibleCharacter,
		CategoryInvalidEncoding,
		CategoryDiscouragedCharacter,
		CategoryLeadingTilde,
		CategoryPathLength,
	}
}
