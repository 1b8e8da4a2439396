package flags

import (
	"fmt"
	"slices"
	"strings"
)

const (
	choiceSeparatorConstant           = "|"
	choicePlaceholderTemplateConstant = "`<%s>`"
	choiceUsageTemplateConstant       = "%s %s"
)

// MatchChoice returns the canonical spelling of candidate among choices,
// ignoring letter case and surrounding whitespace.
func MatchChoice(candidate string, choices []string) (string, bool) {
	normalizedCandidate := normalizeChoice(candidate)
	for _, choice := range choices {
		if normalizeChoice(choice) == normalizedCandidate {
			return strings.TrimSpace(choice), true
		}
	}
	return "", false
}

// FormatChoiceUsage renders "`<a|B|c>` description" with the default choice upper-cased.
// Blank and repeated choices are dropped.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := normalizeChoice(defaultChoice)
	displayed := make([]string, 0, len(choices))
	seen := make([]string, 0, len(choices))
	for _, choice := range choices {
		normalizedChoice := normalizeChoice(choice)
		if len(normalizedChoice) == 0 || slices.Contains(seen, normalizedChoice) {
			continue
		}
		seen = append(seen, normalizedChoice)

		displayValue := strings.TrimSpace(choice)
		if normalizedChoice == normalizedDefault {
			displayValue = strings.ToUpper(displayValue)
		}
		displayed = append(displayed, displayValue)
	}

	placeholder := fmt.Sprintf(choicePlaceholderTemplateConstant, strings.Join(displayed, choiceSeparatorConstant))
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return placeholder
	}
	return fmt.Sprintf(choiceUsageTemplateConstant, placeholder, trimmedDescription)
}

func normalizeChoice(choice string) string {
	return strings.ToLower(strings.TrimSpace(choice))
}
