package flags

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

const choiceSubtestNameTemplateConstant = "%d_%s"

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "log_level_default_last",
			defaultChoice:  "error",
			choices:        []string{"debug", "info", "warn", "error"},
			description:    "minimum diagnostic log level",
			expectedOutput: "`<debug|info|warn|ERROR>` minimum diagnostic log level",
		},
		{
			name:           "log_format_default_second",
			defaultChoice:  "console",
			choices:        []string{"structured", "console"},
			description:    "diagnostic log encoding",
			expectedOutput: "`<structured|CONSOLE>` diagnostic log encoding",
		},
		{
			name:           "blank_description",
			defaultChoice:  "structured",
			choices:        []string{"structured", "console"},
			expectedOutput: "`<STRUCTURED|console>`",
		},
		{
			name:           "duplicates_and_blanks_dropped",
			defaultChoice:  "info",
			choices:        []string{"info", "INFO", " ", "debug"},
			description:    "level",
			expectedOutput: "`<INFO|debug>` level",
		},
		{
			name:           "unknown_default_highlights_nothing",
			defaultChoice:  "trace",
			choices:        []string{" debug ", "info"},
			description:    "level",
			expectedOutput: "`<debug|info>` level",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(choiceSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}

func TestMatchChoice(testInstance *testing.T) {
	testCases := []struct {
		name          string
		candidate     string
		expectedMatch string
		expectedFound bool
	}{
		{name: "exact", candidate: "console", expectedMatch: "console", expectedFound: true},
		{name: "case_and_spaces", candidate: "  STRUCTURED ", expectedMatch: "structured", expectedFound: true},
		{name: "unknown", candidate: "pretty"},
		{name: "blank", candidate: ""},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(choiceSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			matched, found := MatchChoice(testCase.candidate, []string{"structured", " console"})
			require.Equal(testInstance, testCase.expectedFound, found)
			require.Equal(testInstance, testCase.expectedMatch, matched)
		})
	}
}
