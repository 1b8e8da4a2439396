package compliance

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	forbiddenCharactersConstant      = "\"*:<>?/\\|"
	discouragedCharactersConstant    = "#%"
	trailingCharactersConstant       = " ."
	reservedNameSeparatorConstant    = "."
	leadingSigilConstant             = '~'
	printableRangeStartConstant      = 0x20
	c1ControlRangeStartConstant      = 0x7F
	c1ControlRangeEndConstant        = 0x9F
	serialDeviceNamePrefixConstant   = "COM"
	parallelDeviceNamePrefixConstant = "LPT"
	deviceNameTemplateConstant       = "%s%d"
	firstDeviceNumberConstant        = 1
	lastDeviceNumberConstant         = 9
)

type runeRange struct {
	first rune
	last  rune
}

var invisibleRuneRanges = []runeRange{
	{first: 0x200B, last: 0x200F},
	{first: 0x202A, last: 0x202E},
	{first: 0x2060, last: 0x206F},
}

var reservedDeviceNames = buildReservedDeviceNames()

func buildReservedDeviceNames() map[string]struct{} {
	names := map[string]struct{}{
		"CON": {},
		"PRN": {},
		"AUX": {},
		"NUL": {},
	}
	for deviceNumber := firstDeviceNumberConstant; deviceNumber <= lastDeviceNumberConstant; deviceNumber++ {
		names[fmt.Sprintf(deviceNameTemplateConstant, serialDeviceNamePrefixConstant, deviceNumber)] = struct{}{}
		names[fmt.Sprintf(deviceNameTemplateConstant, parallelDeviceNamePrefixConstant, deviceNumber)] = struct{}{}
	}
	return names
}

// IsForbiddenRune reports whether the rune can never appear in a OneDrive name.
func IsForbiddenRune(candidate rune) bool {
	return strings.ContainsRune(forbiddenCharactersConstant, candidate)
}

// IsDiscouragedRune reports whether the rune is legal but known to break downstream tooling.
func IsDiscouragedRune(candidate rune) bool {
	return strings.ContainsRune(discouragedCharactersConstant, candidate)
}

// IsControlRune reports whether the rune is below the printable ASCII range or a C1 control.
func IsControlRune(candidate rune) bool {
	return candidate < printableRangeStartConstant || (candidate >= c1ControlRangeStartConstant && candidate <= c1ControlRangeEndConstant)
}

// IsInvisibleRune reports whether the rune is a zero-width, bidirectional control, or invisible operator.
func IsInvisibleRune(candidate rune) bool {
	for _, invisibleRange := range invisibleRuneRanges {
		if candidate >= invisibleRange.first && candidate <= invisibleRange.last {
			return true
		}
	}
	return false
}

// IsTrailingRune reports whether the rune is silently stripped when it ends a name.
func IsTrailingRune(candidate rune) bool {
	return strings.ContainsRune(trailingCharactersConstant, candidate)
}

// TrailingCharacters returns the set of runes that may not end a name.
func TrailingCharacters() string {
	return trailingCharactersConstant
}

// LeadingSigil returns the rune that should not start a name.
func LeadingSigil() rune {
	return leadingSigilConstant
}

// ReservedBase returns the portion of the name before its first period and
// whether that portion is a reserved device name.
func ReservedBase(name string) (string, bool) {
	base, _, _ := strings.Cut(name, reservedNameSeparatorConstant)
	_, reserved := reservedDeviceNames[strings.ToUpper(base)]
	return base, reserved
}

// IsReservedName reports whether the name collides with a reserved device name regardless of extension.
func IsReservedName(name string) bool {
	_, reserved := ReservedBase(name)
	return reserved
}

// Length measures a name or path in code points.
func Length(value string) int {
	return utf8.RuneCountInString(value)
}

func collectRunes(name string, predicate func(rune) bool) []rune {
	seen := make(map[rune]struct{})
	for _, candidate := range name {
		if candidate == utf8.RuneError {
			continue
		}
		if predicate(candidate) {
			seen[candidate] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	collected := make([]rune, 0, len(seen))
	for candidate := range seen {
		collected = append(collected, candidate)
	}
	sort.Slice(collected, func(first int, second int) bool {
		return collected[first] < collected[second]
	})
	return collected
}
