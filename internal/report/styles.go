package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	errorTagConstant        = "[ERROR]"
	warningTagConstant      = "[WARN ]"
	pathTagConstant         = "[PATH ]"
	fixTagConstant          = "[FIX  ]"
	errorTagColorConstant   = "196"
	warningTagColorConstant = "214"
	pathTagColorConstant    = "245"
	fixTagColorConstant     = "39"
)

// tagStyles renders severity tags. Tags stay plain unless the destination's
// descriptor refers to a terminal; wrapped writers qualify when they forward Fd.
type tagStyles struct {
	errorTag   string
	warningTag string
	pathTag    string
	fixTag     string
}

type descriptorWriter interface {
	Fd() uintptr
}

func isTerminal(writer io.Writer) bool {
	descriptorOwner, hasDescriptor := writer.(descriptorWriter)
	if !hasDescriptor {
		return false
	}
	descriptor := descriptorOwner.Fd()
	return isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor)
}

func newTagStyles(writer io.Writer) tagStyles {
	renderer := lipgloss.NewRenderer(writer, termenv.WithTTY(isTerminal(writer)))

	errorStyle := renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(errorTagColorConstant))
	warningStyle := renderer.NewStyle().
		Foreground(lipgloss.Color(warningTagColorConstant))
	pathStyle := renderer.NewStyle().
		Foreground(lipgloss.Color(pathTagColorConstant))
	fixStyle := renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(fixTagColorConstant))

	return tagStyles{
		errorTag:   errorStyle.Render(errorTagConstant),
		warningTag: warningStyle.Render(warningTagConstant),
		pathTag:    pathStyle.Render(pathTagConstant),
		fixTag:     fixStyle.Render(fixTagConstant),
	}
}
