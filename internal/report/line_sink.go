package report

import (
	"fmt"
	"io"
	"os"
)

// lineSink writes formatted report lines and keeps the first write failure.
// Later lines are dropped once the stream is broken.
type lineSink struct {
	writer     io.Writer
	writeError error
}

func newLineSink(writer io.Writer) *lineSink {
	if writer == nil {
		writer = os.Stdout
	}
	return &lineSink{writer: writer}
}

func (sink *lineSink) printf(format string, args ...any) {
	if sink.writeError != nil {
		return
	}
	_, sink.writeError = fmt.Fprintf(sink.writer, format, args...)
}
