package utils

import (
	"io"
	"sync"
)

// InvalidDescriptor is returned by FlushingWriter.Fd when the destination is not backed by a file.
const InvalidDescriptor = ^uintptr(0)

type flusher interface {
	Flush() error
}

type descriptorHolder interface {
	Fd() uintptr
}

// FlushingWriter serializes writes to the report stream and flushes buffered
// destinations after every write, so findings appear while the walk is still
// running. It forwards the destination's file descriptor, which keeps terminal
// detection working for the colourised tags.
type FlushingWriter struct {
	destination io.Writer
	mutex       sync.Mutex
}

// NewFlushingWriter wraps destination. Nil stays nil and an existing FlushingWriter is returned as is.
func NewFlushingWriter(destination io.Writer) io.Writer {
	switch destination.(type) {
	case nil:
		return nil
	case *FlushingWriter:
		return destination
	default:
		return &FlushingWriter{destination: destination}
	}
}

// Write forwards data and flushes the destination when it supports flushing.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	if writer == nil || writer.destination == nil {
		return 0, nil
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.destination.Write(data)
	if writeError == nil {
		writeError = writer.flushDestination()
	}
	return bytesWritten, writeError
}

// Fd returns the destination's descriptor, or InvalidDescriptor when it has none.
func (writer *FlushingWriter) Fd() uintptr {
	if writer == nil {
		return InvalidDescriptor
	}
	holder, hasDescriptor := writer.destination.(descriptorHolder)
	if !hasDescriptor {
		return InvalidDescriptor
	}
	return holder.Fd()
}

func (writer *FlushingWriter) flushDestination() error {
	flushableDestination, canFlush := writer.destination.(flusher)
	if !canFlush {
		return nil
	}
	return flushableDestination.Flush()
}
