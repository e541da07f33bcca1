package utils

import (
	"io"
	"sync"
)

type flushCapableWriter interface {
	Flush() error
}

// FlushingWriter serializes writes to the wrapped writer and flushes it after
// every write so buffered report output becomes visible immediately.
type FlushingWriter struct {
	destination io.Writer
	flusher     flushCapableWriter
	writeGuard  sync.Mutex
}

// NewFlushingWriter wraps the provided writer. A nil writer yields nil and a
// writer that is already wrapped is returned unchanged. Flush support is
// detected once, at wrap time.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if _, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return writer
	}

	wrapped := &FlushingWriter{destination: writer}
	if flusher, supportsFlush := writer.(flushCapableWriter); supportsFlush {
		wrapped.flusher = flusher
	}
	return wrapped
}

// Write forwards data to the wrapped writer and flushes it when supported.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.destination == nil {
		return 0, nil
	}

	flushingWriter.writeGuard.Lock()
	defer flushingWriter.writeGuard.Unlock()

	bytesWritten, writeError := flushingWriter.destination.Write(data)
	if writeError != nil || flushingWriter.flusher == nil {
		return bytesWritten, writeError
	}
	return bytesWritten, flushingWriter.flusher.Flush()
}
