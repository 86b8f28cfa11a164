package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
)

// Writer receives one record per executed instruction.
type Writer interface {
	WriteStep(step *Step) error
}

// ErrWriterClosed is returned by WriteStep and Flush after Close.
var ErrWriterClosed = errors.New("trace: writer closed")

const stepBufferSize = 64 << 10

// JSONLWriter appends steps to a stream, one JSON object per line. Network
// nodes running on their own goroutines may share one writer.
type JSONLWriter struct {
	mu   sync.Mutex
	out  *bufio.Writer
	enc  *json.Encoder
	file *os.File // nil unless the writer opened it
	done bool
}

// NewJSONLWriter buffers steps on top of w. Close flushes but leaves w open.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	out := bufio.NewWriterSize(w, stepBufferSize)
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{out: out, enc: enc}
}

// NewJSONLWriterFile truncates path and traces into it. Close closes the file.
func NewJSONLWriterFile(path string) (*JSONLWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	tw := NewJSONLWriter(f)
	tw.file = f
	return tw, nil
}

func (tw *JSONLWriter) WriteStep(step *Step) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.done {
		return ErrWriterClosed
	}
	return tw.enc.Encode(step)
}

func (tw *JSONLWriter) Flush() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.done {
		return ErrWriterClosed
	}
	return tw.out.Flush()
}

// Close is idempotent. A flush failure wins over the close error.
func (tw *JSONLWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.done {
		return nil
	}
	tw.done = true
	err := tw.out.Flush()
	if tw.file != nil {
		if cerr := tw.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
