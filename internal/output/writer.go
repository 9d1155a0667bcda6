package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer writes a rendered markdown report to a file or io.Writer.
type Writer struct {
	output    io.Writer
	closeFunc func() error
}

// NewWriter creates a writer that writes to the specified output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{output: w}
}

// NewFileWriter creates a writer that writes to a file.
// The caller must call Close() when done to ensure the file is properly closed.
func NewFileWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		output:    file,
		closeFunc: file.Close,
	}, nil
}

// WriteReport writes the report, ensuring it ends with a newline.
func (w *Writer) WriteReport(report string) error {
	if !strings.HasSuffix(report, "\n") {
		report += "\n"
	}
	if _, err := io.WriteString(w.output, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Close closes the underlying writer if it's a file.
func (w *Writer) Close() error {
	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}
