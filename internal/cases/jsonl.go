package cases

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxLineSize bounds one NDJSON record; excerpts are capped so this is generous
const maxLineSize = 16 * 1024 * 1024

// Writer streams records as newline-delimited JSON
type Writer struct {
	w   io.Writer
	enc *json.Encoder
	n   int
}

// NewWriter creates a Writer over w
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{w: w, enc: enc}
}

// Write appends one record
func (w *Writer) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	w.n++
	return nil
}

// Count returns how many records were written
func (w *Writer) Count() int {
	return w.n
}

// CreateFile opens path for writing, creating parent directories. With
// appendMode existing records are kept.
func CreateFile(path string, appendMode bool) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// Decode reads NDJSON records from r, ignoring blank lines
func Decode[T any](r io.Reader) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var out []T
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading records: %w", err)
	}
	return out, nil
}

// ReadFile loads every record of an NDJSON file
func ReadFile[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Decode[T](f)
}

// ReadCases loads a cases file
func ReadCases(path string) ([]Case, error) {
	return ReadFile[Case](path)
}

// ReadGenerations loads a generations file
func ReadGenerations(path string) ([]Generation, error) {
	return ReadFile[Generation](path)
}
