package smell

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// interimColumns is the column order of the normalized smells CSV
var interimColumns = []string{
	"case_id", "project", "package", "class_name", "outer_class", "inner_class",
	"smell_type", "detector_reason", "metrics", "Line no",
}

// ReadTable reads a comma-separated file, retrying as tab-separated when
// the header parses as a single column.
func ReadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return nil, fmt.Errorf("%w: %s (export the sheet as CSV or TSV)", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}

	t, err := parseTable(data, ',')
	if err != nil || len(t.Header) <= 1 {
		tsv, tsvErr := parseTable(data, '\t')
		if tsvErr != nil {
			if err != nil {
				return nil, fmt.Errorf("failed to parse table: %w", err)
			}
			return nil, fmt.Errorf("failed to parse table: %w", tsvErr)
		}
		t = tsv
	}
	return t, nil
}

func parseTable(data []byte, delim rune) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{Header: header}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// NormalizeSmells maps a detector report onto Records. Header names are
// matched case-insensitively after trimming; values are trimmed. An
// optional "Line no" column supplies line numbers.
func NormalizeSmells(t *Table) ([]Record, error) {
	cols := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, name := range []string{ColProject, ColPackage, ColType, ColSmell, ColCause} {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v (got %v)", ErrMissingColumns, missing, t.Header)
	}

	lineCol, hasLine := cols[ColLineNo]

	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		get := func(name string) string {
			return strings.TrimSpace(t.Value(row, cols[name]))
		}

		r := Record{
			Project:        get(ColProject),
			Package:        get(ColPackage),
			ClassName:      get(ColType),
			SmellType:      get(ColSmell),
			DetectorReason: get(ColCause),
		}
		r.Metrics = ExtractMetrics(r.DetectorReason)
		r.CaseID = CaseID(r.Project, r.Package, r.ClassName, r.SmellType, r.DetectorReason)
		r.OuterClass, r.InnerClass = SplitInner(r.ClassName)
		if hasLine {
			r.LineNumber = parseLine(t.Value(row, lineCol))
		}
		records = append(records, r)
	}
	return records, nil
}

// parseLine accepts only plain digit strings, like the detector emits
func parseLine(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// WriteCSV writes records in the interim smells CSV layout
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(interimColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		metrics := r.Metrics
		if metrics == nil {
			metrics = Metrics{}
		}
		metricsJSON, err := json.Marshal(metrics)
		if err != nil {
			return fmt.Errorf("failed to encode metrics for %s: %w", r.CaseID, err)
		}

		line := ""
		if r.LineNumber != nil {
			line = strconv.Itoa(*r.LineNumber)
		}

		row := []string{
			r.CaseID, r.Project, r.Package, r.ClassName, r.OuterClass, r.InnerClass,
			r.SmellType, r.DetectorReason, string(metricsJSON), line,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("CSV write error: %w", err)
	}
	return nil
}

// WriteCSVFile writes records to path, creating parent directories
func WriteCSVFile(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV loads records written by WriteCSV. Missing optional columns are
// tolerated; case IDs and outer classes are derived when absent.
func ReadCSV(path string) ([]Record, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}

	idx := func(name string) int { return t.Index(name) }
	required := []string{"project", "package", "class_name", "smell_type", "detector_reason"}
	var missing []string
	for _, name := range required {
		if idx(name) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingColumns, missing)
	}

	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		get := func(name string) string { return t.Value(row, idx(name)) }

		r := Record{
			CaseID:         get("case_id"),
			Project:        get("project"),
			Package:        get("package"),
			ClassName:      get("class_name"),
			OuterClass:     get("outer_class"),
			InnerClass:     get("inner_class"),
			SmellType:      get("smell_type"),
			DetectorReason: get("detector_reason"),
			Metrics:        Metrics{},
			LineNumber:     parseLine(get("Line no")),
		}
		if raw := get("metrics"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &r.Metrics); err != nil {
				r.Metrics = Metrics{}
			}
		}
		if r.CaseID == "" {
			r.CaseID = CaseID(r.Project, r.Package, r.ClassName, r.SmellType, r.DetectorReason)
		}
		if r.OuterClass == "" {
			r.OuterClass, r.InnerClass = SplitInner(r.ClassName)
		}
		records = append(records, r)
	}
	return records, nil
}
