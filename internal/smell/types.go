package smell

import (
	"errors"
	"sort"
	"strconv"
)

// Column names of the detector report, matched case-insensitively
const (
	ColProject = "project name"
	ColPackage = "package name"
	ColType    = "type name"
	ColSmell   = "design smell"
	ColCause   = "cause of the smell"
	ColLineNo  = "line no"
)

var (
	// ErrMissingColumns is returned when a report lacks required columns
	ErrMissingColumns = errors.New("missing expected columns")
	// ErrUnsupportedFormat is returned for spreadsheet inputs
	ErrUnsupportedFormat = errors.New("unsupported table format")
)

// Metrics maps a metric name (WMC, LCOM, NOF, ...) to its value
type Metrics map[string]float64

// Names returns the metric names in sorted order
func (m Metrics) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Format renders one metric for prompts; absent metrics render empty
func (m Metrics) Format(name string) string {
	v, ok := m[name]
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Record is one normalized detector finding
type Record struct {
	CaseID         string  `json:"case_id"`
	Project        string  `json:"project"`
	Package        string  `json:"package"`
	ClassName      string  `json:"class_name"`
	OuterClass     string  `json:"outer_class"`
	InnerClass     string  `json:"inner_class,omitempty"`
	SmellType      string  `json:"smell_type"`
	DetectorReason string  `json:"detector_reason"`
	Metrics        Metrics `json:"metrics"`
	LineNumber     *int    `json:"line_number,omitempty"`
}

// HasLine reports whether the detector supplied a line number
func (r *Record) HasLine() bool {
	return r.LineNumber != nil
}

// Table is a parsed delimited file: a header row and data rows
type Table struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of a header, or -1
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Value returns row[col] or "" when the row is short
func (t *Table) Value(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
