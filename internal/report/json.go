package report

import (
	"encoding/json"
	"time"

	"github.com/ihavespoons/smellbench/internal/eval"
)

// JSONReport represents a JSON export report
type JSONReport struct {
	Metadata JSONMetadata        `json:"metadata"`
	Summary  Summary             `json:"summary"`
	Models   []eval.ModelSummary `json:"models,omitempty"`
	Entries  []Entry             `json:"entries"`
}

// JSONMetadata contains report metadata
type JSONMetadata struct {
	Tool        string    `json:"tool"`
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
}

// JSONExporter exports entries to JSON format
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export exports entries to JSON format
func (e *JSONExporter) Export(entries []Entry) ([]byte, error) {
	var rows []eval.Row
	for _, en := range entries {
		if en.Score != nil {
			rows = append(rows, *en.Score)
		}
	}

	if entries == nil {
		entries = []Entry{}
	}
	report := JSONReport{
		Metadata: JSONMetadata{
			Tool:        toolName,
			Version:     toolVersion,
			GeneratedAt: time.Now(),
		},
		Summary: summarize(entries),
		Models:  eval.Summarize(rows),
		Entries: entries,
	}
	return json.MarshalIndent(report, "", "  ")
}

// FileExtension returns the file extension for JSON
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// FormatName returns the format name
func (e *JSONExporter) FormatName() string {
	return "json"
}
