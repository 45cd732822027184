package report

import (
	"fmt"
)

// Exporter is the interface for single-file report formats
type Exporter interface {
	Export(entries []Entry) ([]byte, error)
	FileExtension() string
	FormatName() string
}

// ValidFormats contains all supported export formats
var ValidFormats = []string{"md", "markdown", "json", "html"}

// GetExporter returns an exporter for the given format
func GetExporter(format string) (Exporter, error) {
	switch format {
	case "md", "markdown":
		return NewMarkdownExporter(), nil
	case "json":
		return NewJSONExporter(), nil
	case "html":
		return NewHTMLExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s (valid: %v)", format, ValidFormats)
	}
}

// Export renders entries in the given format
func Export(entries []Entry, format string) ([]byte, error) {
	exporter, err := GetExporter(format)
	if err != nil {
		return nil, err
	}
	return exporter.Export(entries)
}

// Summary counts entries along the dimensions reports group by
type Summary struct {
	Total      int            `json:"total"`
	ByModel    map[string]int `json:"by_model"`
	BySmell    map[string]int `json:"by_smell"`
	ByStrategy map[string]int `json:"by_strategy"`
}

func summarize(entries []Entry) Summary {
	s := Summary{
		Total:      len(entries),
		ByModel:    make(map[string]int),
		BySmell:    make(map[string]int),
		ByStrategy: make(map[string]int),
	}
	for _, e := range entries {
		s.ByModel[e.Generation.Model]++
		if e.Case != nil {
			s.BySmell[e.Case.SmellType]++
			s.ByStrategy[string(e.Case.ExcerptStrategy)]++
		}
	}
	return s
}
