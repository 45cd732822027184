package cases

import (
	"github.com/ihavespoons/smellbench/internal/excerpt"
	"github.com/ihavespoons/smellbench/internal/smell"
)

// Case is one LLM-ready smell instance: the detector's verdict plus the
// source excerpt it points at.
type Case struct {
	CaseID          string           `json:"case_id"`
	Project         string           `json:"project"`
	FilePath        string           `json:"file_path"`
	Package         string           `json:"package"`
	ClassName       string           `json:"class_name"`
	SmellType       string           `json:"smell_type"`
	DetectorReason  string           `json:"detector_reason"`
	Metrics         smell.Metrics    `json:"metrics"`
	CodeExcerpt     string           `json:"code_excerpt"`
	ExcerptStrategy excerpt.Strategy `json:"excerpt_strategy"`
}

// Output is one model answer and how long it took
type Output struct {
	Text     string  `json:"text"`
	LatencyS float64 `json:"latency_s"`
}

// Generation holds a model's three answers for one case
type Generation struct {
	CaseID         string `json:"case_id"`
	FilePath       string `json:"file_path"`
	Model          string `json:"model"`
	PromptHash     string `json:"prompt_hash"`
	RunID          string `json:"run_id,omitempty"`
	Explain        Output `json:"explain"`
	Refactor       Output `json:"refactor"`
	MetaValidation Output `json:"meta_validation"`
}

// SkipReason explains why a record produced no case
type SkipReason string

const (
	SkipNoLine     SkipReason = "no_line"
	SkipNoFile     SkipReason = "no_file"
	SkipUnreadable SkipReason = "unreadable"
)

// BuildStats summarizes one build
type BuildStats struct {
	Records    int                      `json:"records"`
	Written    int                      `json:"written"`
	Skipped    map[SkipReason]int       `json:"skipped"`
	ByStrategy map[excerpt.Strategy]int `json:"by_strategy"`
}

func newBuildStats(records int) *BuildStats {
	return &BuildStats{
		Records:    records,
		Skipped:    make(map[SkipReason]int),
		ByStrategy: make(map[excerpt.Strategy]int),
	}
}
