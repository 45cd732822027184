// Package excerpt locates the declaration a design-smell detector reported
// and returns its full text.
//
// The detector only supplies a class name and an approximate line number,
// so extraction is layered: find the nearest class/interface/enum header,
// brace-match to the end of its body, and fall back to a positional window
// whenever one of those steps fails. Extract never fails; it always returns
// at most MaxLines lines, and at least one when the source is non-empty.
package excerpt

// DefaultMaxLines caps excerpts when a Hint carries no positive limit.
const DefaultMaxLines = 400

// Strategy records which path produced an excerpt
type Strategy string

const (
	// StrategyExactMatch is a located header with a closed body
	StrategyExactMatch Strategy = "exact_match"
	// StrategyHeaderOnly is a located header whose body never closes
	StrategyHeaderOnly Strategy = "header_only_fallback"
	// StrategyWindow is a window near the reported line when no header exists
	StrategyWindow Strategy = "window_fallback"
	// StrategyOutOfRange is the top of the file when the reported line is invalid
	StrategyOutOfRange Strategy = "out_of_range_fallback"
)

// ValidStrategies contains all strategies Extract can report
var ValidStrategies = []Strategy{
	StrategyExactMatch,
	StrategyHeaderOnly,
	StrategyWindow,
	StrategyOutOfRange,
}

// IsFallback reports whether the strategy is one of the positional fallbacks
func (s Strategy) IsFallback() bool {
	return s != StrategyExactMatch
}

// Hint is the detector's pointer into one decoded source file
type Hint struct {
	// Text is the full decoded file content
	Text string
	// ReportedLine is the 1-based line from the detector; it may be off
	ReportedLine int
	// TypeName may be qualified ("Outer.Inner"); only the last segment is matched
	TypeName string
	// MaxLines caps the excerpt; DefaultMaxLines when not positive
	MaxLines int
}

// Result is an extracted excerpt with the 0-based inclusive line range it covers
type Result struct {
	Excerpt  string   `json:"excerpt"`
	Strategy Strategy `json:"strategy"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
}

// LineCount returns the number of lines in the excerpt
func (r Result) LineCount() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Extract runs header search, brace matching and the fallback policy
func Extract(h Hint) Result {
	maxLines := h.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	lines := SplitLines(h.Text)
	n := len(lines)

	if h.ReportedLine < 1 || h.ReportedLine > n {
		text, end := window(lines, 0, maxLines)
		return Result{Excerpt: text, Strategy: StrategyOutOfRange, Start: 0, End: end}
	}

	header, found := LocateHeader(lines, h.ReportedLine, h.TypeName)
	if !found {
		lo := max(0, h.ReportedLine-1-windowBefore)
		text, end := window(lines, lo, maxLines)
		return Result{Excerpt: text, Strategy: StrategyWindow, Start: lo, End: end}
	}

	closing, closed := MatchBraces(lines, header)
	if !closed {
		text, end := window(lines, header, maxLines)
		return Result{Excerpt: text, Strategy: StrategyHeaderOnly, Start: header, End: end}
	}

	end := min(closing, header+maxLines-1)
	return Result{
		Excerpt:  Assemble(lines, header, closing, maxLines),
		Strategy: StrategyExactMatch,
		Start:    header,
		End:      end,
	}
}
