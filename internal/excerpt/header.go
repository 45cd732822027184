package excerpt

import (
	"regexp"
	"strings"
)

const (
	// windowBefore is how many lines before the reported line the local search starts
	windowBefore = 5
	// windowAfter bounds the local search (exclusive) after the reported line
	windowAfter = 10
)

// SimpleName returns the last dot-separated segment of a type name,
// so "Outer.Inner" becomes "Inner".
func SimpleName(typeName string) string {
	if idx := strings.LastIndex(typeName, "."); idx >= 0 {
		return typeName[idx+1:]
	}
	return typeName
}

// identBoundary matches anything that cannot continue a Java identifier.
// RE2's \b only knows ASCII word characters, so Unicode names need explicit guards.
const identBoundary = `[^\p{L}\p{M}\p{N}_$]`

// HeaderPattern compiles the declaration pattern for one simple type name:
// a class, interface or enum keyword followed by the name as a whole word.
// Letters, digits, marks, '_' and '$' from any script count as word characters.
func HeaderPattern(simpleName string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|` + identBoundary + `)(class|interface|enum)\s+` +
		regexp.QuoteMeta(simpleName) + `(?:` + identBoundary + `|$)`)
}

// LocateHeader finds the 0-based index of the declaration header for
// typeName, starting from a 1-based reportedLine. It first scans a small
// window around the reported line and then the whole file, returning the
// first match in ascending order. ok is false when reportedLine is out of
// range or no header exists.
func LocateHeader(lines []string, reportedLine int, typeName string) (int, bool) {
	n := len(lines)
	if reportedLine < 1 || reportedLine > n {
		return 0, false
	}

	anchor := reportedLine - 1
	pattern := HeaderPattern(SimpleName(typeName))

	lo := max(0, anchor-windowBefore)
	hi := min(n, anchor+windowAfter)
	for i := lo; i < hi; i++ {
		if pattern.MatchString(lines[i]) {
			return i, true
		}
	}

	for i, line := range lines {
		if pattern.MatchString(line) {
			return i, true
		}
	}

	return 0, false
}
