package excerpt

import "strings"

// Assemble joins lines[start..end] (inclusive) with newlines, keeping only
// the first maxLines lines when the range is longer.
func Assemble(lines []string, start, end, maxLines int) string {
	start = max(0, start)
	end = min(len(lines)-1, end)
	if start > end {
		return ""
	}

	selected := lines[start : end+1]
	if len(selected) > maxLines {
		selected = selected[:maxLines]
	}
	return strings.Join(selected, "\n")
}

// window returns the bounded positional slice lines[lo:lo+maxLines] and the
// inclusive index of its last line.
func window(lines []string, lo, maxLines int) (string, int) {
	hi := min(len(lines), lo+maxLines)
	if lo >= hi {
		return "", lo - 1
	}
	return strings.Join(lines[lo:hi], "\n"), hi - 1
}
