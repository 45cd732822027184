package excerpt

import "strings"

// SplitLines splits text into lines with terminators removed. "\n", "\r\n"
// and "\r" all end a line; a terminator at the very end of text does not
// start a new, empty line. Form feeds, vertical tabs, NEL and the Unicode
// line and paragraph separators do not end a line, matching how javac counts
// lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	var lines []string
	for len(text) > 0 {
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i])
		if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
			i++
		}
		text = text[i+1:]
	}
	return lines
}
