package excerpt

// MatchBraces scans forward from the header line and returns the index of
// the line on which the declaration's body closes. The scan is lexical:
// braces inside string literals and comments are counted like any other.
// ok is false when the file ends before the body closes.
func MatchBraces(lines []string, header int) (int, bool) {
	if header < 0 {
		return 0, false
	}

	depth := 0
	opened := false
	for i := header; i < len(lines); i++ {
		for _, ch := range lines[i] {
			switch ch {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
				if opened && depth == 0 {
					return i, true
				}
			}
		}
	}
	return 0, false
}
