package llm

import (
	"regexp"
	"strings"
)

// javaCommentPattern captures line comments, block and javadoc comments, and
// string literals: the only places free text can hide in a Java excerpt.
var javaCommentPattern = regexp.MustCompile(`(?s)//[^\n\r]*|/\*.*?\*/|"(?:[^"\\\n]|\\.)*"`)

// injectionPatterns flags comment text addressed to a model rather than to a
// reader of the code, including text aimed at the smell verdict itself.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(ignore|disregard|forget)\s+(all\s+)?(previous|prior|above|earlier)\s+(instructions?|prompts?|rules?)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+an?\b`),
	regexp.MustCompile(`(?i)^\s*[*/]*\s*(system|assistant)\s*:`),
	regexp.MustCompile(`(?i)(note|attention|message)\s+(to|for)\s+(the\s+)?(ai|llm|model|assistant|reviewer\s+bot)`),
	regexp.MustCompile(`(?i)(do\s+not|don't|never)\s+(report|flag|mention)\s+(this|any)\s+(design\s+)?(smell|issue|problem)s?`),
	regexp.MustCompile(`(?i)(answer|respond|reply)\s+(only\s+)?(with\s+)?"?(agree|disagree)"?\b`),
}

// SanitizeCode fences an excerpt as a java code block so the model reads
// it as data. The fence is longer than any backtick run inside the code.
func SanitizeCode(code string) string {
	if code == "" {
		return code
	}

	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}

	var b strings.Builder
	b.WriteString(fence)
	b.WriteString("java\n")
	b.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(fence)
	b.WriteString("\n")
	return b.String()
}

// InstructionComments returns the comments and string literals in code
// that read as instructions to a model. Identifiers and statements are never
// inspected.
func InstructionComments(code string) []string {
	var found []string
	for _, text := range javaCommentPattern.FindAllString(code, -1) {
		for _, line := range strings.Split(text, "\n") {
			if matchesInjection(line) {
				found = append(found, strings.TrimSpace(text))
				break
			}
		}
	}
	return found
}

func matchesInjection(line string) bool {
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
