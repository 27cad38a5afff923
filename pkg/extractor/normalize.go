package extractor

import "strings"

// Normalize strips line and block comments, drops blank lines, and
// collapses all remaining whitespace runs to single spaces. Two
// functions that differ only in formatting or comments normalize to
// identical strings.
func Normalize(body string) string {
	stripped := stripBlockComments(body)

	var kept []string
	for _, line := range strings.Split(stripped, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(strings.Fields(strings.Join(kept, "\n")), " ")
}

func stripBlockComments(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:start])
		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			break
		}
		// Preserve the line structure so blank-line dropping still sees
		// lines that held only a comment.
		b.WriteString(strings.Repeat("\n", strings.Count(s[start:start+2+end+2], "\n")))
		s = s[start+2+end+2:]
	}
	return b.String()
}
