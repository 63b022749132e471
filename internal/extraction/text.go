package extraction

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// cleanText folds compatibility characters (non-breaking spaces, ligatures),
// then collapses all whitespace runs into single spaces.
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// cleanCompany drops the employment type suffix LinkedIn appends to company
// names, as in "Acme · Full-time".
func cleanCompany(s string) string {
	if i := strings.Index(s, "·"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// splitDegree separates a combined "Degree, Field" line.
func splitDegree(s string) (degree, field string) {
	degree, field, ok := strings.Cut(s, ",")
	if !ok {
		return s, ""
	}
	return strings.TrimSpace(degree), strings.TrimSpace(field)
}

// cleanMarkdown trims converted post bodies while keeping paragraph breaks.
func cleanMarkdown(s string) string {
	s = norm.NFKC.String(s)
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
