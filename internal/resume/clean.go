package resume

import (
	"regexp"
	"strings"
)

var (
	innerSpace = regexp.MustCompile(`[ \t\f\v]+`)
	blankRuns  = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes extracted resume text: line endings become LF, runs of spaces
// collapse, bullet indentation is kept and at most one blank line separates blocks.
func CleanText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			lines[i] = ""
			continue
		}
		indent := ""
		if isBullet(trimmed) {
			indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		}
		lines[i] = indent + innerSpace.ReplaceAllString(trimmed, " ")
	}

	return strings.TrimSpace(blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

func isBullet(line string) bool {
	for _, p := range []string{"- ", "* ", "• ", "· "} {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
