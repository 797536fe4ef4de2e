package interview

import (
	"fmt"
	"strings"
)

// Report renders a finished session as a Markdown document.
func Report(s *Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Mock Interview Report: %s\n\n", s.Role)
	fmt.Fprintf(&sb, "**Average Score:** %.1f/10\n\n---\n\n", AverageScore(s.Entries))
	for _, e := range s.Entries {
		fmt.Fprintf(&sb, "## Q%d: %s\n\n", e.Number, e.Question)
		fmt.Fprintf(&sb, "**Answer:** %s\n\n", e.Answer)
		fmt.Fprintf(&sb, "**Score:** %d/10\n\n", e.Score)
		fmt.Fprintf(&sb, "**Feedback:**\n%s\n\n---\n\n", e.Feedback)
	}
	if s.Summary != "" {
		fmt.Fprintf(&sb, "## Performance Summary\n\n%s\n", s.Summary)
	}
	return sb.String()
}

// ReportFilename is the suggested download name for a session report.
func ReportFilename(role string) string {
	return "interview_report_" + strings.ReplaceAll(strings.TrimSpace(role), " ", "_") + ".md"
}
