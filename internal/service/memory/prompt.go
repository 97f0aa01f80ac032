package memory

import (
	"fmt"
	"strings"
)

const summaryTemplate = `Progressively summarize the lines of conversation provided, adding onto the previous summary and returning a new summary.
Keep the new summary under %d %s. Return only the summary.

Current summary:
%s

New lines of conversation:
%s

New summary:`

func buildSummaryPrompt(summary, record string, budget int, unit string) string {
	if summary == "" {
		summary = "(empty)"
	}
	return fmt.Sprintf(summaryTemplate, budget, unitLabel(unit), summary, record)
}

func unitLabel(unit string) string {
	if unit == "tokens" {
		return "tokens"
	}
	return "characters"
}

// condense collapses whitespace runs so a record stays on one line per speaker.
func condense(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func formatRecord(query, response string) string {
	return "User: " + condense(query) + "\nAssistant: " + condense(response)
}
