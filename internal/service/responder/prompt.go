package responder

import (
	"fmt"
	"strings"
)

type PromptInput struct {
	Category  string
	Corpus    string
	Words     int
	Fragments []string
	Memory    string
	Query     string
}

// BuildPrompt assembles the augmented prompt: instruction, retrieved context,
// conversation summary and the user query, in that order.
func BuildPrompt(in PromptInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "System: Based on the %s content from %s, formulate a short response in %d words or less "+
		"which answers the User query. Use only the context below; say so if it does not contain the answer.\n\n",
		in.Category, in.Corpus, in.Words)

	sb.WriteString("Context:\n")
	if len(in.Fragments) == 0 {
		sb.WriteString("(no matching content)\n")
	}
	for i, f := range in.Fragments {
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, strings.TrimSpace(f))
	}

	if in.Memory != "" {
		sb.WriteString("\nConversation so far:\n")
		sb.WriteString(in.Memory)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nUser: %s\nAssistant:", strings.TrimSpace(in.Query))
	return sb.String()
}
