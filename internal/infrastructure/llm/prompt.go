package llm

import (
	"fmt"
	"strings"

	"AutoPress/internal/domain"
)

// BuildDirective composes the engine-agnostic rewrite instruction. Only the
// transport call differs between engines.
func BuildDirective(source domain.CandidateSource, voice, category string) string {
	var b strings.Builder

	b.WriteString("You are a staff writer for an online music publication. ")
	b.WriteString("Write an original, non-plagiarized news article based on the source below. ")
	b.WriteString("Do not copy sentences from the source; report the story in your own words.\n\n")

	fmt.Fprintf(&b, "Source title: %s\n", source.Title)
	fmt.Fprintf(&b, "Source URL: %s\n", source.URL)
	if source.Description != "" {
		fmt.Fprintf(&b, "Source summary: %s\n", source.Description)
	}
	if source.Age != "" {
		fmt.Fprintf(&b, "Source age: %s\n", source.Age)
	}

	fmt.Fprintf(&b, "\nCategory: %s\n", category)
	fmt.Fprintf(&b, "Brand voice: %s\n\n", voice)

	b.WriteString("Respond with a single JSON object and nothing else:\n")
	b.WriteString(`{"title": "...", "body": "markdown article text", "excerpt": "summary under 160 characters", "tags": ["...", "..."]}`)

	return b.String()
}
