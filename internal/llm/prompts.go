package llm

import (
	_ "embed"
	"fmt"
	"strings"
)

var (
	//go:embed prompts/summary_brief.txt
	summaryBriefPrompt string
	//go:embed prompts/summary_detailed.txt
	summaryDetailedPrompt string
	//go:embed prompts/summary_bullets.txt
	summaryBulletsPrompt string
	//go:embed prompts/chat.txt
	chatPrompt string
)

// SummaryKind selects one of the three summary variants.
type SummaryKind string

const (
	SummaryBrief    SummaryKind = "brief"
	SummaryDetailed SummaryKind = "detailed"
	SummaryBullets  SummaryKind = "bullets"
)

// SummaryKinds lists the variants in generation order.
var SummaryKinds = []SummaryKind{SummaryBrief, SummaryDetailed, SummaryBullets}

// SummaryPrompt fills the template for kind with the document text.
func SummaryPrompt(kind SummaryKind, text string) (string, error) {
	var tmpl string
	switch kind {
	case SummaryBrief:
		tmpl = summaryBriefPrompt
	case SummaryDetailed:
		tmpl = summaryDetailedPrompt
	case SummaryBullets:
		tmpl = summaryBulletsPrompt
	default:
		return "", fmt.Errorf("unknown summary kind %q", kind)
	}
	return strings.NewReplacer("{{DOCUMENT}}", text).Replace(tmpl), nil
}

// ChatPrompt grounds a user question in the given document context.
func ChatPrompt(context, question string) string {
	return strings.NewReplacer(
		"{{CONTEXT}}", context,
		"{{QUESTION}}", question,
	).Replace(chatPrompt)
}
