package assistant

import (
	"strings"

	"finview/internal/core"
)

// Reply is what the chat endpoint returns: the rendered text plus the
// template it was rendered from.
type Reply struct {
	Reply      string                 `json:"reply"`
	Structured *core.ResponseTemplate `json:"structured"`
}

// Format renders t as a bold summary, the details paragraph and a bold
// "Actionable Insight" header followed by one insight per line.
func Format(t core.ResponseTemplate) Reply {
	var b strings.Builder
	b.WriteString("**")
	b.WriteString(t.Summary)
	b.WriteString("**\n\n")
	b.WriteString(t.Details)
	b.WriteString("\n\n**Actionable Insight**\n")
	b.WriteString(strings.Join(t.ActionableInsight, "\n"))

	structured := t.Clone()
	return Reply{Reply: b.String(), Structured: &structured}
}
