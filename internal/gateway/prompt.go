package gateway

import (
	"fmt"
	"strings"
)

const (
	questionTemplate = "Answer the following question using the document below.\n\nQuestion: %s\n\nDocument:\n"
	summaryPreamble  = "Summarize the following document.\n\nDocument:\n"
)

// BuildAnalysisPrompt embeds up to budget characters of document into a prompt.
// The document text is always the tail of the prompt.
func BuildAnalysisPrompt(document, question string, budget int) (string, bool) {
	text, truncated := Truncate(document, budget)
	var b strings.Builder
	q := strings.TrimSpace(question)
	if q != "" {
		fmt.Fprintf(&b, questionTemplate, q)
	} else {
		b.WriteString(summaryPreamble)
	}
	b.WriteString(text)
	return b.String(), truncated
}

// Truncate keeps the first budget characters (runes) of s.
func Truncate(s string, budget int) (string, bool) {
	if budget <= 0 {
		return s, false
	}
	count := 0
	for i := range s {
		if count == budget {
			return s[:i], true
		}
		count++
	}
	return s, false
}
