// Package generator wraps external text-generation capabilities behind a
// narrow contract: question plus schema hint in, raw query text out. The
// generated query is not validated here; a bad query fails at execution time.
package generator

import (
	"context"
	"fmt"
	"strings"
)

// Generator produces a structured query for a question the template catalog
// cannot answer. Implementations may be slow (seconds), may return malformed
// output, and may fail outright; callers bound them with a context deadline.
type Generator interface {
	GenerateQuery(ctx context.Context, question, schemaHint string) (string, error)
}

// buildPrompt constructs the constrained prompt sent to the model: the
// question plus a compact description of the graph's labels and relationship
// types, instructing the model to emit nothing but the query.
func buildPrompt(question, schemaHint string) string {
	var b strings.Builder

	b.WriteString("Write ONLY a Cypher query. No explanations or text.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	fmt.Fprintf(&b, "Schema: %s\n\n", schemaHint)
	b.WriteString("Query:")

	return b.String()
}

// cleanResponse strips whitespace and Markdown code fences from model output.
// Models frequently wrap queries in ```cypher blocks despite instructions.
func cleanResponse(text string) string {
	text = strings.TrimSpace(text)

	if after, ok := strings.CutPrefix(text, "```"); ok {
		text = after
		// Drop a language tag on the fence line (e.g. "cypher").
		if idx := strings.IndexByte(text, '\n'); idx >= 0 && !strings.ContainsAny(text[:idx], " (") {
			text = text[idx+1:]
		}

		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	return strings.TrimSpace(text)
}
