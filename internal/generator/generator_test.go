package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("who owns the login feature", "Nodes: Feature, Stakeholder")

	assert.Contains(t, prompt, "who owns the login feature")
	assert.Contains(t, prompt, "Nodes: Feature, Stakeholder")
	assert.Contains(t, prompt, "ONLY a Cypher query")
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain query passes through",
			in:   "MATCH (n) RETURN n",
			want: "MATCH (n) RETURN n",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  MATCH (n) RETURN n\n",
			want: "MATCH (n) RETURN n",
		},
		{
			name: "cypher fence stripped",
			in:   "```cypher\nMATCH (n) RETURN n\n```",
			want: "MATCH (n) RETURN n",
		},
		{
			name: "bare fence stripped",
			in:   "```\nMATCH (n) RETURN n\n```",
			want: "MATCH (n) RETURN n",
		},
		{
			name: "empty response stays empty",
			in:   "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanResponse(tt.in))
		})
	}
}
