package ingest

import "strings"

// Rule declares one relationship type between two node labels. The loader
// applies each rule to every (from, to) node pair present in the export.
type Rule struct {
	From    string
	To      string
	RelType string
}

// Rules is the fixed relationship schema of a project graph, anchored to a
// single Project node.
var Rules = []Rule{
	{"Project", "Budget", "HAS_BUDGET"},
	{"Budget", "Line_Item", "HAS_LINE_ITEM"},
	{"Project", "Stakeholder", "HAS_STAKEHOLDER"},
	{"Stakeholder", "Role", "PLAYS_ROLE"},
	{"Stakeholder", "Domain_Knowledge", "HAS_DOMAIN_KNOWLEDGE"},
	{"Project", "Client", "HAS_CLIENT"},
	{"Client", "Stakeholder", "OWNED_BY"},
	{"Project", "Feature", "DELIVERS"},
	{"Feature", "Domain_Knowledge", "REQUIRES_DOMAIN_KNOWLEDGE"},
	{"Project", "Constraint", "HAS_CONSTRAINT"},
	{"Feature", "Constraint", "HAS_CONSTRAINT"},
	{"Qual_Scenario", "Constraint", "SATISFIES"},
	{"Project", "Qual_Scenario", "HAS_QUAL_SCENARIO"},
	{"Feature", "Artifact", "PRODUCES"},
	{"Artifact", "Stakeholder", "USED_BY"},
	{"Project", "Artifact", "HAS_ARTIFACT"},
	{"Project", "Decision", "HAS_DECISION"},
	{"Decision", "Stakeholder", "MADE_BY"},
	{"Decision", "Feature", "AFFECTS"},
	{"Project", "Goal", "HAS_GOAL"},
	{"Stakeholder", "Goal_Quotation", "STATES"},
	{"Goal_Quotation", "Goal", "EXPRESSES"},
	{"Goal", "Priority_Level", "HAS_PRIORITY"},
	{"Goal", "Feature", "SUPPORTED_BY"},
	{"Goal", "Stakeholder", "OWNED_BY"},
	{"KPI", "Goal", "MEASURES"},
	{"Evaluation", "Project", "EVALUATES"},
	{"Project", "Timeline", "HAS_TIMELINE"},
	{"Project", "Milestone", "HAS_MILESTONE"},
	{"Feature", "Task", "IMPLEMENTED_BY"},
	{"Project", "Task", "HAS_TASK"},
	{"Project", "Context", "OPERATES_IN"},
	{"Context", "Business", "CAN_BE"},
	{"Context", "Technical", "CAN_BE"},
	{"Context", "Adjacent_System", "INTERFACES_WITH"},
	{"Adjacent_System", "Input_From_Product", "RECEIVES"},
	{"Adjacent_System", "Output_From_Product", "SENDS"},
}

// SchemaHint renders a compact description of the graph schema for the
// fallback generator's prompt: node labels and relationship types only.
func SchemaHint() string {
	labels := make([]string, 0, len(Rules))
	relTypes := make([]string, 0, len(Rules))
	seenLabel := make(map[string]bool)
	seenRel := make(map[string]bool)

	for _, r := range Rules {
		for _, label := range []string{r.From, r.To} {
			if !seenLabel[label] {
				seenLabel[label] = true
				labels = append(labels, label)
			}
		}

		if !seenRel[r.RelType] {
			seenRel[r.RelType] = true
			relTypes = append(relTypes, r.RelType)
		}
	}

	var b strings.Builder

	b.WriteString("Node labels: ")
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString("\nRelationships: ")
	b.WriteString(strings.Join(relTypes, ", "))

	return b.String()
}
