package catalog

// Default returns the built-in catalog covering the common questions over a
// project graph: stakeholders, goals and constraints, features, domain
// knowledge, budget, and a few cross-entity analyses.
func Default() *Catalog {
	c, err := New(DefaultTemplates())
	if err != nil {
		// The default set is fixed at compile time; a constructor error here
		// is a programming mistake, not a runtime condition.
		panic("catalog: invalid default templates: " + err.Error())
	}

	return c
}

// DefaultTemplates returns the built-in template definitions in their
// canonical order.
func DefaultTemplates() []Template {
	return []Template{
		// Stakeholder queries
		{
			Key:         "list all stakeholders",
			QueryText:   "MATCH (s:Stakeholder) RETURN s.name, s.department, s.email ORDER BY s.name",
			Description: "Get all stakeholders with their details",
		},
		{
			Key:         "who are the stakeholders",
			QueryText:   "MATCH (s:Stakeholder) RETURN s.name ORDER BY s.name",
			Description: "Get stakeholder names",
		},
		{
			Key:         "show stakeholder roles",
			QueryText:   "MATCH (s:Stakeholder)-[:PLAYS_ROLE]->(r:Role) RETURN s.name, r.name, r.responsibilities",
			Description: "Get stakeholders and their roles",
		},

		// Goals and constraints
		{
			Key:         "what are the goals",
			QueryText:   "MATCH (g:Goal) RETURN g.id, g.name, g.description ORDER BY g.name LIMIT 10",
			Description: "Get project goals",
		},
		{
			Key:         "show project constraints",
			QueryText:   "MATCH (c:Constraint) RETURN c.id, c.name, c.description ORDER BY c.name LIMIT 10",
			Description: "Get project constraints",
		},
		{
			Key:         "what are the requirements",
			QueryText:   "MATCH (g:Goal) RETURN g.name, g.description ORDER BY g.name",
			Description: "Get project goals (requirements alternative)",
		},

		// Features
		{
			Key:         "what features exist",
			QueryText:   "MATCH (f:Feature) RETURN f.id, f.name, f.description ORDER BY f.name",
			Description: "Get all features with descriptions",
		},
		{
			Key:         "show all features",
			QueryText:   "MATCH (f:Feature) RETURN f.id, f.name, f.description ORDER BY f.name",
			Description: "Get features list",
		},

		// Domain knowledge
		{
			Key:         "what domain knowledge exists",
			QueryText:   "MATCH (dk:Domain_Knowledge) RETURN dk.area, dk.level, dk.description ORDER BY dk.area",
			Description: "Get all domain knowledge areas",
		},
		{
			Key:         "who has domain knowledge",
			QueryText:   "MATCH (s:Stakeholder)-[:HAS_DOMAIN_KNOWLEDGE]->(dk:Domain_Knowledge) RETURN s.name, dk.area, dk.level",
			Description: "Get stakeholders and their domain expertise",
		},
		{
			Key:         "authentication expertise",
			QueryText:   "MATCH (s:Stakeholder)-[:HAS_DOMAIN_KNOWLEDGE]->(dk:Domain_Knowledge) WHERE dk.area CONTAINS 'Authentication' RETURN s.name, dk.area, dk.level",
			Description: "Find authentication experts",
		},

		// Project
		{
			Key:         "project information",
			QueryText:   "MATCH (p:Project) RETURN p.name, p.description, p.start_date, p.end_date",
			Description: "Get project details",
		},

		// Budget
		{
			Key:         "budget information",
			QueryText:   "MATCH (b:Budget) RETURN b.amount, b.currency, b.fiscal_year ORDER BY b.fiscal_year",
			Description: "Get budget details",
		},
		{
			Key:         "whats in the budget",
			QueryText:   "MATCH (b:Budget)-[:HAS_LINE_ITEM]->(li:Line_Item) RETURN b.amount as budget, li.description, li.amount, li.category ORDER BY li.amount DESC",
			Description: "Get budget breakdown with line items",
		},
		{
			Key:         "budget breakdown",
			QueryText:   "MATCH (li:Line_Item) RETURN li.description, li.amount, li.category ORDER BY li.amount DESC",
			Description: "Get budget line items",
		},

		// Cross-entity relationships
		{
			Key:         "requirements by stakeholder",
			QueryText:   "MATCH (s:Stakeholder)-[:RAISED_BY]-(r:Functional_Requirement) RETURN s.name, r.description",
			Description: "Get requirements raised by each stakeholder",
		},
		{
			Key:         "features satisfying requirements",
			QueryText:   "MATCH (r:Functional_Requirement)-[:SATISFIED_BY]->(f:Feature) RETURN r.description, f.name",
			Description: "Get which features satisfy which requirements",
		},

		// Quality scenarios
		{
			Key:         "quality scenarios",
			QueryText:   "MATCH (qs:Qual_Scenario) RETURN qs.scenario, qs.description ORDER BY qs.scenario",
			Description: "Get all quality scenarios",
		},
		{
			Key:         "what are the quality scenarios",
			QueryText:   "MATCH (qs:Qual_Scenario) RETURN qs.scenario, qs.description ORDER BY qs.scenario",
			Description: "Get project quality scenarios",
		},

		// Analyses
		{
			Key:         "stakeholder expertise analysis",
			QueryText:   "MATCH (s:Stakeholder)-[:HAS_DOMAIN_KNOWLEDGE]->(dk:Domain_Knowledge) RETURN dk.area, count(s) as expert_count ORDER BY expert_count DESC",
			Description: "Count experts per domain area",
		},
		{
			Key:         "requirement complexity",
			QueryText:   "MATCH (r:Functional_Requirement)-[:REQUIRES_DOMAIN_KNOWLEDGE]->(dk:Domain_Knowledge) RETURN r.description, count(dk) as knowledge_areas_needed ORDER BY knowledge_areas_needed DESC",
			Description: "Requirements by complexity (domain knowledge needed)",
		},
	}
}
