// Package catalog holds the immutable registry of query templates: canonical
// question intents paired with the static graph query that answers them.
package catalog

import (
	"fmt"

	"github.com/Snickdx/project-graph/internal/ragerrors"
)

// Template pairs one canonical answerable intent with the structured query
// that answers it. QueryText is static text executed verbatim; no values are
// ever interpolated into it.
type Template struct {
	// Key is the unique human-readable phrase identifying the intent.
	Key string
	// QueryText is the Cypher to execute verbatim.
	QueryText string
	// Description is a short gloss; Key + " " + Description is the text
	// that gets embedded for matching.
	Description string
}

// EmbeddingText returns the text embedded for matching this template.
func (t Template) EmbeddingText() string {
	return t.Key + " " + t.Description
}

// Catalog is a read-only, ordered collection of templates. It is constructed
// once at startup and never mutated; enumeration order is insertion order.
type Catalog struct {
	templates []Template
	byKey     map[string]int
}

// New builds a catalog from the given templates, preserving order.
// Duplicate keys and empty keys or query text are rejected.
func New(templates []Template) (*Catalog, error) {
	byKey := make(map[string]int, len(templates))
	copied := make([]Template, len(templates))

	for i, t := range templates {
		if t.Key == "" {
			return nil, fmt.Errorf("template at index %d has an empty key", i)
		}

		if t.QueryText == "" {
			return nil, fmt.Errorf("template %q has empty query text", t.Key)
		}

		if _, exists := byKey[t.Key]; exists {
			return nil, fmt.Errorf("duplicate template key %q", t.Key)
		}

		byKey[t.Key] = i
		copied[i] = t
	}

	return &Catalog{templates: copied, byKey: byKey}, nil
}

// Keys returns all template keys in insertion order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.templates))
	for i, t := range c.templates {
		keys[i] = t.Key
	}

	return keys
}

// Lookup returns the template for key, or a NotFoundError if absent.
func (c *Catalog) Lookup(key string) (Template, error) {
	idx, ok := c.byKey[key]
	if !ok {
		return Template{}, ragerrors.NewNotFoundError("template", fmt.Sprintf("template %q not found", key))
	}

	return c.templates[idx], nil
}

// At returns the template at position i. The embedding index built by the
// matcher is positionally coupled to this ordering.
func (c *Catalog) At(i int) Template {
	return c.templates[i]
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}
