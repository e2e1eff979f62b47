// Package graphstore executes structured queries against the project graph
// and normalizes backend rows into a uniform shape.
package graphstore

import (
	"context"
	"fmt"
)

// Row maps column names to primitive values (string, number, bool, or nil).
// Backend-specific types are flattened during normalization.
type Row map[string]any

// Result is the uniform shape returned by a QueryStore: ordered columns and
// an ordered sequence of rows. An empty Rows slice means "no data", which is
// distinct from an execution error.
type Result struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Empty reports whether the result carries no rows.
func (r Result) Empty() bool {
	return len(r.Rows) == 0
}

// QueryStore executes a structured query and returns normalized rows.
// Implementations never retry: a fallback-generated query may be semantically
// invalid, and retrying it would burn another full cycle without fixing it.
type QueryStore interface {
	Run(ctx context.Context, query string) (Result, error)
}

// normalizeValue converts a backend value to one of the primitive types a Row
// may hold. Anything non-primitive is rendered to its string form.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string, bool, int64, float64:
		return val
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
