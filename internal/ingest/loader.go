// Package ingest materializes a project-graph JSON export into the graph
// store: one node per record, then the fixed relationship rules.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
)

// Export is the JSON shape produced by the spreadsheet conversion pipeline:
// one record list per entity sheet, keyed by sheet name.
type Export struct {
	Metadata Metadata            `json:"metadata"`
	Nodes    map[string][]Record `json:"nodes"`
}

// Metadata describes the export's provenance.
type Metadata struct {
	SourceFile      string   `json:"source_file"`
	ExportTimestamp string   `json:"export_timestamp"`
	SheetNames      []string `json:"sheet_names"`
}

// Record is one entity row; properties are kept as strings, matching the
// export format.
type Record map[string]string

// ParseExport decodes an export document from r.
func ParseExport(r io.Reader) (*Export, error) {
	var export Export
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}

	if len(export.Nodes) == 0 {
		return nil, fmt.Errorf("export contains no node sheets")
	}

	return &export, nil
}

// GraphWriter is the write seam the loader needs from the store. Values are
// always bound as parameters; only validated labels and relationship types
// are spliced into query text.
type GraphWriter interface {
	Write(ctx context.Context, query string, params map[string]any) error
}

// LoadStats summarizes one load run.
type LoadStats struct {
	Nodes         int
	NodesBySheet  map[string]int
	Relationships int
	SkippedSheets []string
}

// Node labels and relationship types cannot be bound as query parameters, so
// they are validated against this pattern before being spliced into MERGE
// statements.
var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Loader writes export documents into the graph.
type Loader struct {
	writer GraphWriter
	logger *slog.Logger
}

// NewLoader creates a loader. Logger may be nil.
func NewLoader(writer GraphWriter, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{writer: writer, logger: logger}
}

// Load merges all nodes and relationships from the export into the graph.
// The operation is idempotent: nodes and relationships are MERGEd by id, so
// re-running a load updates properties without duplicating anything. The
// export must contain a Project sheet with at least one record.
func (l *Loader) Load(ctx context.Context, export *Export) (LoadStats, error) {
	stats := LoadStats{NodesBySheet: make(map[string]int)}

	ids := make(map[string][]string, len(export.Nodes))

	for sheet, records := range export.Nodes {
		if !identifierPattern.MatchString(sheet) {
			l.logger.Warn("skipping sheet with invalid label", "sheet", sheet)
			stats.SkippedSheets = append(stats.SkippedSheets, sheet)

			continue
		}

		for _, record := range records {
			id := record["id"]
			if id == "" {
				continue
			}

			props := make(map[string]any, len(record))
			for k, v := range record {
				if k != "id" && v != "" {
					props[k] = v
				}
			}

			query := fmt.Sprintf("MERGE (n:%s {id: $id}) SET n += $props", sheet)
			if err := l.writer.Write(ctx, query, map[string]any{"id": id, "props": props}); err != nil {
				return stats, fmt.Errorf("merge %s node %q: %w", sheet, id, err)
			}

			ids[sheet] = append(ids[sheet], id)
			stats.Nodes++
			stats.NodesBySheet[sheet]++
		}

		l.logger.Info("sheet loaded", "sheet", sheet, "nodes", stats.NodesBySheet[sheet])
	}

	if len(ids["Project"]) == 0 {
		return stats, fmt.Errorf("export contains no Project node")
	}

	relationships, err := l.applyRules(ctx, ids)
	stats.Relationships = relationships

	if err != nil {
		return stats, err
	}

	l.logger.Info("load complete", "nodes", stats.Nodes, "relationships", stats.Relationships)

	return stats, nil
}

// applyRules MERGEs one relationship per rule for every (from, to) node pair
// present in the export.
func (l *Loader) applyRules(ctx context.Context, ids map[string][]string) (int, error) {
	created := 0

	for _, rule := range Rules {
		fromIDs := ids[rule.From]
		toIDs := ids[rule.To]

		if len(fromIDs) == 0 || len(toIDs) == 0 {
			continue
		}

		query := fmt.Sprintf(
			"MATCH (a:%s {id: $start_id}) MATCH (b:%s {id: $end_id}) MERGE (a)-[:%s]->(b)",
			rule.From, rule.To, rule.RelType,
		)

		for _, fromID := range fromIDs {
			for _, toID := range toIDs {
				err := l.writer.Write(ctx, query, map[string]any{"start_id": fromID, "end_id": toID})
				if err != nil {
					return created, fmt.Errorf("merge %s-[%s]->%s: %w", rule.From, rule.RelType, rule.To, err)
				}

				created++
			}
		}
	}

	return created, nil
}
