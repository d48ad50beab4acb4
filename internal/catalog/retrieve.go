// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/asn1spec/pkg/types"
)

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string, matched against block
	// names and content.
	Query string

	// Name filters by block name prefix (e.g. "PCCH" matches
	// "PCCH-Message" and "PCCH-Config").
	Name string

	// Source filters by specification version.
	Source string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Name == "" && q.Source == ""
}

// Retrieve queries the catalog with optional full-text search and
// structured filters. Results are ranked by relevance for full-text
// queries or ordered by source and name otherwise.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.Block, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT b.id, b.name, b.source, b.line_count, b.content
			FROM blocks_fts
			JOIN blocks b ON b.rowid = blocks_fts.rowid
			WHERE blocks_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT b.id, b.name, b.source, b.line_count, b.content
			FROM blocks b
			WHERE 1=1`)
	}

	if opts.Name != "" {
		qb.WriteString(` AND b.name LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(opts.Name)+"%")
	}

	if opts.Source != "" {
		qb.WriteString(` AND b.source = ?`)
		args = append(args, opts.Source)
	}

	if useFTS {
		qb.WriteString(` ORDER BY blocks_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY b.source, b.name`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []types.Block
	for rows.Next() {
		var blk types.Block
		if err := rows.Scan(&blk.ID, &blk.Name, &blk.Source, &blk.LineCount, &blk.Content); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, blk)
	}

	return results, rows.Err()
}

// Get returns the single block with the given stable ID, content included.
func (s *Store) Get(ctx context.Context, id string) (types.Block, error) {
	var blk types.Block
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, source, line_count, content FROM blocks WHERE id = ?`, id,
	).Scan(&blk.ID, &blk.Name, &blk.Source, &blk.LineCount, &blk.Content)

	if err != nil {
		if err == sql.ErrNoRows {
			return types.Block{}, fmt.Errorf("block %s not found", id)
		}
		return types.Block{}, fmt.Errorf("looking up block: %w", err)
	}
	return blk, nil
}

// escapeLike escapes the LIKE wildcard characters in a literal prefix.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
