package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/usestring/exemplar-mcp/pkg/document"
)

// LoadSQL runs query and reads the first column of every row as one JSON
// value. Other columns are ignored and NULL columns are skipped. Selection
// and the document cap from opts apply as in Decode.
func LoadSQL(ctx context.Context, db *sql.DB, opts Options, query string, args ...any) (*Result, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("query returned no columns")
	}

	var (
		raw    []byte
		values []document.Value
		nulls  int
	)
	dest := make([]any, len(cols))
	dest[0] = &raw
	for i := 1; i < len(dest); i++ {
		dest[i] = new(any)
	}

	rowNum := 0
	for rows.Next() {
		rowNum++
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if raw == nil {
			nulls++
			continue
		}
		v, err := document.ParseJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: column %q is not JSON: %w", rowNum, cols[0], err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	res, err := collect(values, opts)
	if err != nil {
		return nil, err
	}
	if nulls > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d rows with NULL %s skipped", nulls, cols[0]))
	}
	return res, nil
}
