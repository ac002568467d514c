package store

import (
	"context"
	"database/sql"
	"fmt"
)

// countedTables are reported by Counts in this order.
var countedTables = []string{"authors", "posts", "post_meta", "comments", "comment_meta", "terms", "term_meta"}

// Counts returns the number of stored rows per table for one import.
func Counts(ctx context.Context, db *sql.DB, importID string) (map[string]int, error) {
	out := make(map[string]int, len(countedTables))
	for _, table := range countedTables {
		var n int
		// table names come from countedTables, never from input
		q := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE import_id = ?`, table)
		if err := db.QueryRowContext(ctx, q, importID).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		out[table] = n
	}
	return out, nil
}
