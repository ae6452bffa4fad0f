// Package analyze runs ad-hoc SQL analysis files against the warehouse:
// read a file, split on semicolons, execute each statement, print results.
package analyze

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopwright/storefront-etl/internal/logging"
	"github.com/shopwright/storefront-etl/internal/warehouse"
)

// ReadQueries reads a SQL file and splits it into individual statements
// on semicolons, dropping empty fragments.
func ReadQueries(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SQL file %s: %w", path, err)
	}
	var queries []string
	for _, q := range strings.Split(string(raw), ";") {
		q = strings.TrimSpace(q)
		if q != "" {
			queries = append(queries, q)
		}
	}
	return queries, nil
}

// Run executes every statement in the SQL file and prints each result set
// to stdout. A failing statement is reported and the remaining statements
// still run; the returned error summarizes how many failed.
func Run(ctx context.Context, db warehouse.DB, path string) error {
	queries, err := ReadQueries(path)
	if err != nil {
		return err
	}
	logging.Info().
		Int("queries", len(queries)).
		Str("file", path).
		Msg("Loaded analysis queries")

	failed := 0
	for i, q := range queries {
		if err := runQuery(ctx, db, i+1, q); err != nil {
			failed++
			logging.Error().
				Err(err).
				Int("query", i+1).
				Msg("Analysis query failed")
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d analysis queries failed", failed, len(queries))
	}
	return nil
}

func runQuery(ctx context.Context, db warehouse.DB, n int, q string) error {
	start := time.Now()
	rows, err := db.Query(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols := make([]string, 0, len(rows.FieldDescriptions()))
	for _, fd := range rows.FieldDescriptions() {
		cols = append(cols, fd.Name)
	}

	fmt.Printf("\n-- Query %d --\n%s\n", n, strings.Join(cols, " | "))
	count := 0
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return err
		}
		cells := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				cells[i] = "NULL"
			} else {
				cells[i] = fmt.Sprintf("%v", v)
			}
		}
		fmt.Println(strings.Join(cells, " | "))
		count++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	logging.Debug().
		Int("query", n).
		Int("rows", count).
		Dur("elapsed", time.Since(start)).
		Msg("Analysis query complete")
	return nil
}
