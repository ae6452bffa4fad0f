//-------------------------------------------------------------------------
//
// Storefront Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"fmt"
	"strings"

	"github.com/shopwright/storefront-etl/internal/mart"
)

// columnSQL maps output column types onto warehouse column types:
// integer-like to a 64-bit integer, floating-point to double precision,
// timestamps to TIMESTAMP, everything else to a bounded varchar.
func columnSQL(t mart.ColumnType) string {
	switch t {
	case mart.Bigint:
		return "BIGINT"
	case mart.Double:
		return "DOUBLE PRECISION"
	case mart.Timestamp:
		return "TIMESTAMP"
	default:
		return "VARCHAR(512)"
	}
}

// CreateTableSQL emits the destination DDL for a table, columns in
// declaration order.
func CreateTableSQL(t *mart.Table, ifNotExists bool) string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = fmt.Sprintf("    %s %s", c.Name, columnSQL(c.Type))
	}
	clause := ""
	if ifNotExists {
		clause = "IF NOT EXISTS "
	}
	return fmt.Sprintf("CREATE TABLE %s%s (\n%s\n)", clause, t.Name, strings.Join(cols, ",\n"))
}

// DropTableSQL emits a cascading drop. The cascade takes dependent views
// and grants with it, which is why truncate-in-place is the default
// strategy.
func DropTableSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)
}

// TruncateSQL empties a table in place, leaving its schema and dependent
// objects untouched.
func TruncateSQL(table string) string {
	return fmt.Sprintf("TRUNCATE %s", table)
}

// CopySQL emits the warehouse bulk-copy from a staged artifact, matching
// the artifact format exactly: pipe delimiter, explicit NULL token, no
// header. TRUNCATECOLUMNS trims over-width text instead of failing rows.
func CopySQL(table, uri, iamRole string) string {
	return fmt.Sprintf(
		"COPY %s FROM '%s' IAM_ROLE '%s' DELIMITER '|' NULL AS 'NULL' TIMEFORMAT 'auto' TRUNCATECOLUMNS",
		table, uri, iamRole,
	)
}
