//-------------------------------------------------------------------------
//
// Storefront Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package stage serializes output tables to delimited artifacts and
// uploads them to object storage for the warehouse bulk-copy.
package stage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopwright/storefront-etl/internal/mart"
)

// Artifact format shared with the warehouse COPY statement. Pipe avoids
// ambiguity with embedded commas and quotes in free-text fields.
const (
	Delimiter       = "|"
	NullToken       = "NULL"
	TimestampFormat = "2006-01-02 15:04:05"
)

// WriteArtifact serializes a table to <dir>/<table>.psv: pipe-delimited,
// explicit NULL token, no header row. The caller owns removal of the
// returned path after the load attempt; a failed write leaves no partial
// artifact behind.
func WriteArtifact(t *mart.Table, dir string) (string, error) {
	path := filepath.Join(dir, t.Name+".psv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact %s: %w", path, err)
	}

	fail := func(err error) (string, error) {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write artifact %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	for _, row := range t.Rows {
		for i, v := range row {
			if i > 0 {
				if _, err := w.WriteString(Delimiter); err != nil {
					return fail(err)
				}
			}
			if _, err := w.WriteString(FormatValue(v)); err != nil {
				return fail(err)
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail(err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close artifact %s: %w", path, err)
	}
	return path, nil
}

// FormatValue renders one cell. nil renders as the NULL token; text cells
// must not carry the delimiter or a line break into the artifact.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return NullToken
	case string:
		return sanitize(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(TimestampFormat)
	default:
		return sanitize(fmt.Sprintf("%v", x))
	}
}

var sanitizer = strings.NewReplacer(Delimiter, " ", "\n", " ", "\r", " ")

func sanitize(s string) string {
	return sanitizer.Replace(s)
}
