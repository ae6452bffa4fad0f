//-------------------------------------------------------------------------
//
// Storefront Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"os"
	"time"

	"github.com/shopwright/storefront-etl/internal/logging"
	"github.com/shopwright/storefront-etl/internal/mart"
	"github.com/shopwright/storefront-etl/internal/stage"
)

// Strategy selects how a destination table is emptied before the copy.
type Strategy string

const (
	// StrategyTruncate empties the table in place. The destination schema
	// must be provisioned out-of-band (see Provision); dependent objects
	// survive, and the previous contents are recoverable by rollback
	// until the truncate commits.
	StrategyTruncate Strategy = "truncate"

	// StrategyRecreate drops and recreates the table with column types
	// inferred from the output table. The cascading drop is not
	// rollback-safe with respect to the previous contents.
	StrategyRecreate Strategy = "recreate"
)

// ArtifactStore uploads staged artifacts; satisfied by *stage.Uploader.
type ArtifactStore interface {
	Upload(ctx context.Context, table, localPath string) (string, error)
}

// LoadResult is the per-table outcome of a load attempt. Failures are
// values, not panics; the orchestrator decides whether to continue.
type LoadResult struct {
	Table    string
	Rows     int
	Duration time.Duration
	Err      error

	// Skipped marks tables never attempted because an earlier table
	// failed under the fail-fast policy.
	Skipped bool
}

// Loader stages one output table and bulk-copies it into the warehouse
// inside a per-table transaction.
type Loader struct {
	db       DB
	store    ArtifactStore
	iamRole  string
	strategy Strategy
	stageDir string
}

// NewLoader wires a Loader. stageDir is where local artifacts are written
// before upload; they are removed after every load attempt.
func NewLoader(db DB, store ArtifactStore, iamRole string, strategy Strategy, stageDir string) *Loader {
	return &Loader{
		db:       db,
		store:    store,
		iamRole:  iamRole,
		strategy: strategy,
		stageDir: stageDir,
	}
}

// Load performs the staged bulk-load for one table as a single logical
// unit: serialize, upload, then transactionally empty-and-copy. The local
// artifact is deleted whatever the outcome, and every failure is logged
// with its table before it is returned.
func (l *Loader) Load(ctx context.Context, t *mart.Table) LoadResult {
	start := time.Now()
	result := LoadResult{Table: t.Name, Rows: len(t.Rows)}

	path, err := stage.WriteArtifact(t, l.stageDir)
	if err == nil {
		defer os.Remove(path)
		var uri string
		if uri, err = l.store.Upload(ctx, t.Name, path); err == nil {
			err = l.copyInto(ctx, t, uri)
		}
	}
	result.Err = err
	result.Duration = time.Since(start)

	if result.Err != nil {
		logging.Error().
			Err(result.Err).
			Str("table", t.Name).
			Msg("Table load failed")
	} else {
		logging.Info().
			Str("table", t.Name).
			Int("rows", result.Rows).
			Dur("elapsed", result.Duration).
			Msg("Table loaded")
	}
	return result
}

// copyInto empties the destination per the strategy and issues the bulk
// copy, committing on success and rolling back entirely on failure.
func (l *Loader) copyInto(ctx context.Context, t *mart.Table, uri string) error {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	switch l.strategy {
	case StrategyRecreate:
		if _, err := tx.Exec(ctx, DropTableSQL(t.Name)); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, CreateTableSQL(t, false)); err != nil {
			return err
		}
	default:
		if _, err := tx.Exec(ctx, TruncateSQL(t.Name)); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, CopySQL(t.Name, uri, l.iamRole)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
