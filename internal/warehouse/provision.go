package warehouse

import (
	"context"

	"github.com/shopwright/storefront-etl/internal/logging"
	"github.com/shopwright/storefront-etl/internal/mart"
)

// Provision creates the destination tables if they do not exist. The
// truncate-in-place strategy depends on this running out-of-band, before
// the first pipeline run against a fresh warehouse.
func Provision(ctx context.Context, db DB, tables []*mart.Table) error {
	for _, t := range tables {
		if _, err := db.Exec(ctx, CreateTableSQL(t, true)); err != nil {
			return err
		}
		logging.Info().
			Str("table", t.Name).
			Int("columns", len(t.Columns)).
			Msg("Provisioned destination table")
	}
	return nil
}
