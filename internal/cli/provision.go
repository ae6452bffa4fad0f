package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopwright/storefront-etl/internal/transform"
	"github.com/shopwright/storefront-etl/internal/warehouse"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the destination tables in the warehouse",
	Long: `Create the dimension and fact tables if they do not exist. The
default truncate-in-place load strategy requires the destination schema
to exist before the first run; provisioning is kept separate from the
pipeline so that views and grants layered on the tables survive reloads.

Example:
  storefront-etl provision`,
	RunE: runProvision,
}

func runProvision(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := warehouse.Connect(ctx, cfg.ConnString())
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	return warehouse.Provision(ctx, pool, transform.OutputSchemas())
}
