package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopwright/storefront-etl/internal/analyze"
	"github.com/shopwright/storefront-etl/internal/warehouse"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <sql-file>",
	Short: "Run a file of analysis queries against the warehouse",
	Long: `Execute each semicolon-separated statement in the given SQL file
against the warehouse and print the results.

Example:
  storefront-etl analyze sql/analysis_queries.sql`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := warehouse.Connect(ctx, cfg.ConnString())
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	return analyze.Run(ctx, pool, args[0])
}
