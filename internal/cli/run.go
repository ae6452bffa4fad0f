package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shopwright/storefront-etl/internal/extract"
	"github.com/shopwright/storefront-etl/internal/logging"
	"github.com/shopwright/storefront-etl/internal/pipeline"
	"github.com/shopwright/storefront-etl/internal/stage"
	"github.com/shopwright/storefront-etl/internal/warehouse"
)

var (
	runExtractsDir string
	runBucket      string
	runIAMRole     string
	runStrategy    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full transform-and-load pipeline",
	Long: `Read the nine extract files, build the dimension and fact tables,
stage each table as a pipe-delimited artifact in object storage, and
bulk-copy it into the warehouse.

Load strategies:
  truncate - empty provisioned tables in place (default; run 'provision'
             once against a fresh warehouse first)
  recreate - drop and recreate each table with inferred column types

Example:
  storefront-etl run --extracts-dir ./data --bucket my-staging-bucket`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runExtractsDir, "extracts-dir", "",
		"directory containing the extract CSV files")
	runCmd.Flags().StringVar(&runBucket, "bucket", "",
		"object-storage bucket for staged artifacts")
	runCmd.Flags().StringVar(&runIAMRole, "iam-role", "",
		"IAM role ARN the warehouse assumes to read staged artifacts")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "",
		"load strategy: truncate or recreate")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if runExtractsDir != "" {
		cfg.Extracts.Dir = runExtractsDir
	}
	if runBucket != "" {
		cfg.Storage.Bucket = runBucket
	}
	if runIAMRole != "" {
		cfg.Storage.IAMRole = runIAMRole
	}
	if runStrategy != "" {
		cfg.Load.Strategy = runStrategy
	}

	// Validate configuration before any connection attempt
	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().
		Str("extracts_dir", cfg.Extracts.Dir).
		Str("bucket", cfg.Storage.Bucket).
		Str("strategy", cfg.Load.Strategy).
		Msg("Starting pipeline run")

	uploader, err := stage.NewUploader(ctx, stage.UploaderConfig{
		Bucket:   cfg.Storage.Bucket,
		Region:   cfg.Storage.Region,
		Prefix:   cfg.Storage.Prefix,
		Endpoint: cfg.Storage.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to set up staging: %w", err)
	}

	pool, err := warehouse.Connect(ctx, cfg.ConnString())
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	stageDir, err := os.MkdirTemp("", "storefront-etl-stage-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stageDir)

	loader := warehouse.NewLoader(pool, uploader, cfg.Storage.IAMRole,
		warehouse.Strategy(cfg.Load.Strategy), stageDir)

	p := pipeline.New(extract.NewReader(cfg.Extracts.Dir), loader)
	report, err := p.Run(ctx)
	if err != nil {
		return err
	}
	if report.Status != pipeline.StatusSuccess {
		return fmt.Errorf("run finished with status %s: %d tables failed",
			report.Status, len(report.Failed()))
	}
	return nil
}
