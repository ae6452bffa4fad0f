//-------------------------------------------------------------------------
//
// Storefront Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for storefront-etl.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/shopwright/storefront-etl/internal/config"
	"github.com/shopwright/storefront-etl/internal/logging"
	"github.com/shopwright/storefront-etl/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "storefront-etl",
		Short: "Star-schema ETL for e-commerce order extracts",
		Long: `storefront-etl ingests the nine normalized e-commerce extracts
(orders, customers, order items, payments, reviews, products, sellers,
geolocation, category translation), reshapes them into conformed dimension
tables plus an order-item fact table, and bulk-loads the result into an
analytical warehouse through a staged object-storage copy path.

Dimension tables always load before the fact table, each table loads in
its own transaction, and the run halts at the first failed table.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./storefront-etl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(sampleCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
