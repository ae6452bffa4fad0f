//-------------------------------------------------------------------------
//
// Storefront Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for storefront-etl.
// Configuration is loaded from config files and CLI flags; CLI flags take
// precedence over config file values. Every required value has a named
// field, and validation reports all missing values at once, before any
// connection is attempted.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for storefront-etl.
type Config struct {
	// Warehouse holds the analytical warehouse connection settings.
	Warehouse WarehouseConfig `mapstructure:"warehouse"`

	// Storage holds the object-storage staging settings.
	Storage StorageConfig `mapstructure:"storage"`

	// Extracts holds the source extract-file settings.
	Extracts ExtractsConfig `mapstructure:"extracts"`

	// Load holds bulk-load behavior settings.
	Load LoadConfig `mapstructure:"load"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`
}

// WarehouseConfig identifies the destination warehouse. The warehouse speaks
// the PostgreSQL wire protocol (Redshift or plain Postgres).
type WarehouseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// StorageConfig identifies the object-storage bucket used for staging.
type StorageConfig struct {
	// Bucket is the staging bucket name.
	Bucket string `mapstructure:"bucket"`

	// Region is the bucket region.
	Region string `mapstructure:"region"`

	// Prefix is the key prefix under which staged artifacts are written.
	Prefix string `mapstructure:"prefix"`

	// Endpoint optionally points at an S3-compatible API.
	Endpoint string `mapstructure:"endpoint"`

	// IAMRole is the role ARN that authorizes the warehouse to read
	// staged artifacts from the bucket during COPY.
	IAMRole string `mapstructure:"iam_role"`
}

// ExtractsConfig locates the source extract files.
type ExtractsConfig struct {
	// Dir is the local directory containing the nine extract CSVs.
	Dir string `mapstructure:"dir"`
}

// LoadConfig holds bulk-load behavior settings.
type LoadConfig struct {
	// Strategy selects how destination tables are emptied before COPY:
	// "truncate" (in-place, schema provisioned out-of-band) or
	// "recreate" (drop and recreate with inferred column types).
	Strategy string `mapstructure:"strategy"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Warehouse: WarehouseConfig{
			Port: 5439,
		},
		Storage: StorageConfig{
			Region: "us-east-1",
			Prefix: "staging",
		},
		Load: LoadConfig{
			Strategy: "truncate",
		},
		LogLevel: "info",
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./storefront-etl.yaml
// 3. ~/.config/storefront-etl/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("storefront-etl")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "storefront-etl"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// ConnString builds a pgx-compatible connection URL for the warehouse.
func (c *Config) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		url.QueryEscape(c.Warehouse.User),
		url.QueryEscape(c.Warehouse.Password),
		c.Warehouse.Host,
		c.Warehouse.Port,
		c.Warehouse.Database,
	)
}

// missingWarehouse returns the names of unset warehouse values.
func (c *Config) missingWarehouse() []string {
	var missing []string
	if c.Warehouse.Host == "" {
		missing = append(missing, "warehouse.host")
	}
	if c.Warehouse.Port == 0 {
		missing = append(missing, "warehouse.port")
	}
	if c.Warehouse.Database == "" {
		missing = append(missing, "warehouse.database")
	}
	if c.Warehouse.User == "" {
		missing = append(missing, "warehouse.user")
	}
	if c.Warehouse.Password == "" {
		missing = append(missing, "warehouse.password")
	}
	return missing
}

// Validate checks warehouse connection configuration, reporting every
// missing value in a single error.
func (c *Config) Validate() error {
	return missingError(c.missingWarehouse())
}

// ValidateRun checks configuration required for a full pipeline run.
func (c *Config) ValidateRun() error {
	missing := c.missingWarehouse()
	if c.Storage.Bucket == "" {
		missing = append(missing, "storage.bucket")
	}
	if c.Storage.IAMRole == "" {
		missing = append(missing, "storage.iam_role")
	}
	if c.Extracts.Dir == "" {
		missing = append(missing, "extracts.dir")
	}
	if err := missingError(missing); err != nil {
		return err
	}
	if c.Load.Strategy != "truncate" && c.Load.Strategy != "recreate" {
		return fmt.Errorf("load.strategy must be 'truncate' or 'recreate'")
	}
	return nil
}

func missingError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required configuration values: %s",
		strings.Join(missing, ", "))
}
