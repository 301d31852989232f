package config

// Package config provides a reusable loader for prism-node configuration
// files and environment variables. It is versioned so that applications
// can depend on a stable API contract.
//
// Version: v0.1.0

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/prism-network/prism-index/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config represents the unified configuration for a prism-node process. It
// mirrors the structure of the YAML files under cmd/config.
type Config struct {
	Network struct {
		Identifier string `mapstructure:"identifier" json:"identifier"` // mainnet, preprod, preview
	} `mapstructure:"network" json:"network"`

	ChainFollower struct {
		Source        string `mapstructure:"source" json:"source"` // "n2n" or "polling"
		N2NAddr       string `mapstructure:"n2n_addr" json:"n2n_addr"`
		DbSyncURL     string `mapstructure:"dbsync_url" json:"dbsync_url"`
		PollInterval  int    `mapstructure:"poll_interval_seconds" json:"poll_interval_seconds"`
		IdleTimeout   int    `mapstructure:"idle_timeout_seconds" json:"idle_timeout_seconds"`
		RestartDelay  int    `mapstructure:"restart_delay_seconds" json:"restart_delay_seconds"`
		CursorPersist int    `mapstructure:"cursor_persist_seconds" json:"cursor_persist_seconds"`
	} `mapstructure:"chain_follower" json:"chain_follower"`

	Database struct {
		DSN             string `mapstructure:"dsn" json:"dsn"`
		MaxOpenConns    int    `mapstructure:"max_open_conns" json:"max_open_conns"`
		IndexerInterval int    `mapstructure:"indexer_interval_seconds" json:"indexer_interval_seconds"`
	} `mapstructure:"database" json:"database"`

	Submitter struct {
		WalletBaseURL     string `mapstructure:"wallet_base_url" json:"wallet_base_url"`
		WalletID          string `mapstructure:"wallet_id" json:"wallet_id"`
		WalletPassphrase  string `mapstructure:"wallet_passphrase" json:"wallet_passphrase"`
		PaymentAddress    string `mapstructure:"payment_address" json:"payment_address"`
		BatchSize         int    `mapstructure:"batch_size" json:"batch_size"`
		RequestTimeoutSec int    `mapstructure:"request_timeout_seconds" json:"request_timeout_seconds"`
	} `mapstructure:"submitter" json:"submitter"`

	HTTP struct {
		ListenAddr   string `mapstructure:"listen_addr" json:"listen_addr"`
		DefaultPage  int    `mapstructure:"default_page_size" json:"default_page_size"`
		MaxPageSize  int    `mapstructure:"max_page_size" json:"max_page_size"`
	} `mapstructure:"http" json:"http"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv() // process environment, including any .env the caller loaded

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the PRISM_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("PRISM_ENV", ""))
}
