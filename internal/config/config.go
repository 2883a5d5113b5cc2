// Package config loads renderview configuration from YAML with
// RENDERVIEW_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all renderview configuration.
type Config struct {
	// Network settings for the RPC collaborators.
	Network NetworkConfig `yaml:"network"`

	// Contract selects the default render contract and the alias registry.
	Contract ContractConfig `yaml:"contract"`

	// Tx tunes transaction submission behavior.
	Tx TxConfig `yaml:"tx"`

	// Loader tunes progressive content hydration.
	Loader LoaderConfig `yaml:"loader"`

	// Logging controls verbosity.
	Logging LoggingConfig `yaml:"logging"`
}

// NetworkConfig names the Stellar network the host talks to.
type NetworkConfig struct {
	RPCURL     string `yaml:"rpc_url"`
	Passphrase string `yaml:"passphrase"`
}

// ContractConfig selects contracts.
type ContractConfig struct {
	// DefaultID is the contract whose content is being rendered; tx:
	// and form: actions without an explicit target go here.
	DefaultID string `yaml:"default_id"`
	// RegistryID is the alias registry contract consulted by the
	// resolver for @name references.
	RegistryID string `yaml:"registry_id"`
}

// TxConfig tunes submission.
//
// OptimisticConfirm preserves the viewer's availability-over-certainty
// policy: when result polling cannot confirm a submitted transaction
// within ConfirmRetries attempts, the submission is still reported as
// success. Hosts that need certainty turn this off.
type TxConfig struct {
	ConfirmRetries    int           `yaml:"confirm_retries"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	OptimisticConfirm bool          `yaml:"optimistic_confirm"`
}

// LoaderConfig tunes progressive hydration.
type LoaderConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Network: NetworkConfig{
			RPCURL:     "https://soroban-testnet.stellar.org",
			Passphrase: "Test SDF Network ; September 2015",
		},
		Tx: TxConfig{
			ConfirmRetries:    5,
			PollInterval:      2 * time.Second,
			OptimisticConfirm: true,
		},
		Loader: LoaderConfig{Concurrency: 4},
	}
}

// Load reads path, layering the file over defaults and the environment
// over the file. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnvOverrides layers RENDERVIEW_* variables over the file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RENDERVIEW_RPC_URL"); v != "" {
		cfg.Network.RPCURL = v
	}
	if v := os.Getenv("RENDERVIEW_NETWORK_PASSPHRASE"); v != "" {
		cfg.Network.Passphrase = v
	}
	if v := os.Getenv("RENDERVIEW_CONTRACT_ID"); v != "" {
		cfg.Contract.DefaultID = v
	}
	if v := os.Getenv("RENDERVIEW_REGISTRY_ID"); v != "" {
		cfg.Contract.RegistryID = v
	}
	if v := os.Getenv("RENDERVIEW_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.Verbose = b
		}
	}
}

// Validate rejects values the engine cannot work with.
func (c Config) Validate() error {
	if c.Network.RPCURL == "" {
		return fmt.Errorf("network.rpc_url must not be empty")
	}
	if c.Tx.ConfirmRetries < 0 {
		return fmt.Errorf("tx.confirm_retries must not be negative")
	}
	if c.Tx.PollInterval < 0 {
		return fmt.Errorf("tx.poll_interval must not be negative")
	}
	if c.Loader.Concurrency < 0 {
		return fmt.Errorf("loader.concurrency must not be negative")
	}
	return nil
}
