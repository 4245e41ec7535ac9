// Package config loads warehouse client settings from YAML and the environment.
//
// A file is optional. Environment variables override file values, and
// defaults fill whatever is still unset:
//
//	cfg, err := config.Load("warehouse.yaml")
//	if err != nil {
//	    return err
//	}
//	params := cfg.ConnParams()
//
// Example file:
//
//	connection:
//	  host: adb-123.4.azuredatabricks.net
//	  warehouse_id: abc123
//	session:
//	  wait_timeout: 30s
//	  catalog: main
//	log_level: info
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/warehouse/types"
)

// Environment variables that override file values.
const (
	EnvHost         = "DATABRICKS_HOST"
	EnvClusterID    = "DATABRICKS_CLUSTER_ID"
	EnvWarehouseID  = "DATABRICKS_WAREHOUSE_ID"
	EnvClientID     = "DATABRICKS_CLIENT_ID"
	EnvClientSecret = "DATABRICKS_CLIENT_SECRET"
	EnvToken        = "DATABRICKS_TOKEN"
)

const (
	// DefaultWaitTimeout is the statement wait used when none is configured.
	DefaultWaitTimeout = 50 * time.Second

	// DefaultOrgID is the workspace org used in cluster HTTP paths.
	DefaultOrgID = "0"

	minWaitTimeout = 5 * time.Second
	maxWaitTimeout = 50 * time.Second
)

// ErrInvalidWaitTimeout indicates a session wait timeout outside the accepted range.
var ErrInvalidWaitTimeout = errors.New("config: wait_timeout must be between 5s and 50s")

// Config is the top-level configuration.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Session    SessionConfig    `yaml:"session"`
	LogLevel   string           `yaml:"log_level"`
}

// ConnectionConfig holds the connector path defaults.
type ConnectionConfig struct {
	Host         string `yaml:"host"`
	ClusterID    string `yaml:"cluster_id"`
	WarehouseID  string `yaml:"warehouse_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AccessToken  string `yaml:"access_token"`
	OrgID        string `yaml:"org_id"`
}

// SessionConfig holds the compute session settings.
type SessionConfig struct {
	// WarehouseID is the SQL warehouse statements run on. Falls back to
	// Connection.WarehouseID.
	WarehouseID string        `yaml:"warehouse_id"`
	WaitTimeout time.Duration `yaml:"wait_timeout"`
	Catalog     string        `yaml:"catalog"`
	Schema      string        `yaml:"schema"`
}

// Load reads configuration from a YAML file and applies environment overrides.
//
// An empty path skips the file.
//
// Parameters:
//   - path: Path to a YAML file, or ""
//
// Returns:
//   - *Config: The resolved configuration
//   - error: Error reading or parsing the file
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

// FromEnv builds the configuration from the environment alone.
func FromEnv() (*Config, error) {
	return load("", os.LookupEnv)
}

func load(path string, lookup types.LookupFunc) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv(lookup)
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyEnv(lookup types.LookupFunc) {
	override := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	override(&c.Connection.Host, EnvHost)
	override(&c.Connection.ClusterID, EnvClusterID)
	override(&c.Connection.WarehouseID, EnvWarehouseID)
	override(&c.Connection.ClientID, EnvClientID)
	override(&c.Connection.ClientSecret, EnvClientSecret)
	override(&c.Connection.AccessToken, EnvToken)
}

func (c *Config) applyDefaults() {
	if c.Connection.OrgID == "" {
		c.Connection.OrgID = DefaultOrgID
	}
	if c.Session.WaitTimeout == 0 {
		c.Session.WaitTimeout = DefaultWaitTimeout
	}
	if c.Session.WarehouseID == "" {
		c.Session.WarehouseID = c.Connection.WarehouseID
	}
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	d := c.Session.WaitTimeout
	if d != 0 && (d < minWaitTimeout || d > maxWaitTimeout) {
		return fmt.Errorf("%w: got %s", ErrInvalidWaitTimeout, d)
	}

	return nil
}

// ConnParams returns the connection defaults.
func (c *Config) ConnParams() types.ConnParams {
	return types.ConnParams{
		Host:         c.Connection.Host,
		ClusterID:    c.Connection.ClusterID,
		WarehouseID:  c.Connection.WarehouseID,
		ClientID:     c.Connection.ClientID,
		ClientSecret: c.Connection.ClientSecret,
		AccessToken:  c.Connection.AccessToken,
	}
}
