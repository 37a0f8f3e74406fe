package store

import (
	"fmt"
	"os"
)

// Config holds configuration for the Store.
type Config struct {
	// TableName is the name of the single table holding all entities.
	// Required; there is no default.
	TableName string

	// GSI1Name is the name of the per-type listing index.
	// Default: "GSI1"
	GSI1Name string

	// GSI2Name is the name of the domain-scoped listing index.
	// Default: "GSI2"
	GSI2Name string
}

// ConfigFromEnv builds a Config from the TABLE_NAME environment variable.
// A missing table name is a fatal misconfiguration and returns an error.
func ConfigFromEnv() (Config, error) {
	table := os.Getenv("TABLE_NAME")
	if table == "" {
		return Config{}, fmt.Errorf("TABLE_NAME environment variable is not set")
	}
	cfg := Config{TableName: table}
	cfg.validate()
	return cfg, nil
}

// validate fills index-name defaults.
func (c *Config) validate() {
	if c.GSI1Name == "" {
		c.GSI1Name = "GSI1"
	}
	if c.GSI2Name == "" {
		c.GSI2Name = "GSI2"
	}
}
