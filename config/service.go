package config

import (
	"github.com/kbukum/fileflow/logger"
	"github.com/kbukum/fileflow/validation"
)

// Environments a binary may declare.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig is the section every fileflow binary shares: identity,
// environment and logging. Binaries squash it into their own config:
//
//	type CLIConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Probe probe.Config   `yaml:"probe" mapstructure:"probe"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig exposes the shared section of an embedding config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig { return c }

// ApplyDefaults fills the shared section. Debug lowers the default log
// level and the logger is tagged with the binary name.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = Environments[0]
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the shared section, logging included.
func (c *ServiceConfig) Validate() error {
	if err := validation.New().
		Required("name", c.Name).
		OneOf("environment", c.Environment, Environments...).
		Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
