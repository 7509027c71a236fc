package main

import (
	"fmt"
	"time"

	"github.com/kbukum/fileflow/config"
	"github.com/kbukum/fileflow/observability"
	"github.com/kbukum/fileflow/probe"
	"github.com/kbukum/fileflow/process"
	"github.com/kbukum/fileflow/storage"
	"github.com/kbukum/fileflow/version"
)

const serviceName = "fileflow"

// CLIConfig is read from config.yml and FILEFLOW_* environment variables.
type CLIConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Probe         probe.Config         `yaml:"probe" mapstructure:"probe"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Process       process.Config       `yaml:"process" mapstructure:"process"`
	// Graph, when set, receives the task graph before every run.
	Graph string `yaml:"graph" mapstructure:"graph"`
	// ShutdownTimeout bounds telemetry flushing after a run.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ApplyDefaults fills zero-valued fields.
func (c *CLIConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Short()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Probe.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Process.ApplyDefaults()
	// Task commands write where the local backend looks.
	if c.Process.Dir == "" && c.Storage.Provider == storage.ProviderLocal {
		c.Process.Dir = c.Storage.BasePath
	}
}

// Validate checks every section.
func (c *CLIConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("config.storage: %w", err)
	}
	if err := c.Probe.Validate(); err != nil {
		return fmt.Errorf("config.probe: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}
