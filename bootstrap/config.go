package bootstrap

import (
	"github.com/kbukum/fileflow/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig (value embedding) automatically
// satisfies this interface via promoted methods.
//
// Example:
//
//	type CLIConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Probe probe.Config   `yaml:"probe" mapstructure:"probe"`
//	}
//
//	app, err := bootstrap.NewApp[*CLIConfig](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
