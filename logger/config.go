package logger

import "github.com/kbukum/fileflow/validation"

// Config contains logging configuration.
type Config struct {
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"`
	Output      string `yaml:"output" mapstructure:"output"`
	NoColor     bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp   bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller      bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	c.Timestamp = true
}

// Levels and Formats list the accepted level and format names.
var (
	Levels  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	Formats = []string{FormatJSON, FormatConsole, FormatPretty}
)

// Validate checks the level and format names.
func (c *Config) Validate() error {
	return validation.New().
		OneOf("logging.level", c.Level, Levels...).
		OneOf("logging.format", c.Format, Formats...).
		Validate()
}
