package process

import (
	"context"
	"time"
)

// Config holds defaults applied to every command a Runner executes.
type Config struct {
	// Shell interprets scripts passed to RunScript.
	Shell string `yaml:"shell,omitempty" mapstructure:"shell"`
	// GracePeriod is the default grace period for SIGTERM→SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout bounds each command. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
	// Dir is where commands run when they name no directory themselves.
	// Empty means the current directory.
	Dir string `yaml:"dir,omitempty" mapstructure:"dir"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Shell == "" {
		c.Shell = "bash"
	}
}

// Runner executes commands with shared defaults.
type Runner struct {
	config Config
}

// NewRunner creates a runner. Defaults are applied to cfg.
func NewRunner(cfg Config) *Runner {
	cfg.ApplyDefaults()
	return &Runner{config: cfg}
}

// Run executes a command, applying runner-level defaults.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.GracePeriod == 0 {
		cmd.GracePeriod = r.config.GracePeriod
	}
	if cmd.Dir == "" {
		cmd.Dir = r.config.Dir
	}
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}
	return Run(ctx, cmd)
}

// RunScript runs script through the configured shell. The template command
// supplies everything but Binary and Args.
func (r *Runner) RunScript(ctx context.Context, script string, tmpl Command) (*Result, error) {
	sh := Shell(r.config.Shell, script)
	tmpl.Binary, tmpl.Args = sh.Binary, sh.Args
	return r.Run(ctx, tmpl)
}
