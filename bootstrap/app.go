package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/fileflow/logger"
	"github.com/kbukum/fileflow/version"
)

// App represents a command-line application with uniform lifecycle handling.
// The type parameter C is the config type, which must satisfy the Config
// interface. Any struct embedding config.ServiceConfig satisfies Config.
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger

	shutdownTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	s := newSettings(opts)
	if s.log == nil {
		logger.Init(base.Logging)
		s.log = logger.GetGlobalLogger()
	}
	return &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Logger:          s.log,
		shutdownTimeout: s.shutdownTimeout,
	}, nil
}

// RunTask runs OnStart hooks, then task, then OnStop hooks. SIGINT and
// SIGTERM cancel the task's context. OnStop hooks always run once startup
// succeeded; the task's error takes precedence over a shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	fields := version.Get().Fields()
	fields["name"] = a.Name
	a.Logger.Debug("starting", fields)

	if err := startAll(ctx, a.onStart); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("received signal, canceling", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// stop runs OnStop hooks within the shutdown timeout.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	if err := stopAll(ctx, a.onStop); err != nil {
		a.Logger.Error("shutdown hook failed", logger.Fields(logger.FieldError, err.Error()))
		return err
	}
	return nil
}
