package bootstrap

import (
	"context"
	"errors"
	"fmt"
)

// Hook runs at startup or shutdown of an App.
type Hook func(ctx context.Context) error

// OnStart registers hooks that run, in order, before the task. The first
// failure aborts the run and the task never starts.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnStop registers hooks that run after the task, in registration order.
// Every stop hook runs even when an earlier one fails, so one exporter that
// cannot flush does not keep the next from trying.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

func startAll(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("start hook %d: %w", i, err)
		}
	}
	return nil
}

func stopAll(ctx context.Context, hooks []Hook) error {
	var errs []error
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop hook %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
