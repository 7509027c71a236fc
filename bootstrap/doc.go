// Package bootstrap wires a binary's typed configuration, logger and
// lifecycle hooks together and runs a finite task under signal handling.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStop(shutdownTelemetry)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return engine.Run(ctx, tasks, false)
//	})
package bootstrap
